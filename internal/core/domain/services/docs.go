// Package services holds the dispatch domain services: matching new package
// addresses onto a driver's existing stops, sequencing the stops of a route,
// and choosing the driver for a new assignment. The services are stateless;
// callers build a StopGraph per dispatch attempt and discard it afterwards.
package services
