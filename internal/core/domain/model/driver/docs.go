// Package driver contains the Driver aggregate and its reported Location
// entity. Assignability combines the driver's operational status, their
// availability flag, and the freshness of their latest reported position.
package driver
