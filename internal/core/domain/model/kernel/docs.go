// Package kernel contains shared value objects used across the domain model:
// UUID identifiers and geographic Coordinates with great-circle distance.
// Both are immutable, constructor-validated, and invalid as zero values.
package kernel
