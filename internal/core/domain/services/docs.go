// Package services provides domain services that work across several zone
// aggregates and don't naturally belong to a single one.
//
// The package includes:
//   - ZoneResolver: picks the zone serving a coordinate when zones overlap and
//     ranks zones for neighborhood search
package services
