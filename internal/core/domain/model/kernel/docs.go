// Package kernel provides the shared domain primitives of the marketplace:
//   - UUID: identifier value object used by orders, zones, merchants, users and drivers
//   - GeoPoint: a validated WGS84 longitude/latitude pair
//   - Money: a non-negative decimal amount for fees and prices
//
// All primitives are immutable values whose zero value fails Validate, so a
// value that skipped its constructor is caught before it reaches persistence.
package kernel
