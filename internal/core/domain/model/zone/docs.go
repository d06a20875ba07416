// Package zone models delivery zones: named areas of the map, each described by
// a GeoJSON Polygon or MultiPolygon, that carry the delivery fee and estimated
// delivery time charged to orders placed inside them.
//
// Zones are created and edited by admins. Order placement and browsing only
// read them, and an order copies the fee and ETA at placement so later edits
// never change existing orders.
//
// Geometry rules:
//   - every ring has at least four positions and is closed
//   - positions are finite longitude/latitude pairs within WGS84 range
//   - rings neither self-intersect nor collapse to zero area
//   - consecutive longitudes never jump by more than 180 degrees
//     (rings crossing the antimeridian are not supported)
//
// A point on a ring boundary is inside the zone, holes excluded.
package zone
