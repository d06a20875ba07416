package zone

import (
	"errors"
	"fmt"
	"math"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

const minRingPositions = 4

// ErrGeometryIsNotConstructed is returned when a zero-value Geometry is used.
var ErrGeometryIsNotConstructed = errs.NewValueIsRequiredError("geometry")

// Geometry is the validated area of a zone: an orb.Polygon or orb.MultiPolygon
// in longitude/latitude order.
type Geometry struct {
	shape orb.Geometry
}

// NewGeometry validates shape and keeps a private copy of it.
func NewGeometry(shape orb.Geometry) (Geometry, error) {
	if shape == nil {
		return Geometry{}, ErrGeometryIsNotConstructed
	}

	var err error
	switch g := shape.(type) {
	case orb.Polygon:
		err = validatePolygon("polygon", g)
	case orb.MultiPolygon:
		if len(g) == 0 {
			return Geometry{}, errs.NewValueIsRequiredError("multipolygon polygons")
		}
		for idx, p := range g {
			err = errors.Join(err, validatePolygon(fmt.Sprintf("polygon %d", idx), p))
		}
	default:
		return Geometry{}, errs.NewValueIsInvalidErrorWithCause(
			"geometry",
			fmt.Errorf("%s is not supported, expected Polygon or MultiPolygon", shape.GeoJSONType()),
		)
	}
	if err != nil {
		return Geometry{}, errs.NewValueIsInvalidErrorWithCause("geometry", err)
	}

	return Geometry{shape: orb.Clone(shape)}, nil
}

// GeometryFromGeoJSON parses a GeoJSON geometry object such as
// {"type":"Polygon","coordinates":[[[36.8,-1.3],[36.9,-1.3],[36.9,-1.2],[36.8,-1.3]]]}.
func GeometryFromGeoJSON(raw []byte) (Geometry, error) {
	if len(raw) == 0 {
		return Geometry{}, ErrGeometryIsNotConstructed
	}
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return Geometry{}, errs.NewValueIsInvalidErrorWithCause("geometry", err)
	}
	return NewGeometry(g.Geometry())
}

func (g Geometry) Validate() error {
	if g.shape == nil {
		return ErrGeometryIsNotConstructed
	}
	return nil
}

// GeoJSON renders the geometry object.
func (g Geometry) GeoJSON() ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return geojson.NewGeometry(g.shape).MarshalJSON()
}

// Orb returns a copy of the underlying shape.
func (g Geometry) Orb() orb.Geometry {
	if g.shape == nil {
		return nil
	}
	return orb.Clone(g.shape)
}

// Type is the GeoJSON type name, Polygon or MultiPolygon.
func (g Geometry) Type() string {
	if g.shape == nil {
		return ""
	}
	return g.shape.GeoJSONType()
}

func (g Geometry) Bound() orb.Bound {
	if g.shape == nil {
		return orb.Bound{}
	}
	return g.shape.Bound()
}

// Contains reports whether point lies inside the outer ring of any polygon and
// outside its holes. Boundaries, hole boundaries included, count as inside.
func (g Geometry) Contains(point kernel.GeoPoint) bool {
	pt := point.Orb()
	switch shape := g.shape.(type) {
	case orb.Polygon:
		return polygonContains(shape, pt)
	case orb.MultiPolygon:
		for _, p := range shape {
			if polygonContains(p, pt) {
				return true
			}
		}
	}
	return false
}

func polygonContains(p orb.Polygon, pt orb.Point) bool {
	if len(p) == 0 || !planar.RingContains(p[0], pt) {
		return false
	}
	for _, hole := range p[1:] {
		if planar.RingContains(hole, pt) && !onRing(hole, pt) {
			return false
		}
	}
	return true
}

func validatePolygon(name string, p orb.Polygon) error {
	if len(p) == 0 {
		return errs.NewValueIsRequiredError(name + " outer ring")
	}
	var err error
	for idx, ring := range p {
		err = errors.Join(err, validateRing(fmt.Sprintf("%s ring %d", name, idx), ring))
	}
	if err != nil {
		return err
	}

	for idx, hole := range p[1:] {
		err = errors.Join(err, validateHole(fmt.Sprintf("%s ring %d", name, idx+1), p[0], hole))
	}
	return err
}

// validateHole requires hole to stay within shell. Touching the shell is
// allowed, crossing it is not.
func validateHole(name string, shell, hole orb.Ring) error {
	for idx, pt := range hole {
		if !planar.RingContains(shell, pt) {
			return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("position %d lies outside the outer ring", idx))
		}
	}

	for i := 0; i < len(hole)-1; i++ {
		for j := 0; j < len(shell)-1; j++ {
			if segmentsCross(hole[i], hole[i+1], shell[j], shell[j+1]) {
				return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("edge %d crosses outer ring edge %d", i, j))
			}
		}
	}
	return nil
}

func validateRing(name string, r orb.Ring) error {
	if len(r) < minRingPositions {
		return errs.NewValueIsInvalidErrorWithCause(
			name, fmt.Errorf("%d positions, at least %d required", len(r), minRingPositions))
	}

	for idx, pt := range r {
		if err := kernel.ValidateOrbPoint(pt); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("%s position %d", name, idx), err)
		}
	}

	if !r.Closed() {
		return errs.NewValueIsInvalidErrorWithCause(name, errors.New("first and last positions differ"))
	}

	for idx := 1; idx < len(r); idx++ {
		if r[idx].Equal(r[idx-1]) {
			return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("position %d repeats the previous one", idx))
		}
		if math.Abs(r[idx].Lon()-r[idx-1].Lon()) > 180 {
			return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("edge %d crosses the antimeridian", idx-1))
		}
	}

	if r.Orientation() == 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, errors.New("ring has no area"))
	}

	if i, j, ok := firstSelfIntersection(r); ok {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("edges %d and %d intersect", i, j))
	}

	return nil
}

// firstSelfIntersection checks every pair of edges of a closed ring. Adjacent
// edges may only share their common vertex.
func firstSelfIntersection(r orb.Ring) (int, int, bool) {
	edges := len(r) - 1
	for i := 0; i < edges; i++ {
		a, b := r[i], r[i+1]
		for j := i + 1; j < edges; j++ {
			c, d := r[j], r[j+1]
			adjacent := j == i+1 || (i == 0 && j == edges-1)
			if adjacent {
				if overlapsAdjacent(a, b, c, d, j == i+1) {
					return i, j, true
				}
				continue
			}
			if segmentsIntersect(a, b, c, d) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// overlapsAdjacent reports whether two edges sharing a vertex fold back onto
// each other. When forward is true the shared vertex is b == c, otherwise a == d.
func overlapsAdjacent(a, b, c, d orb.Point, forward bool) bool {
	var shared, p, q orb.Point
	if forward {
		shared, p, q = b, a, d
	} else {
		shared, p, q = a, b, c
	}
	if cross(shared, p, q) != 0 {
		return false
	}
	return dot(shared, p, q) > 0
}

func segmentsIntersect(a, b, c, d orb.Point) bool {
	if segmentsCross(a, b, c, d) {
		return true
	}

	d1 := sign(cross(c, d, a))
	d2 := sign(cross(c, d, b))
	d3 := sign(cross(a, b, c))
	d4 := sign(cross(a, b, d))
	return (d1 == 0 && onSegment(c, d, a)) ||
		(d2 == 0 && onSegment(c, d, b)) ||
		(d3 == 0 && onSegment(a, b, c)) ||
		(d4 == 0 && onSegment(a, b, d))
}

// segmentsCross reports whether a-b and c-d cross at a point interior to both.
func segmentsCross(a, b, c, d orb.Point) bool {
	return sign(cross(c, d, a))*sign(cross(c, d, b)) < 0 &&
		sign(cross(a, b, c))*sign(cross(a, b, d)) < 0
}

func onRing(r orb.Ring, pt orb.Point) bool {
	for idx := 0; idx < len(r)-1; idx++ {
		if cross(r[idx], r[idx+1], pt) == 0 && onSegment(r[idx], r[idx+1], pt) {
			return true
		}
	}
	return false
}

// onSegment assumes p is collinear with a-b and checks it lies within the segment's box.
func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}

// cross is the z component of (b-o) x (p-o).
func cross(o, b, p orb.Point) float64 {
	return (b[0]-o[0])*(p[1]-o[1]) - (b[1]-o[1])*(p[0]-o[0])
}

// dot is (p-o) . (q-o).
func dot(o, p, q orb.Point) float64 {
	return (p[0]-o[0])*(q[0]-o[0]) + (p[1]-o[1])*(q[1]-o[1])
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
