package zone_test

import (
	"math"
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/pkg/errs"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}
}

func point(t *testing.T, lng, lat float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lng, lat)
	require.NoError(t, err)
	return p
}

func TestNewGeometry_Valid(t *testing.T) {
	t.Run("polygon", func(t *testing.T) {
		g, err := zone.NewGeometry(orb.Polygon{square(36.80, -1.30, 36.90, -1.20)})

		require.NoError(t, err)
		require.NoError(t, g.Validate())
		assert.Equal(t, "Polygon", g.Type())
		assert.Equal(t, orb.Bound{Min: orb.Point{36.80, -1.30}, Max: orb.Point{36.90, -1.20}}, g.Bound())
	})

	t.Run("polygon with hole", func(t *testing.T) {
		_, err := zone.NewGeometry(orb.Polygon{square(0, 0, 10, 10), square(4, 4, 6, 6)})
		require.NoError(t, err)
	})

	t.Run("hole touching the outer ring", func(t *testing.T) {
		_, err := zone.NewGeometry(orb.Polygon{square(0, 0, 10, 10), {{0, 5}, {5, 4}, {5, 6}, {0, 5}}})
		require.NoError(t, err)
	})

	t.Run("multipolygon", func(t *testing.T) {
		g, err := zone.NewGeometry(orb.MultiPolygon{
			{square(0, 0, 1, 1)},
			{square(5, 5, 6, 6)},
		})
		require.NoError(t, err)
		assert.Equal(t, "MultiPolygon", g.Type())
	})

	t.Run("input is copied", func(t *testing.T) {
		ring := square(0, 0, 10, 10)
		g, err := zone.NewGeometry(orb.Polygon{ring})
		require.NoError(t, err)

		ring[2] = orb.Point{50, 50}

		assert.False(t, g.Contains(point(t, 20, 20)))
	})
}

func TestNewGeometry_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		shape   orb.Geometry
		message string
	}{
		{
			name:    "too few positions",
			shape:   orb.Polygon{{{0, 0}, {1, 0}, {0, 0}}},
			message: "at least 4 required",
		},
		{
			name:    "open ring",
			shape:   orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
			message: "first and last positions differ",
		},
		{
			name:    "longitude out of range",
			shape:   orb.Polygon{square(170, 0, 200, 10)},
			message: "position 1",
		},
		{
			name:    "latitude not finite",
			shape:   orb.Polygon{{{0, 0}, {1, 0}, {1, math.NaN()}, {0, 0}}},
			message: "not a finite number",
		},
		{
			name:    "self intersecting bow tie",
			shape:   orb.Polygon{{{0, 0}, {10, 10}, {10, 0}, {0, 12}, {0, 0}}},
			message: "edges 0 and 2 intersect",
		},
		{
			name:    "edge folding back",
			shape:   orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {10, 5}, {0, 10}, {0, 0}}},
			message: "edges 1 and 2 intersect",
		},
		{
			name:    "repeated position",
			shape:   orb.Polygon{{{0, 0}, {10, 0}, {10, 0}, {10, 10}, {0, 0}}},
			message: "repeats the previous one",
		},
		{
			name:    "collinear ring",
			shape:   orb.Polygon{{{0, 0}, {5, 0}, {10, 0}, {0, 0}}},
			message: "no area",
		},
		{
			name:    "antimeridian crossing",
			shape:   orb.Polygon{{{170, 0}, {-170, 0}, {-170, 10}, {170, 10}, {170, 0}}},
			message: "antimeridian",
		},
		{
			name:    "polygon without rings",
			shape:   orb.Polygon{},
			message: "outer ring",
		},
		{
			name:    "invalid hole",
			shape:   orb.Polygon{square(0, 0, 10, 10), {{4, 4}, {6, 6}, {4, 4}}},
			message: "polygon ring 1",
		},
		{
			name:    "hole outside the outer ring",
			shape:   orb.Polygon{square(0, 0, 10, 10), square(20, 20, 22, 22)},
			message: "polygon ring 1 (cause: position 0 lies outside the outer ring)",
		},
		{
			name:    "hole overlapping the outer ring",
			shape:   orb.Polygon{square(0, 0, 10, 10), square(5, 5, 15, 15)},
			message: "position 1 lies outside the outer ring",
		},
		{
			name: "hole crossing a concave outer ring",
			shape: orb.Polygon{
				{{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 3}, {3, 3}, {3, 10}, {0, 10}, {0, 0}},
				square(1, 5, 9, 6),
			},
			message: "edge 0 crosses outer ring edge 3",
		},
		{
			name:    "invalid member of multipolygon",
			shape:   orb.MultiPolygon{{square(0, 0, 1, 1)}, {{{5, 5}, {6, 5}, {6, 6}, {5, 6}}}},
			message: "polygon 1 ring 0",
		},
		{
			name:    "unsupported type",
			shape:   orb.Point{1, 1},
			message: "Point is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := zone.NewGeometry(tt.shape)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, zone.Geometry{}, g)
		})
	}

	t.Run("nil shape", func(t *testing.T) {
		_, err := zone.NewGeometry(nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("empty multipolygon", func(t *testing.T) {
		_, err := zone.NewGeometry(orb.MultiPolygon{})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestGeometry_Contains(t *testing.T) {
	withHole, err := zone.NewGeometry(orb.Polygon{square(0, 0, 10, 10), square(4, 4, 6, 6)})
	require.NoError(t, err)

	multi, err := zone.NewGeometry(orb.MultiPolygon{{square(0, 0, 1, 1)}, {square(5, 5, 6, 6)}})
	require.NoError(t, err)

	tests := []struct {
		name     string
		geometry zone.Geometry
		lng, lat float64
		want     bool
	}{
		{"interior", withHole, 2, 2, true},
		{"outside", withHole, 15, 5, false},
		{"outer edge", withHole, 10, 5, true},
		{"outer corner", withHole, 0, 0, true},
		{"inside hole", withHole, 5, 5, false},
		{"hole edge", withHole, 4, 5, true},
		{"first member", multi, 0.5, 0.5, true},
		{"second member", multi, 5.5, 5.5, true},
		{"between members", multi, 3, 3, false},
		{"zero geometry", zone.Geometry{}, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.geometry.Contains(point(t, tt.lng, tt.lat)))
		})
	}
}

func TestGeometryFromGeoJSON(t *testing.T) {
	raw := `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`

	t.Run("round trip", func(t *testing.T) {
		g, err := zone.GeometryFromGeoJSON([]byte(raw))
		require.NoError(t, err)

		out, err := g.GeoJSON()
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	})

	t.Run("multipolygon", func(t *testing.T) {
		g, err := zone.GeometryFromGeoJSON([]byte(
			`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]],[[[5,5],[6,5],[6,6],[5,5]]]]}`))
		require.NoError(t, err)
		assert.True(t, g.Contains(point(t, 5.9, 5.5)))
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := zone.GeometryFromGeoJSON([]byte(`{"type":`))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("point geometry", func(t *testing.T) {
		_, err := zone.GeometryFromGeoJSON([]byte(`{"type":"Point","coordinates":[1,2]}`))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := zone.GeometryFromGeoJSON(nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero geometry cannot be rendered", func(t *testing.T) {
		_, err := zone.Geometry{}.GeoJSON()
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
