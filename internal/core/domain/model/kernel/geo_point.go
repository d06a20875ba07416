package kernel

import (
	"errors"
	"fmt"
	"math"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/paulmach/orb"
)

const (
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
)

// ErrGeoPointIsNotConstructed is returned when a zero-value GeoPoint is used.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a WGS84 position. Coordinates are finite and within
// [MinLongitude..MaxLongitude] x [MinLatitude..MaxLatitude].
type GeoPoint struct { //nolint:recvcheck //using for validation
	longitude float64
	latitude  float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint validates both coordinates and reports every violation at once.
//
//	p, err := kernel.NewGeoPoint(36.8219, -1.2921) // Nairobi CBD
func NewGeoPoint(longitude, latitude float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLongitude(longitude), p.setLatitude(latitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// GeoPointFromOrb converts a GeoJSON position (lon, lat) into a GeoPoint.
func GeoPointFromOrb(point orb.Point) (GeoPoint, error) {
	return NewGeoPoint(point.Lon(), point.Lat())
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Orb returns the point in GeoJSON axis order.
func (p GeoPoint) Orb() orb.Point {
	return orb.Point{p.longitude, p.latitude}
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%g,%g)", p.longitude, p.latitude)
}

func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return p.longitude == other.longitude && p.latitude == other.latitude, nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if err := validateCoordinate("longitude", longitude, MinLongitude, MaxLongitude); err != nil {
		return err
	}
	p.longitude = longitude
	return nil
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if err := validateCoordinate("latitude", latitude, MinLatitude, MaxLatitude); err != nil {
		return err
	}
	p.latitude = latitude
	return nil
}

// ValidateOrbPoint checks a raw GeoJSON position without building a GeoPoint.
func ValidateOrbPoint(point orb.Point) error {
	return errors.Join(
		validateCoordinate("longitude", point.Lon(), MinLongitude, MaxLongitude),
		validateCoordinate("latitude", point.Lat(), MinLatitude, MaxLatitude),
	)
}

func validateCoordinate(name string, value, minValue, maxValue float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v is not a finite number", value))
	}
	if value < minValue || value > maxValue {
		return errs.NewValueIsOutOfRangeError(name, value, minValue, maxValue)
	}
	return nil
}
