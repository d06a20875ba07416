package zone

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const (
	maxCodeLength     = 32
	maxNameLength     = 128
	maxLandmarkLength = 128
)

// Domain errors for zone operations.
var (
	// ErrZoneIsNotConstructed is returned when using an improperly initialized Zone.
	ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone constructor")
	// ErrCodeIsRequired is returned when a zone has a blank code.
	ErrCodeIsRequired = errs.NewValueIsRequiredError("code")
	// ErrNameIsRequired is returned when a zone has a blank name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// Attributes are the admin-editable properties of a zone. They are used both
// to create a zone and to replace its properties on update.
type Attributes struct {
	Code                     string
	Name                     string
	Geometry                 Geometry
	DeliveryFee              kernel.Money
	EstimatedDeliveryMinutes int
	Priority                 int
	Status                   Status
	Landmarks                []string
}

// Zone is the aggregate root for a delivery zone.
//
// Key responsibilities:
//   - Holding the validated area of the zone and answering containment queries
//   - Carrying the delivery fee and ETA that orders copy at placement
//   - Ordering overlapping zones through priority
//
// Business rules:
//   - Code and name are non-blank; code is stored upper-case
//   - Geometry is a valid Polygon or MultiPolygon
//   - Delivery fee is non-negative, ETA is positive
//   - Landmarks are trimmed, non-blank and unique ignoring case
//   - Only ACTIVE zones take orders
//
// Example usage:
//
//	geometry, _ := zone.GeometryFromGeoJSON(raw)
//	fee, _ := kernel.MoneyFromString("150")
//	z, err := zone.NewZone(kernel.NewUUID(), zone.Attributes{
//	    Code:                     "NBO-WL",
//	    Name:                     "Westlands",
//	    Geometry:                 geometry,
//	    DeliveryFee:              fee,
//	    EstimatedDeliveryMinutes: 30,
//	    Priority:                 10,
//	    Status:                   zone.StatusActive,
//	    Landmarks:                []string{"Sarit Centre", "The Mall"},
//	}, time.Now())
type Zone struct {
	id                       kernel.UUID
	code                     string
	name                     string
	geometry                 Geometry
	deliveryFee              kernel.Money
	estimatedDeliveryMinutes int
	priority                 int
	status                   Status
	landmarks                []string
	createdAt                time.Time
	updatedAt                time.Time
	guard                    guard.ConstructorGuard
}

// NewZone creates a zone from admin input. Every invalid attribute is reported
// in the joined error.
func NewZone(id kernel.UUID, attrs Attributes, now time.Time) (*Zone, error) {
	return RestoreZone(id, attrs, now, now)
}

// RestoreZone rebuilds a zone loaded from storage.
func RestoreZone(id kernel.UUID, attrs Attributes, createdAt, updatedAt time.Time) (*Zone, error) {
	z := &Zone{
		createdAt: createdAt.UTC(),
		updatedAt: updatedAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(z.setID(id), z.apply(attrs)); err != nil {
		return nil, err
	}

	return z, nil
}

// Update replaces every editable attribute. On error the zone is unchanged.
func (z *Zone) Update(attrs Attributes, now time.Time) error {
	if err := z.Validate(); err != nil {
		return err
	}

	candidate := *z
	if err := candidate.apply(attrs); err != nil {
		return err
	}
	candidate.updatedAt = now.UTC()

	*z = candidate
	return nil
}

func (z *Zone) Validate() error {
	if z == nil {
		return ErrZoneIsNotConstructed
	}
	return z.guard.Validate(ErrZoneIsNotConstructed)
}

func (z *Zone) IsEqual(other *Zone) bool {
	return other != nil && z.id.IsEqual(other.id)
}

func (z *Zone) ID() kernel.UUID {
	return z.id
}

func (z *Zone) Code() string {
	return z.code
}

func (z *Zone) Name() string {
	return z.name
}

func (z *Zone) Geometry() Geometry {
	return z.geometry
}

func (z *Zone) DeliveryFee() kernel.Money {
	return z.deliveryFee
}

func (z *Zone) EstimatedDeliveryMinutes() int {
	return z.estimatedDeliveryMinutes
}

func (z *Zone) Priority() int {
	return z.priority
}

func (z *Zone) Status() Status {
	return z.status
}

func (z *Zone) IsActive() bool {
	return z.status == StatusActive
}

// Landmarks returns a copy of the zone's landmark labels.
func (z *Zone) Landmarks() []string {
	out := make([]string, len(z.landmarks))
	copy(out, z.landmarks)
	return out
}

func (z *Zone) CreatedAt() time.Time {
	return z.createdAt
}

func (z *Zone) UpdatedAt() time.Time {
	return z.updatedAt
}

// Attributes returns the current editable attributes, ready to be modified and
// passed back to Update.
func (z *Zone) Attributes() Attributes {
	return Attributes{
		Code:                     z.code,
		Name:                     z.name,
		Geometry:                 z.geometry,
		DeliveryFee:              z.deliveryFee,
		EstimatedDeliveryMinutes: z.estimatedDeliveryMinutes,
		Priority:                 z.priority,
		Status:                   z.status,
		Landmarks:                z.Landmarks(),
	}
}

// Contains reports whether point lies within the zone's geometry. It does not
// look at the zone status.
func (z *Zone) Contains(point kernel.GeoPoint) bool {
	if z.Validate() != nil || point.Validate() != nil {
		return false
	}
	return z.geometry.Contains(point)
}

func (z *Zone) apply(attrs Attributes) error {
	return errors.Join(
		z.setCode(attrs.Code),
		z.setName(attrs.Name),
		z.setGeometry(attrs.Geometry),
		z.setDeliveryFee(attrs.DeliveryFee),
		z.setEstimatedDeliveryMinutes(attrs.EstimatedDeliveryMinutes),
		z.setStatus(attrs.Status),
		z.setLandmarks(attrs.Landmarks),
		z.setPriority(attrs.Priority),
	)
}

func (z *Zone) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	z.id = id
	return nil
}

func (z *Zone) setCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ErrCodeIsRequired
	}
	if utf8.RuneCountInString(code) > maxCodeLength {
		return errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("longer than %d characters", maxCodeLength))
	}
	z.code = code
	return nil
}

func (z *Zone) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return errs.NewValueIsInvalidErrorWithCause("name", fmt.Errorf("longer than %d characters", maxNameLength))
	}
	z.name = name
	return nil
}

func (z *Zone) setGeometry(geometry Geometry) error {
	if err := geometry.Validate(); err != nil {
		return err
	}
	z.geometry = geometry
	return nil
}

func (z *Zone) setDeliveryFee(fee kernel.Money) error {
	if err := fee.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("delivery fee", err)
	}
	z.deliveryFee = fee
	return nil
}

func (z *Zone) setEstimatedDeliveryMinutes(minutes int) error {
	if minutes <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"estimated delivery minutes",
			fmt.Errorf("%d is not greater than 0", minutes),
		)
	}
	z.estimatedDeliveryMinutes = minutes
	return nil
}

func (z *Zone) setPriority(priority int) error {
	z.priority = priority
	return nil
}

func (z *Zone) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	z.status = status
	return nil
}

func (z *Zone) setLandmarks(landmarks []string) error {
	out := make([]string, 0, len(landmarks))
	seen := make(map[string]struct{}, len(landmarks))
	for idx, landmark := range landmarks {
		landmark = strings.TrimSpace(landmark)
		if landmark == "" {
			return errs.NewValueIsRequiredError(fmt.Sprintf("landmark %d", idx))
		}
		if utf8.RuneCountInString(landmark) > maxLandmarkLength {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("landmark %d", idx),
				fmt.Errorf("longer than %d characters", maxLandmarkLength),
			)
		}
		key := strings.ToLower(landmark)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, landmark)
	}
	z.landmarks = out
	return nil
}
