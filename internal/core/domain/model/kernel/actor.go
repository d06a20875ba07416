package kernel

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Role is the closed set of marketplace participants.
type Role int

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleMerchant
	RoleDriver
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleUnknown:  "unknown",
	RoleCustomer: "customer",
	RoleMerchant: "merchant",
	RoleDriver:   "driver",
	RoleAdmin:    "admin",
}

// ParseRole maps the lower-case wire name to a Role.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for role, roleName := range roleNames {
		if role != RoleUnknown && roleName == name {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[RoleUnknown]
}

func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok || r == RoleUnknown {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// ErrActorIsNotConstructed is returned when a zero-value Actor is used.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor")

// Actor is the authenticated party behind a request: a role plus the identity
// of the merchant, driver, customer or admin acting.
type Actor struct {
	role  Role
	id    UUID
	guard guard.ConstructorGuard
}

func NewActor(role Role, id UUID) (Actor, error) {
	if err := errors.Join(role.Validate(), id.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{role: role, id: id, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a Actor) String() string {
	return fmt.Sprintf("%s %s", a.role, a.id)
}
