package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/pkg/guard"
)

var ErrCreateZoneCommandIsNotConstructed = errors.New(
	"CreateZoneCommand must be created via NewCreateZoneCommand constructor",
)

// CreateZoneCommand registers a new delivery zone. Attributes are validated by
// zone.NewZone when the command is handled.
type CreateZoneCommand struct { //nolint:recvcheck //using for validation
	zoneID     kernel.UUID
	actor      kernel.Actor
	attributes zone.Attributes

	guard guard.ConstructorGuard
}

func NewCreateZoneCommand(zoneID kernel.UUID, actor kernel.Actor, attributes zone.Attributes) (CreateZoneCommand, error) {
	if err := errors.Join(zoneID.Validate(), actor.Validate()); err != nil {
		return CreateZoneCommand{}, err
	}

	return CreateZoneCommand{
		zoneID:     zoneID,
		actor:      actor,
		attributes: attributes,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateZoneCommand) Validate() error {
	return c.guard.Validate(ErrCreateZoneCommandIsNotConstructed)
}

func (c CreateZoneCommand) ZoneID() kernel.UUID {
	return c.zoneID
}

func (c CreateZoneCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateZoneCommand) Attributes() zone.Attributes {
	return c.attributes
}
