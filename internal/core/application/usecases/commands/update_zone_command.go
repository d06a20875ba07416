package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateZoneCommandIsNotConstructed = errors.New(
	"UpdateZoneCommand must be created via NewUpdateZoneCommand constructor",
)

// UpdateZoneCommand replaces every editable attribute of a zone.
type UpdateZoneCommand struct { //nolint:recvcheck //using for validation
	zoneID     kernel.UUID
	actor      kernel.Actor
	attributes zone.Attributes

	guard guard.ConstructorGuard
}

func NewUpdateZoneCommand(zoneID kernel.UUID, actor kernel.Actor, attributes zone.Attributes) (UpdateZoneCommand, error) {
	if err := errors.Join(zoneID.Validate(), actor.Validate()); err != nil {
		return UpdateZoneCommand{}, err
	}

	return UpdateZoneCommand{
		zoneID:     zoneID,
		actor:      actor,
		attributes: attributes,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateZoneCommand) Validate() error {
	return c.guard.Validate(ErrUpdateZoneCommandIsNotConstructed)
}

func (c UpdateZoneCommand) ZoneID() kernel.UUID {
	return c.zoneID
}

func (c UpdateZoneCommand) Actor() kernel.Actor {
	return c.actor
}

func (c UpdateZoneCommand) Attributes() zone.Attributes {
	return c.attributes
}
