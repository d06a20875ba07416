package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeOrderStatusCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	driver := newActor(t, kernel.RoleDriver, kernel.NewUUID())

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, driver, order.OnTheWay)

	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, driver, cmd.Actor())
	assert.Equal(t, order.OnTheWay, cmd.Target())
	assert.Nil(t, cmd.MerchantID())
}

func TestNewChangeMerchantOrderStatusCommand_CarriesMerchantScope(t *testing.T) {
	merchantID := kernel.NewUUID()

	cmd, err := commands.NewChangeMerchantOrderStatusCommand(merchantID, kernel.NewUUID(),
		newActor(t, kernel.RoleMerchant, merchantID), order.AcceptedByMerchant)

	require.NoError(t, err)
	require.NotNil(t, cmd.MerchantID())
	assert.True(t, cmd.MerchantID().IsEqual(merchantID))
}

func TestNewChangeOrderStatusCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewChangeMerchantOrderStatusCommand(kernel.UUID{}, kernel.UUID{}, kernel.Actor{}, order.Unknown)

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.ErrorIs(t, err, kernel.ErrActorIsNotConstructed)
	assert.Contains(t, err.Error(), "merchant id")
	assert.Contains(t, err.Error(), "status")
}
