package commands_test

import (
	"errors"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChangeOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	merchantID := kernel.NewUUID()
	current := pendingOrder(t, merchantID)
	cmd, err := commands.NewChangeMerchantOrderStatusCommand(merchantID, current.ID(),
		newActor(t, kernel.RoleMerchant, merchantID), order.AcceptedByMerchant)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, current.ID()).Return(current, nil).Once(),
		repo.On("UpdateStatus", ctx, current, mock.MatchedBy(func(c order.StatusChange) bool {
			return c.From == order.Pending && c.To == order.AcceptedByMerchant && c.OrderID.IsEqual(current.ID())
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewChangeOrderStatusCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.AcceptedByMerchant, current.Status())
	assert.Equal(t, 2, current.Version())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_DomainErrorsSkipWrite(t *testing.T) {
	merchantID := kernel.NewUUID()
	tests := []struct {
		name     string
		actor    kernel.Actor
		route    *kernel.UUID
		target   order.Status
		expected error
	}{
		{
			name:     "transition not in table",
			actor:    newActor(t, kernel.RoleMerchant, merchantID),
			target:   order.Completed,
			expected: errs.ErrTransitionIsInvalid,
		},
		{
			name:     "another merchant",
			actor:    newActor(t, kernel.RoleMerchant, kernel.NewUUID()),
			target:   order.AcceptedByMerchant,
			expected: errs.ErrActorIsUnauthorized,
		},
		{
			name:     "driver on merchant edge",
			actor:    newActor(t, kernel.RoleDriver, kernel.NewUUID()),
			target:   order.AcceptedByMerchant,
			expected: errs.ErrActorIsUnauthorized,
		},
		{
			name:     "route names another merchant",
			actor:    newActor(t, kernel.RoleAdmin, kernel.NewUUID()),
			route:    func() *kernel.UUID { id := kernel.NewUUID(); return &id }(),
			target:   order.AcceptedByMerchant,
			expected: errs.ErrActorIsUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			current := pendingOrder(t, merchantID)

			var cmd commands.ChangeOrderStatusCommand
			var err error
			if tt.route != nil {
				cmd, err = commands.NewChangeMerchantOrderStatusCommand(*tt.route, current.ID(), tt.actor, tt.target)
			} else {
				cmd, err = commands.NewChangeOrderStatusCommand(current.ID(), tt.actor, tt.target)
			}
			require.NoError(t, err)

			repo := new(MockOrderRepository)
			repo.On("Get", ctx, current.ID()).Return(current, nil).Once()
			uow := new(MockOrderUoW)
			uow.On("Begin", ctx).Return(nil).Once()
			uow.On("OrderRepository").Return(repo).Once()
			uow.On("Rollback", ctx).Return(nil).Once()
			factory := new(MockOrderUoWFactory)
			factory.On("Create").Return(uow).Once()

			err = commands.NewChangeOrderStatusCommandHandler(factory).Handle(ctx, cmd)

			require.ErrorIs(t, err, tt.expected)
			assert.Equal(t, order.Pending, current.Status())
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", ctx)
		})
	}
}

func TestChangeOrderStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewChangeOrderStatusCommand(orderID, newActor(t, kernel.RoleAdmin, kernel.NewUUID()), order.Completed)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("order", orderID.String())).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewChangeOrderStatusCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestChangeOrderStatusCommandHandler_Handle_ConflictingWrite(t *testing.T) {
	ctx := t.Context()
	merchantID := kernel.NewUUID()
	current := pendingOrder(t, merchantID)
	cmd, err := commands.NewChangeOrderStatusCommand(current.ID(), newActor(t, kernel.RoleMerchant, merchantID), order.RejectedByMerchant)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, current.ID()).Return(current, nil).Once()
	repo.On("UpdateStatus", ctx, current, mock.AnythingOfType("order.StatusChange")).
		Return(errs.NewVersionIsInvalidError("order status")).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewChangeOrderStatusCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestChangeOrderStatusCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	merchantID := kernel.NewUUID()
	current := pendingOrder(t, merchantID)
	cmd, err := commands.NewChangeOrderStatusCommand(current.ID(), newActor(t, kernel.RoleMerchant, merchantID), order.AcceptedByMerchant)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, current.ID()).Return(current, nil).Once()
	repo.On("UpdateStatus", ctx, current, mock.Anything).Return(nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(errors.New("commit error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	err = commands.NewChangeOrderStatusCommandHandler(factory).Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
}

func TestChangeOrderStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	err := commands.NewChangeOrderStatusCommandHandler(new(MockOrderUoWFactory)).
		Handle(t.Context(), commands.ChangeOrderStatusCommand{})

	require.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
}
