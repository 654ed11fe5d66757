package commands_test

import (
	"errors"
	"testing"
	"time"

	"allocator/internal/core/application/usecases/commands"
	"allocator/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewPurgeAllocationsCommand(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cmd, err := commands.NewPurgeAllocationsCommand(cutoff)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, cutoff, cmd.Cutoff())

	_, err = commands.NewPurgeAllocationsCommand(time.Time{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	require.ErrorIs(t, commands.PurgeAllocationsCommand{}.Validate(), commands.ErrPurgeAllocationsCommandIsNotConstructed)
}

func TestPurgeAllocationsCommandHandler_Handle(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("deletes records before the cutoff", func(t *testing.T) {
		ctx := t.Context()
		cmd, _ := commands.NewPurgeAllocationsCommand(cutoff)

		repo := new(MockAllocationRepository)
		uow := new(MockAllocationUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("AllocationRepository").Return(repo).Once(),
			repo.On("DeleteCreatedBefore", ctx, cutoff).Return(int64(3), nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockAllocationUoWFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewPurgeAllocationsCommandHandler(factory)
		removed, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, int64(3), removed)
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("repository errors are returned", func(t *testing.T) {
		ctx := t.Context()
		cmd, _ := commands.NewPurgeAllocationsCommand(cutoff)

		repo := new(MockAllocationRepository)
		uow := new(MockAllocationUoW)
		uow.On("Begin", ctx).Return(nil)
		uow.On("AllocationRepository").Return(repo)
		repo.On("DeleteCreatedBefore", ctx, cutoff).Return(int64(0), errors.New("delete error"))
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockAllocationUoWFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewPurgeAllocationsCommandHandler(factory)
		_, err := h.Handle(ctx, cmd)

		require.EqualError(t, err, "delete error")
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("unconstructed command is rejected", func(t *testing.T) {
		factory := new(MockAllocationUoWFactory)
		h := commands.NewPurgeAllocationsCommandHandler(factory)

		_, err := h.Handle(t.Context(), commands.PurgeAllocationsCommand{})

		require.ErrorIs(t, err, commands.ErrPurgeAllocationsCommandIsNotConstructed)
	})
}
