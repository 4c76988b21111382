package repository

import (
	"context"
	"testing"
	"time"

	"procurement/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	repo.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	req := &ds.ProcurementRequest{
		Title:      "Desks",
		OrderLines: []ds.OrderLine{{Description: "Desk"}, {Description: "Lamp"}},
	}
	require.NoError(t, repo.CreateRequest(ctx, req))
	assert.Equal(t, int64(1), req.ID)
	assert.Equal(t, "Open", req.Status)
	assert.Equal(t, 1, req.OrderLines[1].Position)

	// изменения вызывающей стороны не попадают в хранилище
	req.OrderLines[0].Description = "mutated"

	got, err := repo.GetRequest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Desk", got.OrderLines[0].Description)
	assert.Equal(t, int64(1), got.OrderLines[0].RequestID)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), got.CreatedAt)

	_, err = repo.GetRequest(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepository_ListWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateRequest(ctx, &ds.ProcurementRequest{Title: title}))
	}

	all, err := repo.ListRequests(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := repo.ListRequests(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].Title)

	empty, err := repo.ListRequests(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	count, err := repo.CountRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMemoryRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	require.NoError(t, repo.CreateRequest(ctx, &ds.ProcurementRequest{Title: "a"}))

	require.NoError(t, repo.UpdateStatus(ctx, 1, "Rejected"))
	got, err := repo.GetRequest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Rejected", got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 9, "Closed"), ErrNotFound)
}
