package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"procurement/internal/app/dto"
	"procurement/internal/intake/notice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	lists     [][]dto.RequestResponse
	listErr   error
	listCalls int

	updateErr error
	release   chan struct{}
	entered   chan struct{}
	updates   []dto.Status
}

func (f *fakeAPI) ListRequests(context.Context) ([]dto.RequestResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.lists) == 0 {
		return nil, nil
	}
	next := f.lists[0]
	if len(f.lists) > 1 {
		f.lists = f.lists[1:]
	}
	return next, nil
}

func (f *fakeAPI) UpdateStatus(_ context.Context, _ int64, status dto.Status) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, status)
	return f.updateErr
}

func row(id int64, status dto.Status) dto.RequestResponse {
	return dto.RequestResponse{ID: id, Status: status}
}

func newTestBoard(api API) *Board {
	return New(api, notice.NewCenter(time.Hour))
}

func statusOf(t *testing.T, b *Board, id int64) dto.Status {
	t.Helper()
	r, ok := b.Request(id)
	require.True(t, ok, "request %d not on the board", id)
	return r.Status
}

func TestFetchAllReplacesList(t *testing.T) {
	api := &fakeAPI{lists: [][]dto.RequestResponse{
		{row(1, dto.StatusOpen), row(2, dto.StatusOpen)},
		{row(3, dto.StatusClosed)},
	}}
	b := newTestBoard(api)
	assert.True(t, b.Loading())

	require.NoError(t, b.FetchAll(context.Background()))
	assert.False(t, b.Loading())
	assert.Len(t, b.Requests(), 2)

	require.NoError(t, b.FetchAll(context.Background()))
	assert.Equal(t, []dto.RequestResponse{row(3, dto.StatusClosed)}, b.Requests())
}

func TestFetchAllNullBecomesEmpty(t *testing.T) {
	b := newTestBoard(&fakeAPI{})

	require.NoError(t, b.FetchAll(context.Background()))
	assert.NotNil(t, b.Requests())
	assert.Empty(t, b.Requests())
}

func TestFetchAllFailureLeavesListEmpty(t *testing.T) {
	b := newTestBoard(&fakeAPI{listErr: errors.New("connection refused")})

	err := b.FetchAll(context.Background())
	require.Error(t, err)

	assert.Empty(t, b.Requests())
	assert.False(t, b.Loading())
	n, ok := b.Notices().Current()
	require.True(t, ok)
	assert.Equal(t, notice.Notice{Kind: notice.KindError, Text: msgLoadFailed}, n)
}

func TestSetStatusIsOptimistic(t *testing.T) {
	api := &fakeAPI{
		lists:   [][]dto.RequestResponse{{row(5, dto.StatusOpen), row(6, dto.StatusOpen)}},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	b := newTestBoard(api)
	require.NoError(t, b.FetchAll(context.Background()))

	done := make(chan error, 1)
	go func() { done <- b.SetStatus(context.Background(), 5, dto.StatusClosed) }()

	<-api.entered
	// PUT has not returned yet
	assert.Equal(t, dto.StatusClosed, statusOf(t, b, 5))
	assert.Equal(t, dto.StatusOpen, statusOf(t, b, 6))
	assert.Equal(t, PhaseOptimisticApplied, b.Phase(5))

	close(api.release)
	require.NoError(t, <-done)

	assert.Equal(t, PhaseConfirmed, b.Phase(5))
	assert.Equal(t, dto.StatusClosed, statusOf(t, b, 5))
	n, ok := b.Notices().Current()
	require.True(t, ok)
	assert.Equal(t, notice.Notice{Kind: notice.KindSuccess, Text: msgStatusUpdated}, n)
}

func TestSetStatusFailureRefetches(t *testing.T) {
	api := &fakeAPI{
		lists: [][]dto.RequestResponse{
			{row(5, dto.StatusOpen)},
			{row(5, dto.StatusOpen)},
		},
		updateErr: errors.New("500"),
	}
	b := newTestBoard(api)
	require.NoError(t, b.FetchAll(context.Background()))

	err := b.SetStatus(context.Background(), 5, dto.StatusClosed)
	require.Error(t, err)

	assert.Equal(t, dto.StatusOpen, statusOf(t, b, 5))
	assert.Equal(t, 2, api.listCalls)
	assert.Equal(t, PhaseIdle, b.Phase(5))

	n, ok := b.Notices().Current()
	require.True(t, ok)
	assert.Equal(t, notice.Notice{Kind: notice.KindError, Text: msgStatusFailed}, n)
}

func TestSetStatusRevertingWhileRefetching(t *testing.T) {
	api := &blockingListAPI{
		fakeAPI: fakeAPI{
			lists:     [][]dto.RequestResponse{{row(5, dto.StatusOpen)}},
			updateErr: errors.New("500"),
		},
	}
	b := newTestBoard(api)
	require.NoError(t, b.FetchAll(context.Background()))

	api.block = make(chan struct{})
	api.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- b.SetStatus(context.Background(), 5, dto.StatusRejected) }()

	<-api.entered
	assert.Equal(t, PhaseReverting, b.Phase(5))
	// optimistic value stays visible until the refetch lands
	assert.Equal(t, dto.StatusRejected, statusOf(t, b, 5))

	close(api.block)
	require.Error(t, <-done)
	assert.Equal(t, PhaseIdle, b.Phase(5))
	assert.Equal(t, dto.StatusOpen, statusOf(t, b, 5))
}

// blockingListAPI holds the refetch until released.
type blockingListAPI struct {
	fakeAPI
	block   chan struct{}
	entered chan struct{}
}

func (a *blockingListAPI) ListRequests(ctx context.Context) ([]dto.RequestResponse, error) {
	if a.block != nil {
		a.entered <- struct{}{}
		<-a.block
	}
	return a.fakeAPI.ListRequests(ctx)
}

func TestSetStatusUnknownIDStillSent(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBoard(api)

	require.NoError(t, b.SetStatus(context.Background(), 42, dto.StatusInProgress))
	assert.Equal(t, []dto.Status{dto.StatusInProgress}, api.updates)
	assert.Empty(t, b.Requests())
}

func TestPhaseDefaultsToIdle(t *testing.T) {
	b := newTestBoard(&fakeAPI{})
	assert.Equal(t, PhaseIdle, b.Phase(1))
}

func TestToggleKeepsOneExpanded(t *testing.T) {
	b := newTestBoard(&fakeAPI{})

	_, ok := b.Expanded()
	assert.False(t, ok)

	b.Toggle(1)
	id, ok := b.Expanded()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	b.Toggle(2)
	id, ok = b.Expanded()
	require.True(t, ok)
	assert.Equal(t, int64(2), id)

	b.Toggle(2)
	_, ok = b.Expanded()
	assert.False(t, ok)
}

func TestRequestsReturnsCopy(t *testing.T) {
	api := &fakeAPI{lists: [][]dto.RequestResponse{{row(1, dto.StatusOpen)}}}
	b := newTestBoard(api)
	require.NoError(t, b.FetchAll(context.Background()))

	list := b.Requests()
	list[0].Status = dto.StatusRejected

	assert.Equal(t, dto.StatusOpen, statusOf(t, b, 1))
}

// snapshotAPI hands out the same slice on every call, like a memoizing client.
type snapshotAPI struct {
	snapshot []dto.RequestResponse
}

func (a *snapshotAPI) ListRequests(context.Context) ([]dto.RequestResponse, error) {
	return a.snapshot, nil
}

func (a *snapshotAPI) UpdateStatus(context.Context, int64, dto.Status) error {
	return errors.New("500")
}

func TestSetStatusDoesNotWriteIntoFetchedSlice(t *testing.T) {
	api := &snapshotAPI{snapshot: []dto.RequestResponse{row(5, dto.StatusOpen)}}
	b := newTestBoard(api)
	require.NoError(t, b.FetchAll(context.Background()))

	require.Error(t, b.SetStatus(context.Background(), 5, dto.StatusClosed))

	assert.Equal(t, dto.StatusOpen, api.snapshot[0].Status)
	assert.Equal(t, dto.StatusOpen, statusOf(t, b, 5))
	assert.Equal(t, PhaseIdle, b.Phase(5))
}
