// Package board models the review dashboard: the list of persisted requests
// and optimistic status changes that fall back to a full refetch when the
// backend rejects them.
package board

import (
	"context"
	"fmt"
	"sync"

	"procurement/internal/app/dto"
	"procurement/internal/intake/notice"

	"github.com/sirupsen/logrus"
)

const (
	msgLoadFailed    = "Failed to load requests."
	msgStatusUpdated = "Status updated"
	msgStatusFailed  = "Failed to update status"
)

// API is the part of the backend client the board talks to.
type API interface {
	ListRequests(ctx context.Context) ([]dto.RequestResponse, error)
	UpdateStatus(ctx context.Context, id int64, status dto.Status) error
}

// Phase is the progress of the latest status change for one request.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseOptimisticApplied Phase = "optimistic_applied"
	PhaseConfirmed         Phase = "confirmed"
	PhaseReverting         Phase = "reverting"
)

// Board is safe for concurrent use. The lock is never held across a call to
// the backend, so overlapping changes race and the last response wins.
type Board struct {
	api     API
	notices *notice.Center

	mu       sync.Mutex
	requests []dto.RequestResponse
	loading  bool
	expanded *int64
	phases   map[int64]Phase
}

func New(api API, notices *notice.Center) *Board {
	if notices == nil {
		notices = notice.NewCenter(notice.DefaultTTL)
	}
	return &Board{
		api:      api,
		notices:  notices,
		requests: []dto.RequestResponse{},
		loading:  true,
		phases:   make(map[int64]Phase),
	}
}

func (b *Board) Notices() *notice.Center { return b.notices }

// Requests returns a copy of the current list.
func (b *Board) Requests() []dto.RequestResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]dto.RequestResponse, len(b.requests))
	copy(out, b.requests)
	return out
}

// Request returns the row with the given id.
func (b *Board) Request(id int64) (dto.RequestResponse, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range b.requests {
		if r.ID == id {
			return r, true
		}
	}
	return dto.RequestResponse{}, false
}

// Loading is true until the first fetch has resolved either way.
func (b *Board) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// FetchAll replaces the whole list with what the backend returns. A failed
// fetch leaves the list as it was, which is empty before the first success.
func (b *Board) FetchAll(ctx context.Context) error {
	list, err := b.api.ListRequests(ctx)

	b.mu.Lock()
	b.loading = false
	if err == nil {
		// the caller may keep list; optimistic writes must not reach it
		b.requests = append([]dto.RequestResponse{}, list...)
	}
	b.mu.Unlock()

	if err != nil {
		logrus.WithError(err).Error("load requests failed")
		b.notices.Error(msgLoadFailed)
		return fmt.Errorf("fetch requests: %w", err)
	}

	logrus.Debugf("loaded %d requests", len(list))
	return nil
}

// SetStatus shows the new status immediately and then sends it. When the
// backend refuses, the local value is not rolled back by hand; the list is
// refetched instead.
func (b *Board) SetStatus(ctx context.Context, id int64, status dto.Status) error {
	b.mu.Lock()
	for i := range b.requests {
		if b.requests[i].ID == id {
			b.requests[i].Status = status
		}
	}
	b.phases[id] = PhaseOptimisticApplied
	b.mu.Unlock()

	err := b.api.UpdateStatus(ctx, id, status)
	if err == nil {
		b.setPhase(id, PhaseConfirmed)
		b.notices.Success(msgStatusUpdated)
		logrus.Infof("request %d status set to %q", id, status)
		return nil
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"id":     id,
		"status": status,
	}).Error("update status failed")
	b.notices.Error(msgStatusFailed)

	b.setPhase(id, PhaseReverting)
	// a failed refetch has already shown its own notice
	_ = b.FetchAll(ctx)
	b.setPhase(id, PhaseIdle)

	return fmt.Errorf("update status of request %d: %w", id, err)
}

// Phase reports where the latest status change for id stands.
func (b *Board) Phase(id int64) Phase {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.phases[id]; ok {
		return p
	}
	return PhaseIdle
}

func (b *Board) setPhase(id int64, p Phase) {
	b.mu.Lock()
	b.phases[id] = p
	b.mu.Unlock()
}

// Toggle expands the row with id, collapsing any other; toggling the
// expanded row collapses it.
func (b *Board) Toggle(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.expanded != nil && *b.expanded == id {
		b.expanded = nil
		return
	}
	b.expanded = &id
}

// Expanded returns the id of the expanded row, if any.
func (b *Board) Expanded() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.expanded == nil {
		return 0, false
	}
	return *b.expanded, true
}
