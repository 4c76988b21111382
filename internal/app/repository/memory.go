package repository

import (
	"context"
	"sync"
	"time"

	"procurement/internal/app/ds"
)

// MemoryRepository хранит заявки в памяти процесса: локальный запуск без Postgres и тесты
type MemoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	nextLine int64
	rows     []ds.ProcurementRequest
	now      func() time.Time
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (m *MemoryRepository) CreateRequest(_ context.Context, req *ds.ProcurementRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	req.ID = m.nextID
	if req.Status == "" {
		req.Status = "Open"
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = m.now().UTC()
	}
	for i := range req.OrderLines {
		m.nextLine++
		req.OrderLines[i].ID = m.nextLine
		req.OrderLines[i].RequestID = req.ID
		req.OrderLines[i].Position = i
	}

	m.rows = append(m.rows, cloneRequest(*req))
	return nil
}

func (m *MemoryRepository) ListRequests(_ context.Context, skip, limit int) ([]ds.ProcurementRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if skip < 0 {
		skip = 0
	}
	if skip > len(m.rows) {
		skip = len(m.rows)
	}
	end := len(m.rows)
	if limit >= 0 && skip+limit < end {
		end = skip + limit
	}

	out := make([]ds.ProcurementRequest, 0, end-skip)
	for _, row := range m.rows[skip:end] {
		out = append(out, cloneRequest(row))
	}
	return out, nil
}

func (m *MemoryRepository) GetRequest(_ context.Context, id int64) (*ds.ProcurementRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.rows {
		if row.ID == id {
			req := cloneRequest(row)
			return &req, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) UpdateStatus(_ context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryRepository) CountRequests(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func cloneRequest(req ds.ProcurementRequest) ds.ProcurementRequest {
	lines := make([]ds.OrderLine, len(req.OrderLines))
	copy(lines, req.OrderLines)
	req.OrderLines = lines
	return req
}
