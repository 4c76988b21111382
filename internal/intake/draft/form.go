// Package draft models the request intake form: a single in-progress
// procurement request that is edited field by field, optionally pre-filled
// from an uploaded document and finally submitted to the backend.
package draft

import (
	"context"
	"fmt"
	"io"
	"sync"

	"procurement/internal/app/dto"
	"procurement/internal/intake/notice"

	"github.com/sirupsen/logrus"
)

const (
	msgSubmitted     = "Request submitted successfully!"
	msgSubmitFailed  = "Failed to submit request."
	msgExtracted     = "Data extracted successfully!"
	msgExtractFailed = "Failed to extract data from PDF."
)

// API is the part of the backend client the form talks to.
type API interface {
	Extract(ctx context.Context, filename string, r io.Reader) (dto.ProcurementRequest, error)
	CreateRequest(ctx context.Context, req dto.ProcurementRequest) (dto.RequestResponse, error)
}

// Form holds the current draft. Every edit swaps in a fresh value, so
// snapshots returned by Draft stay unchanged.
type Form struct {
	api     API
	notices *notice.Center

	mu         sync.Mutex
	draft      dto.ProcurementRequest
	extracting bool
	submitting bool
}

func NewForm(api API, notices *notice.Center) *Form {
	if notices == nil {
		notices = notice.NewCenter(notice.DefaultTTL)
	}
	return &Form{
		api:     api,
		notices: notices,
		draft:   Empty(),
	}
}

// Notices exposes the form's notice center.
func (f *Form) Notices() *notice.Center { return f.notices }

func (f *Form) Draft() dto.ProcurementRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Clone(f.draft)
}

func (f *Form) UpdateField(field Field, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := WithField(f.draft, field, value)
	if err != nil {
		return err
	}
	f.draft = next
	return nil
}

func (f *Form) UpdateLine(index int, field LineField, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := WithLine(f.draft, index, field, value)
	if err != nil {
		return err
	}
	f.draft = next
	return nil
}

// AddLine appends an empty order line and returns its index.
func (f *Form) AddLine() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.draft = WithLineAdded(f.draft)
	return len(f.draft.OrderLines) - 1
}

func (f *Form) RemoveLine(index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := WithLineRemoved(f.draft, index)
	if err != nil {
		return err
	}
	f.draft = next
	return nil
}

// Extracting reports whether a document upload is in flight.
func (f *Form) Extracting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.extracting
}

// Submitting reports whether a submit is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func (f *Form) setBusy(flag *bool, v bool) {
	f.mu.Lock()
	*flag = v
	f.mu.Unlock()
}

func (f *Form) Reset() {
	f.mu.Lock()
	f.draft = Empty()
	f.mu.Unlock()
}

// LineTotal reports unit_price*amount for the line at index.
func (f *Form) LineTotal(index int) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index < 0 || index >= len(f.draft.OrderLines) {
		return 0, fmt.Errorf("%w: %d", ErrLineIndex, index)
	}
	return LineTotal(f.draft.OrderLines[index]), nil
}

// SumLines reports the sum of unit_price*amount over all lines. total_cost
// is not touched.
func (f *Form) SumLines() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	var sum float64
	for _, line := range f.draft.OrderLines {
		sum += LineTotal(line)
	}
	return sum
}

// LoadFromDocument sends the document to the extraction endpoint and
// replaces the whole draft with the result. On failure the draft is kept.
func (f *Form) LoadFromDocument(ctx context.Context, filename string, r io.Reader) (dto.ProcurementRequest, error) {
	f.setBusy(&f.extracting, true)
	defer f.setBusy(&f.extracting, false)
	f.notices.Clear()

	extracted, err := f.api.Extract(ctx, filename, r)
	if err != nil {
		logrus.WithError(err).WithField("file", filename).Error("document extraction failed")
		f.notices.Error(msgExtractFailed)
		return dto.ProcurementRequest{}, fmt.Errorf("extract %s: %w", filename, err)
	}

	if extracted.OrderLines == nil {
		extracted.OrderLines = []dto.OrderLine{}
	}

	f.mu.Lock()
	f.draft = Clone(extracted)
	f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"file":  filename,
		"lines": len(extracted.OrderLines),
	}).Info("draft loaded from document")
	f.notices.Success(msgExtracted)

	return Clone(extracted), nil
}

// Submit posts the current draft. A successful submit empties the form; a
// failed one leaves it as it was so the operator can retry.
func (f *Form) Submit(ctx context.Context) (dto.RequestResponse, error) {
	f.setBusy(&f.submitting, true)
	defer f.setBusy(&f.submitting, false)
	f.notices.Clear()

	payload := f.Draft()

	created, err := f.api.CreateRequest(ctx, payload)
	if err != nil {
		logrus.WithError(err).Error("submit request failed")
		f.notices.Error(msgSubmitFailed)
		return dto.RequestResponse{}, fmt.Errorf("submit request: %w", err)
	}

	f.Reset()
	logrus.Infof("request %d submitted", created.ID)
	f.notices.Success(msgSubmitted)

	return created, nil
}
