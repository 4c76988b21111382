package dto

import (
	"errors"
	"fmt"
	"time"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ============ Статусы заявок ============

// Status is the review state of a persisted request.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
	StatusRejected   Status = "Rejected"
)

var ErrInvalidStatus = errors.New("invalid status")

// Statuses lists every status in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed, StatusRejected}

// ParseStatus accepts only the exact status strings.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ============ Заявки (Procurement Requests) ============

type OrderLine struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
	TotalPrice  float64 `json:"total_price"`
}

// ProcurementRequest is the draft shape: what the form edits, what /extract
// returns and what POST /requests/ accepts.
type ProcurementRequest struct {
	RequestorName    string      `json:"requestor_name"`
	Department       string      `json:"department"`
	Title            string      `json:"title"`
	VendorName       string      `json:"vendor_name"`
	VatID            string      `json:"vat_id"`
	CommodityGroupID *string     `json:"commodity_group_id,omitempty"`
	TotalCost        float64     `json:"total_cost"`
	OrderLines       []OrderLine `json:"order_lines"`
}

// RequestResponse is a persisted request as returned by the backend.
type RequestResponse struct {
	ProcurementRequest
	ID        int64     `json:"id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

type StatusUpdateResponse struct {
	Message string `json:"message"`
}
