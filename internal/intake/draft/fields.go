package draft

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"procurement/internal/app/dto"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrLineIndex    = errors.New("order line index out of range")
	ErrValueKind    = errors.New("value cannot be assigned to field")
)

// Field names the editable top-level draft fields by their wire names.
type Field string

const (
	FieldRequestorName    Field = "requestor_name"
	FieldDepartment       Field = "department"
	FieldTitle            Field = "title"
	FieldVendorName       Field = "vendor_name"
	FieldVatID            Field = "vat_id"
	FieldCommodityGroupID Field = "commodity_group_id"
	FieldTotalCost        Field = "total_cost"
)

// LineField names the editable order line fields.
type LineField string

const (
	LineDescription LineField = "description"
	LineUnitPrice   LineField = "unit_price"
	LineAmount      LineField = "amount"
	LineUnit        LineField = "unit"
	LineTotalPrice  LineField = "total_price"
)

// Empty returns a draft with every field at its zero value and no lines.
func Empty() dto.ProcurementRequest {
	return dto.ProcurementRequest{OrderLines: []dto.OrderLine{}}
}

// Clone deep-copies a draft so later edits never reach the source.
func Clone(req dto.ProcurementRequest) dto.ProcurementRequest {
	out := req
	if req.CommodityGroupID != nil {
		id := *req.CommodityGroupID
		out.CommodityGroupID = &id
	}
	out.OrderLines = make([]dto.OrderLine, len(req.OrderLines))
	copy(out.OrderLines, req.OrderLines)
	return out
}

// WithField returns a copy of req with field set to value. Values are not
// validated: negative amounts and empty strings are stored as given.
func WithField(req dto.ProcurementRequest, field Field, value any) (dto.ProcurementRequest, error) {
	out := Clone(req)

	switch field {
	case FieldRequestorName, FieldDepartment, FieldTitle, FieldVendorName, FieldVatID:
		s, err := asString(string(field), value)
		if err != nil {
			return req, err
		}
		switch field {
		case FieldRequestorName:
			out.RequestorName = s
		case FieldDepartment:
			out.Department = s
		case FieldTitle:
			out.Title = s
		case FieldVendorName:
			out.VendorName = s
		case FieldVatID:
			out.VatID = s
		}
	case FieldCommodityGroupID:
		if value == nil {
			out.CommodityGroupID = nil
			break
		}
		s, err := asString(string(field), value)
		if err != nil {
			return req, err
		}
		out.CommodityGroupID = &s
	case FieldTotalCost:
		f, err := asNumber(string(field), value)
		if err != nil {
			return req, err
		}
		out.TotalCost = f
	default:
		return req, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	return out, nil
}

// WithLine returns a copy of req with one field of the line at index set.
func WithLine(req dto.ProcurementRequest, index int, field LineField, value any) (dto.ProcurementRequest, error) {
	if index < 0 || index >= len(req.OrderLines) {
		return req, fmt.Errorf("%w: %d", ErrLineIndex, index)
	}

	line := req.OrderLines[index]
	switch field {
	case LineDescription, LineUnit:
		s, err := asString(string(field), value)
		if err != nil {
			return req, err
		}
		if field == LineDescription {
			line.Description = s
		} else {
			line.Unit = s
		}
	case LineUnitPrice, LineAmount, LineTotalPrice:
		f, err := asNumber(string(field), value)
		if err != nil {
			return req, err
		}
		switch field {
		case LineUnitPrice:
			line.UnitPrice = f
		case LineAmount:
			line.Amount = f
		case LineTotalPrice:
			line.TotalPrice = f
		}
	default:
		return req, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	out := Clone(req)
	out.OrderLines[index] = line
	return out, nil
}

// WithLineAdded appends a zero-valued line.
func WithLineAdded(req dto.ProcurementRequest) dto.ProcurementRequest {
	out := Clone(req)
	out.OrderLines = append(out.OrderLines, dto.OrderLine{})
	return out
}

// WithLineRemoved drops the line at index; later lines shift down by one.
func WithLineRemoved(req dto.ProcurementRequest, index int) (dto.ProcurementRequest, error) {
	if index < 0 || index >= len(req.OrderLines) {
		return req, fmt.Errorf("%w: %d", ErrLineIndex, index)
	}

	out := Clone(req)
	out.OrderLines = append(out.OrderLines[:index], out.OrderLines[index+1:]...)
	return out, nil
}

// LineTotal reports unit_price*amount for a line. It is informational only;
// total_price is whatever the operator or the extractor put there.
func LineTotal(line dto.OrderLine) float64 {
	return line.UnitPrice * line.Amount
}

func asString(field string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: %s expects text, got %T", ErrValueKind, field, value)
	}
}

func asNumber(field string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		// an empty number input means 0
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s expects a number, got %q", ErrValueKind, field, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s expects a number, got %T", ErrValueKind, field, value)
	}
}
