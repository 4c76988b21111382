package extract

import (
	"context"
	"errors"

	"procurement/internal/app/dto"
)

var (
	ErrEmptyDocument = errors.New("empty document")
	ErrNoCompletion  = errors.New("model returned no completion")
)

// Extractor распознает документ и классифицирует заявку
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (dto.ProcurementRequest, error)
	PredictCommodityGroup(ctx context.Context, req dto.ProcurementRequest) (string, error)
}

// normalize приводит ответ модели к форме черновика: order_lines всегда не nil,
// неизвестная товарная группа заменяется запасной
func normalize(req dto.ProcurementRequest) dto.ProcurementRequest {
	if req.OrderLines == nil {
		req.OrderLines = []dto.OrderLine{}
	}
	if req.CommodityGroupID != nil {
		id := FallbackCommodityGroup
		if g, ok := LookupCommodityGroup(*req.CommodityGroupID); ok {
			id = g.ID
		}
		req.CommodityGroupID = &id
	}
	return req
}
