package handler

import (
	"procurement/internal/app/ds"
	"procurement/internal/app/dto"
)

// Преобразования ds <-> dto

func toRow(req dto.ProcurementRequest) ds.ProcurementRequest {
	row := ds.ProcurementRequest{
		RequestorName: req.RequestorName,
		Department:    req.Department,
		Title:         req.Title,
		VendorName:    req.VendorName,
		VatID:         req.VatID,
		TotalCost:     req.TotalCost,
		Status:        string(dto.StatusOpen),
		OrderLines:    make([]ds.OrderLine, len(req.OrderLines)),
	}
	if req.CommodityGroupID != nil {
		row.CommodityGroupID = *req.CommodityGroupID
	}
	for i, l := range req.OrderLines {
		row.OrderLines[i] = ds.OrderLine{
			Position:    i,
			Description: l.Description,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
			Unit:        l.Unit,
			TotalPrice:  l.TotalPrice,
		}
	}
	return row
}

func toResponse(row ds.ProcurementRequest) dto.RequestResponse {
	resp := dto.RequestResponse{
		ProcurementRequest: dto.ProcurementRequest{
			RequestorName: row.RequestorName,
			Department:    row.Department,
			Title:         row.Title,
			VendorName:    row.VendorName,
			VatID:         row.VatID,
			TotalCost:     row.TotalCost,
			OrderLines:    make([]dto.OrderLine, len(row.OrderLines)),
		},
		ID:        row.ID,
		Status:    dto.Status(row.Status),
		CreatedAt: row.CreatedAt,
	}
	if row.CommodityGroupID != "" {
		group := row.CommodityGroupID
		resp.CommodityGroupID = &group
	}
	for i, l := range row.OrderLines {
		resp.OrderLines[i] = dto.OrderLine{
			Description: l.Description,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
			Unit:        l.Unit,
			TotalPrice:  l.TotalPrice,
		}
	}
	return resp
}
