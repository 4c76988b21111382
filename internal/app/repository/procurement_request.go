package repository

import (
	"context"
	"errors"

	"procurement/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для работы с заявками

// CreateRequest сохраняет заявку вместе с позициями в одной транзакции
func (r *Repository) CreateRequest(ctx context.Context, req *ds.ProcurementRequest) error {
	for i := range req.OrderLines {
		req.OrderLines[i].Position = i
	}
	return r.db.WithContext(ctx).Create(req).Error
}

// ListRequests возвращает заявки по возрастанию ID с позициями в исходном порядке
func (r *Repository) ListRequests(ctx context.Context, skip, limit int) ([]ds.ProcurementRequest, error) {
	var requests []ds.ProcurementRequest
	err := r.db.WithContext(ctx).
		Preload("OrderLines", orderedLines).
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// Получить заявку по ID
func (r *Repository) GetRequest(ctx context.Context, id int64) (*ds.ProcurementRequest, error) {
	var req ds.ProcurementRequest
	err := r.db.WithContext(ctx).
		Preload("OrderLines", orderedLines).
		Where("id = ?", id).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateStatus меняет только статус; проверка значения на стороне обработчика
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result := r.db.WithContext(ctx).
		Model(&ds.ProcurementRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountRequests используется cmd/migrate для проверки подключения
func (r *Repository) CountRequests(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ds.ProcurementRequest{}).Count(&count).Error
	return count, err
}

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}
