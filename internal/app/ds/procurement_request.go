package ds

import "time"

// 1. Таблица заявок на закупку
type ProcurementRequest struct {
	ID               int64     `gorm:"primaryKey"`
	RequestorName    string    `gorm:"type:varchar(100);index"`
	Department       string    `gorm:"type:varchar(100)"`
	Title            string    `gorm:"type:varchar(255)"`
	VendorName       string    `gorm:"type:varchar(255)"`
	VatID            string    `gorm:"type:varchar(50)"`
	CommodityGroupID string    `gorm:"type:varchar(10)"`
	TotalCost        float64   `gorm:"type:decimal(12,2)"`
	Status           string    `gorm:"type:varchar(20);not null;default:'Open'"` // Open, In Progress, Closed, Rejected
	CreatedAt        time.Time `gorm:"not null"`

	OrderLines []OrderLine `gorm:"foreignKey:RequestID"`
}
