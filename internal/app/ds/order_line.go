package ds

// 2. Позиции заявки. Position хранит порядок строк, как они были отправлены
type OrderLine struct {
	ID          int64   `gorm:"primaryKey"`
	RequestID   int64   `gorm:"not null;index"`
	Position    int     `gorm:"not null;default:0"`
	Description string  `gorm:"type:text"`
	UnitPrice   float64 `gorm:"type:decimal(12,2)"`
	Amount      float64 `gorm:"type:decimal(12,3)"`
	Unit        string  `gorm:"type:varchar(50)"`
	TotalPrice  float64 `gorm:"type:decimal(12,2)"` // Не пересчитывается из UnitPrice*Amount
}
