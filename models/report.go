package models

import (
	"time"

	"gorm.io/gorm"
)

// BusinessReport is the commission reconciliation for a completed deal.
// Exactly one report exists per deal; recomputation updates it in place.
// CommissionRate is snapshotted at creation so later rate changes never
// alter historical reports.
type BusinessReport struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	BusinessID     uint           `json:"business_id" gorm:"index"`
	Business       Business       `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	DealID         uint           `json:"deal_id" gorm:"uniqueIndex"`
	Deal           Deal           `json:"deal,omitempty" gorm:"foreignKey:DealID"`
	TotalBookings  int            `json:"total_bookings"`
	CodesUsed      int            `json:"codes_used"`
	CodesConfirmed int            `json:"codes_confirmed"`
	Revenue        float64        `json:"revenue"`
	Commission     float64        `json:"commission"`
	CommissionRate float64        `json:"commission_rate"`
	DueDate        time.Time      `json:"due_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
