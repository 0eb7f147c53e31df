package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Deal status constants
const (
	DealStatusCollecting = "collecting"
	DealStatusActivated  = "activated"
	DealStatusCompleted  = "completed"
	DealStatusCancelled  = "cancelled"
)

// Deal represents a group-buying offer. It stays in `collecting` until
// CurrentPeople reaches MinPeople or the collection deadline passes.
// CurrentPeople only grows while collecting and is frozen after activation.
type Deal struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	BusinessID    uint           `json:"business_id" gorm:"index"`
	Business      Business       `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	Title         string         `json:"title"`
	OriginalPrice float64        `json:"original_price"`
	DiscountPrice float64        `json:"discount_price"`
	MinPeople     int            `json:"min_people"`
	CurrentPeople int            `json:"current_people" gorm:"default:0"`
	ValidityDays  int            `json:"validity_days"`
	Status        string         `json:"status" gorm:"default:'collecting';index"`
	ExpiresAt     time.Time      `json:"expires_at" gorm:"index"`
	ActivatedAt   *time.Time     `json:"activated_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// DiscountPercent returns the advertised discount, rounded to whole percent.
func (d *Deal) DiscountPercent() int {
	if d.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((d.OriginalPrice - d.DiscountPrice) / d.OriginalPrice * 100))
}

// Savings is the amount a customer saves by redeeming one booking.
func (d *Deal) Savings() float64 {
	return d.OriginalPrice - d.DiscountPrice
}

// IsTerminal reports whether no further status transition may leave the deal.
func (d *Deal) IsTerminal() bool {
	return d.Status == DealStatusCompleted || d.Status == DealStatusCancelled
}
