package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking status constants
const (
	BookingStatusPending   = "pending"
	BookingStatusActivated = "activated"
	BookingStatusUsed      = "used"
	BookingStatusConfirmed = "confirmed"
	BookingStatusExpired   = "expired"
	BookingStatusCancelled = "cancelled"
)

// Booking represents one customer's claim on a deal, carrying a globally
// unique redemption code. At most one booking exists per (user, deal).
type Booking struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	UserID              uint           `json:"user_id" gorm:"index;uniqueIndex:idx_bookings_user_deal"`
	User                User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	DealID              uint           `json:"deal_id" gorm:"index;uniqueIndex:idx_bookings_user_deal"`
	Deal                Deal           `json:"deal,omitempty" gorm:"foreignKey:DealID"`
	Code                string         `json:"code" gorm:"uniqueIndex;not null"`
	Status              string         `json:"status" gorm:"default:'pending';index"`
	ExpiresAt           time.Time      `json:"expires_at"`
	BusinessConfirmed   bool           `json:"business_confirmed" gorm:"default:false"`
	BusinessConfirmedAt *time.Time     `json:"business_confirmed_at,omitempty"`
	UserConfirmed       bool           `json:"user_confirmed" gorm:"default:false"`
	UserConfirmedAt     *time.Time     `json:"user_confirmed_at,omitempty"`
	ReviewRequested     bool           `json:"review_requested" gorm:"default:false"`
	ReminderSent        bool           `json:"reminder_sent" gorm:"default:false"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsRedeemed reports whether the code has already been presented in person.
func (b *Booking) IsRedeemed() bool {
	return b.Status == BookingStatusUsed || b.Status == BookingStatusConfirmed
}
