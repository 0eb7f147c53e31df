package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer reached through the customer-facing bot
type User struct {
	gorm.Model
	ChatID      int64             `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username    string            `json:"username"`
	FirstName   string            `json:"first_name"`
	CityID      uint              `json:"city_id"`
	City        City              `json:"city,omitempty" gorm:"foreignKey:CityID"`
	BonusPoints int               `json:"bonus_points" gorm:"default:0"`
	DealsUsed   int               `json:"deals_used" gorm:"default:0"`
	TotalSaved  float64           `json:"total_saved" gorm:"default:0"`
	State       ConversationState `json:"-" gorm:"serializer:json"`
}

// Admin represents a platform administrator
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// City represents a city where deals are offered
type City struct {
	gorm.Model
	Name     string `json:"name"`
	Slug     string `json:"slug" gorm:"uniqueIndex"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

// Category represents a business category
type Category struct {
	gorm.Model
	Name  string `json:"name"`
	Slug  string `json:"slug" gorm:"uniqueIndex"`
	Emoji string `json:"emoji"`
}

// Complaint types and the trust score penalty each one carries
const (
	ComplaintNotServed  = "not_served"
	ComplaintWrongPrice = "wrong_price"
	ComplaintBadService = "bad_service"
	ComplaintFraud      = "fraud"

	ComplaintStatusOpen     = "open"
	ComplaintStatusResolved = "resolved"
)

// Complaint represents a customer complaint against a business
type Complaint struct {
	gorm.Model
	BusinessID uint     `json:"business_id" gorm:"index"`
	Business   Business `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	BookingID  uint     `json:"booking_id"`
	UserID     uint     `json:"user_id"`
	Type       string   `json:"type"`
	Comment    string   `json:"comment"`
	Status     string   `json:"status" gorm:"default:'open'"`
}

// Review represents a customer review left after a confirmed visit
type Review struct {
	gorm.Model
	BookingID  uint   `json:"booking_id" gorm:"uniqueIndex"`
	UserID     uint   `json:"user_id"`
	BusinessID uint   `json:"business_id" gorm:"index"`
	DealID     uint   `json:"deal_id"`
	Rating     int    `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Comment    string `json:"comment"`
}
