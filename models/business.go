package models

import "gorm.io/gorm"

// Business represents a registered merchant account. One chat identity may
// own several businesses; exactly one of them is selected as current at a
// time (IsCurrent).
type Business struct {
	gorm.Model
	ChatID      int64             `gorm:"index;not null" json:"chat_id"`
	Name        string            `json:"name"`
	Address     string            `json:"address"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	CityID      uint              `json:"city_id"`
	City        City              `json:"city,omitempty" gorm:"foreignKey:CityID"`
	CategoryID  uint              `json:"category_id"`
	Category    Category          `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	IsActive    bool              `json:"is_active" gorm:"default:true"`
	IsVerified  bool              `json:"is_verified" gorm:"default:false"`
	IsCurrent   bool              `json:"is_current" gorm:"default:true"`
	TrustScore  int               `json:"trust_score" gorm:"default:100"`
	Rating      float64           `json:"rating" gorm:"default:0"`
	ReviewCount int               `json:"review_count" gorm:"default:0"`
	State       ConversationState `json:"-" gorm:"serializer:json"`
}
