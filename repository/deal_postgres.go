package repository

import (
	"errors"
	"time"

	"github.com/lovihub/lovi-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type dealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates the postgres-backed deal repository.
func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) Create(deal *models.Deal) error {
	return r.db.Create(deal).Error
}

func (r *dealRepository) GetByID(id uint) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.Preload("Business").Preload("Business.City").Preload("Business.Category").
		First(&deal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) GetByBusiness(businessID uint) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&deals).Error
	return deals, err
}

func (r *dealRepository) ListActive(cityID uint, categorySlug string, limit int) ([]models.Deal, error) {
	var deals []models.Deal
	query := r.db.
		Joins("JOIN businesses ON businesses.id = deals.business_id").
		Where("deals.status IN ?", []string{models.DealStatusCollecting, models.DealStatusActivated}).
		Where("businesses.city_id = ? AND businesses.is_active = ?", cityID, true).
		Preload("Business").Preload("Business.Category").
		Order("deals.created_at DESC").
		Limit(limit)
	if categorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = businesses.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	err := query.Find(&deals).Error
	return deals, err
}

func (r *dealRepository) ListHot(cityID uint, limit int) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.
		Joins("JOIN businesses ON businesses.id = deals.business_id").
		Where("deals.status = ?", models.DealStatusCollecting).
		Where("businesses.city_id = ? AND businesses.is_active = ?", cityID, true).
		Preload("Business").Preload("Business.Category").
		Order("deals.current_people DESC").
		Limit(limit).
		Find(&deals).Error
	return deals, err
}

func (r *dealRepository) ListCollectingAboveThreshold() ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.
		Where("status = ? AND current_people >= min_people", models.DealStatusCollecting).
		Find(&deals).Error
	return deals, err
}

func (r *dealRepository) ListPastDeadlineNonTerminal(now time.Time) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.db.
		Where("status IN ? AND expires_at < ?",
			[]string{models.DealStatusCollecting, models.DealStatusActivated}, now).
		Find(&deals).Error
	return deals, err
}

func (r *dealRepository) TransitionStatus(id uint, from, to string, at time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to}
	switch to {
	case models.DealStatusActivated:
		updates["activated_at"] = at
	case models.DealStatusCompleted:
		updates["completed_at"] = at
	}

	res := r.db.Model(&models.Deal{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *dealRepository) IncrementParticipants(id uint) (*models.Deal, bool, error) {
	var deal models.Deal
	res := r.db.Model(&deal).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ?", id, models.DealStatusCollecting).
		UpdateColumn("current_people", gorm.Expr("current_people + 1"))
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		// deal left `collecting` concurrently, count stays frozen
		return nil, false, nil
	}
	return &deal, true, nil
}
