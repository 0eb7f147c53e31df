package repository

import (
	"errors"
	"time"

	"github.com/lovihub/lovi-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// -----------------------------------------------------------------------
// Reports
// -----------------------------------------------------------------------

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates the postgres-backed report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetByDeal(dealID uint) (*models.BusinessReport, error) {
	var report models.BusinessReport
	err := r.db.Where("deal_id = ?", dealID).First(&report).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &report, nil
}

func (r *reportRepository) ListByBusiness(businessID uint) ([]models.BusinessReport, error) {
	var reports []models.BusinessReport
	err := r.db.Preload("Deal").
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) Upsert(report *models.BusinessReport) error {
	// commission_rate is deliberately absent from the update list: the
	// creation-time snapshot must survive recomputation.
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "deal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_bookings", "codes_used", "codes_confirmed",
			"revenue", "commission", "updated_at",
		}),
	}).Create(report).Error
}

// -----------------------------------------------------------------------
// Reviews
// -----------------------------------------------------------------------

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates the postgres-backed review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) ListByBusiness(businessID uint, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("business_id = ?", businessID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

// -----------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the postgres-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("City").First(&user, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) GetByChatID(chatID int64) (*models.User, error) {
	var user models.User
	err := r.db.Preload("City").Where("chat_id = ?", chatID).First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) Upsert(user *models.User) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "updated_at"}),
	}).Create(user).Error
}

func (r *userRepository) UpdateCity(chatID int64, cityID uint) error {
	return r.db.Model(&models.User{}).
		Where("chat_id = ?", chatID).
		Update("city_id", cityID).Error
}

func (r *userRepository) UpdateState(id uint, state models.ConversationState) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("state", state).Error
}

func (r *userRepository) AddBonusPoints(id uint, points int) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("bonus_points", gorm.Expr("bonus_points + ?", points)).Error
}

func (r *userRepository) IncrementStats(id uint, saved float64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deals_used":  gorm.Expr("deals_used + 1"),
			"total_saved": gorm.Expr("total_saved + ?", saved),
		}).Error
}

// -----------------------------------------------------------------------
// Businesses
// -----------------------------------------------------------------------

type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates the postgres-backed business repository.
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *models.Business) error {
	return r.db.Create(business).Error
}

func (r *businessRepository) Update(business *models.Business) error {
	return r.db.Save(business).Error
}

func (r *businessRepository) GetByID(id uint) (*models.Business, error) {
	var business models.Business
	err := r.db.Preload("City").Preload("Category").First(&business, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &business, nil
}

func (r *businessRepository) GetCurrentByChatID(chatID int64) (*models.Business, error) {
	var business models.Business
	err := r.db.Preload("City").Preload("Category").
		Where("chat_id = ? AND is_current = ?", chatID, true).
		First(&business).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &business, nil
}

func (r *businessRepository) ListByChatID(chatID int64) ([]models.Business, error) {
	var businesses []models.Business
	err := r.db.Preload("City").Preload("Category").
		Where("chat_id = ?", chatID).
		Order("created_at").
		Find(&businesses).Error
	return businesses, err
}

func (r *businessRepository) ListActive() ([]models.Business, error) {
	var businesses []models.Business
	err := r.db.Where("is_active = ?", true).Find(&businesses).Error
	return businesses, err
}

func (r *businessRepository) SetCurrent(chatID int64, businessID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Business{}).
			Where("chat_id = ?", chatID).
			Update("is_current", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Business{}).
			Where("id = ? AND chat_id = ?", businessID, chatID).
			Update("is_current", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *businessRepository) UpdateState(id uint, state models.ConversationState) error {
	return r.db.Model(&models.Business{}).
		Where("id = ?", id).
		Update("state", state).Error
}

func (r *businessRepository) AdjustTrustScore(id uint, delta int) error {
	return r.db.Model(&models.Business{}).
		Where("id = ?", id).
		UpdateColumn("trust_score", gorm.Expr("GREATEST(0, LEAST(100, trust_score + ?))", delta)).Error
}

func (r *businessRepository) AddRating(id uint, rating int) error {
	return r.db.Model(&models.Business{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       gorm.Expr("(rating * review_count + ?) / (review_count + 1)", rating),
			"review_count": gorm.Expr("review_count + 1"),
		}).Error
}

// -----------------------------------------------------------------------
// Complaints
// -----------------------------------------------------------------------

type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates the postgres-backed complaint repository.
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(complaint *models.Complaint) error {
	return r.db.Create(complaint).Error
}

func (r *complaintRepository) GetByID(id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.First(&complaint, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &complaint, nil
}

func (r *complaintRepository) CountOpenByBusiness(businessID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Complaint{}).
		Where("business_id = ? AND status = ?", businessID, models.ComplaintStatusOpen).
		Count(&count).Error
	return count, err
}

func (r *complaintRepository) ListOpen() ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.Preload("Business").
		Where("status = ?", models.ComplaintStatusOpen).
		Order("created_at").
		Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) Resolve(id uint) error {
	return r.db.Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("status", models.ComplaintStatusResolved).Error
}

// -----------------------------------------------------------------------
// Catalog
// -----------------------------------------------------------------------

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates the postgres-backed city/category directory.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCities() ([]models.City, error) {
	var cities []models.City
	err := r.db.Where("is_active = ?", true).Order("name").Find(&cities).Error
	return cities, err
}

func (r *catalogRepository) GetCityBySlug(slug string) (*models.City, error) {
	var city models.City
	err := r.db.Where("slug = ? AND is_active = ?", slug, true).First(&city).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &city, nil
}

func (r *catalogRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name").Find(&categories).Error
	return categories, err
}

func (r *catalogRepository) GetCategoryBySlug(slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &category, nil
}

// -----------------------------------------------------------------------
// Admins
// -----------------------------------------------------------------------

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates the postgres-backed admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.First(&admin, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("email = ?", email).First(&admin).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &admin, nil
}

func (r *adminRepository) Create(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

func (r *adminRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Admin{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

// -----------------------------------------------------------------------
// Stats
// -----------------------------------------------------------------------

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates the postgres-backed stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Totals() (*Stats, error) {
	var stats Stats
	if err := r.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Business{}).Count(&stats.TotalBusinesses).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Deal{}).Count(&stats.TotalDeals).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
