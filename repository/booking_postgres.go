package repository

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// isUniqueViolation reports whether the driver error is a postgres
// unique-constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates the postgres-backed booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(booking *models.Booking) error {
	booking.Code = utils.NormalizeCode(booking.Code)
	if err := r.db.Create(booking).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *bookingRepository) Delete(id uint) error {
	// Hard delete: a soft-deleted row would still hold the (user, deal)
	// unique slot and block the retry the compensation exists for.
	return r.db.Unscoped().Delete(&models.Booking{}, id).Error
}

func (r *bookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Preload("User").Preload("Deal").Preload("Deal.Business").
		First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) GetByCode(code string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Preload("User").Preload("Deal").Preload("Deal.Business").
		Where("UPPER(code) = ?", utils.NormalizeCode(code)).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) GetByUserAndDeal(userID, dealID uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Where("user_id = ? AND deal_id = ?", userID, dealID).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByDeal(dealID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Preload("User").
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) ListByUser(userID uint, statuses ...string) ([]models.Booking, error) {
	var bookings []models.Booking
	query := r.db.Preload("Deal").Preload("Deal.Business").Preload("Deal.Business.City").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) TransitionStatus(id uint, from, to string) (bool, error) {
	res := r.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookingRepository) ActivateForDeal(dealID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	res := r.db.Model(&bookings).
		Clauses(clause.Returning{}).
		Where("deal_id = ? AND status = ?", dealID, models.BookingStatusPending).
		Update("status", models.BookingStatusActivated)
	return bookings, res.Error
}

func (r *bookingRepository) CancelForDeal(dealID uint) error {
	return r.db.Model(&models.Booking{}).
		Where("deal_id = ? AND status IN ?", dealID,
			[]string{models.BookingStatusPending, models.BookingStatusActivated}).
		Update("status", models.BookingStatusCancelled).Error
}

func (r *bookingRepository) SetBusinessConfirmed(id uint, at time.Time) (*models.Booking, error) {
	res := r.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, models.BookingStatusActivated).
		Updates(map[string]interface{}{
			"business_confirmed":    true,
			"business_confirmed_at": at,
			"status":                models.BookingStatusUsed,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleTransition
	}
	return r.GetByID(id)
}

func (r *bookingRepository) SetUserConfirmed(id uint, at time.Time) (*models.Booking, error) {
	res := r.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, models.BookingStatusUsed).
		Updates(map[string]interface{}{
			"user_confirmed":    true,
			"user_confirmed_at": at,
			"status":            models.BookingStatusConfirmed,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleTransition
	}
	return r.GetByID(id)
}

func (r *bookingRepository) ListUsedAwaitingReview(olderThan time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Preload("User").Preload("Deal").Preload("Deal.Business").
		Where("status = ? AND review_requested = ? AND business_confirmed_at < ?",
			models.BookingStatusUsed, false, olderThan).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) ListActivatedAwaitingReminder(windowStart, windowEnd time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Preload("User").Preload("Deal").Preload("Deal.Business").
		Where("status = ? AND reminder_sent = ? AND expires_at > ? AND expires_at <= ?",
			models.BookingStatusActivated, false, windowStart, windowEnd).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) MarkReviewRequested(id uint) error {
	return r.db.Model(&models.Booking{}).
		Where("id = ?", id).
		Update("review_requested", true).Error
}

func (r *bookingRepository) MarkReminderSent(id uint) error {
	return r.db.Model(&models.Booking{}).
		Where("id = ?", id).
		Update("reminder_sent", true).Error
}
