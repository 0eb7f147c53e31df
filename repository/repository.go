package repository

import (
	"errors"
	"time"

	"github.com/lovihub/lovi-backend/models"
)

// ErrNotFound is returned by lookups when no row matches. Both the
// postgres and the in-memory implementations return it, so services can
// distinguish "absent" from infrastructure failure without knowing the
// storage engine.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned by writes that violate a uniqueness rule
// (booking code, one booking per user+deal). Services map it to a
// conflict; any other write error stays an infrastructure failure.
var ErrDuplicate = errors.New("duplicate record")

// ErrStaleTransition is returned by guarded single-row transitions when
// the row is no longer in the expected source status.
var ErrStaleTransition = errors.New("status changed concurrently")

// DealRepository is the persistence boundary for deals.
type DealRepository interface {
	Create(deal *models.Deal) error
	GetByID(id uint) (*models.Deal, error)
	GetByBusiness(businessID uint) ([]models.Deal, error)
	ListActive(cityID uint, categorySlug string, limit int) ([]models.Deal, error)
	ListHot(cityID uint, limit int) ([]models.Deal, error)
	ListCollectingAboveThreshold() ([]models.Deal, error)
	ListPastDeadlineNonTerminal(now time.Time) ([]models.Deal, error)

	// TransitionStatus moves a deal from one status to another in a single
	// guarded write. It reports false when the deal was not in the expected
	// source status, which makes every engine transition idempotent.
	TransitionStatus(id uint, from, to string, at time.Time) (bool, error)

	// IncrementParticipants atomically bumps the participant count of a
	// still-collecting deal and returns the updated row. ok is false when
	// the deal is no longer collecting (the count is frozen on activation).
	IncrementParticipants(id uint) (deal *models.Deal, ok bool, err error)
}

// BookingRepository is the persistence boundary for bookings. Code
// uniqueness is enforced here with a real unique constraint, not just the
// generator's pre-check.
type BookingRepository interface {
	// Create returns ErrDuplicate when the code or the (user, deal) pair
	// already exists.
	Create(booking *models.Booking) error

	// Delete removes a booking row entirely, freeing its code and its
	// (user, deal) slot. Used to compensate a failed join.
	Delete(id uint) error

	GetByID(id uint) (*models.Booking, error)
	GetByCode(code string) (*models.Booking, error)
	GetByUserAndDeal(userID, dealID uint) (*models.Booking, error)
	ListByDeal(dealID uint) ([]models.Booking, error)
	ListByUser(userID uint, statuses ...string) ([]models.Booking, error)

	// TransitionStatus is the guarded single-row move used for individual
	// booking transitions; false means the booking was not in `from`.
	TransitionStatus(id uint, from, to string) (bool, error)

	// ActivateForDeal bulk-moves every pending booking of a deal to
	// activated and returns the affected rows.
	ActivateForDeal(dealID uint) ([]models.Booking, error)

	// CancelForDeal cancels every non-terminal booking of a deal.
	CancelForDeal(dealID uint) error

	// SetBusinessConfirmed moves an `activated` booking to `used`;
	// SetUserConfirmed moves a `used` booking to `confirmed`. Both are
	// status-guarded like TransitionStatus and return ErrStaleTransition
	// when the booking left the expected status concurrently.
	SetBusinessConfirmed(id uint, at time.Time) (*models.Booking, error)
	SetUserConfirmed(id uint, at time.Time) (*models.Booking, error)

	ListUsedAwaitingReview(olderThan time.Time) ([]models.Booking, error)
	ListActivatedAwaitingReminder(windowStart, windowEnd time.Time) ([]models.Booking, error)
	MarkReviewRequested(id uint) error
	MarkReminderSent(id uint) error
}

// ReportRepository is the persistence boundary for commission reports.
type ReportRepository interface {
	GetByDeal(dealID uint) (*models.BusinessReport, error)
	ListByBusiness(businessID uint) ([]models.BusinessReport, error)

	// Upsert inserts the report or recomputes the existing row for the same
	// deal in place. The commission rate column is never overwritten on
	// update, preserving the creation-time snapshot.
	Upsert(report *models.BusinessReport) error
}

// ReviewRepository is the persistence boundary for reviews.
type ReviewRepository interface {
	Create(review *models.Review) error
	ListByBusiness(businessID uint, limit int) ([]models.Review, error)
}

// UserRepository is the persistence boundary for customers.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByChatID(chatID int64) (*models.User, error)
	Upsert(user *models.User) error
	UpdateCity(chatID int64, cityID uint) error
	UpdateState(id uint, state models.ConversationState) error
	AddBonusPoints(id uint, points int) error

	// IncrementStats bumps the lifetime deals-used counter and adds the
	// per-deal savings to the running total.
	IncrementStats(id uint, saved float64) error
}

// BusinessRepository is the persistence boundary for merchant accounts.
type BusinessRepository interface {
	Create(business *models.Business) error
	Update(business *models.Business) error
	GetByID(id uint) (*models.Business, error)
	GetCurrentByChatID(chatID int64) (*models.Business, error)
	ListByChatID(chatID int64) ([]models.Business, error)
	ListActive() ([]models.Business, error)
	SetCurrent(chatID int64, businessID uint) error
	UpdateState(id uint, state models.ConversationState) error

	// AdjustTrustScore applies a delta clamped to the 0..100 range.
	AdjustTrustScore(id uint, delta int) error

	// AddRating folds one review rating into the business aggregate.
	AddRating(id uint, rating int) error
}

// ComplaintRepository is the persistence boundary for complaints.
type ComplaintRepository interface {
	Create(complaint *models.Complaint) error
	GetByID(id uint) (*models.Complaint, error)
	CountOpenByBusiness(businessID uint) (int64, error)
	ListOpen() ([]models.Complaint, error)
	Resolve(id uint) error
}

// CatalogRepository serves the DB-driven city and category directories.
type CatalogRepository interface {
	ListCities() ([]models.City, error)
	GetCityBySlug(slug string) (*models.City, error)
	ListCategories() ([]models.Category, error)
	GetCategoryBySlug(slug string) (*models.Category, error)
}

// AdminRepository is the persistence boundary for administrator accounts.
type AdminRepository interface {
	GetByID(id uint) (*models.Admin, error)
	GetByEmail(email string) (*models.Admin, error)
	Create(admin *models.Admin) error
	UpdateLastLogin(id uint, at time.Time) error
}

// Stats is the platform-wide counters snapshot for the admin dashboard.
type Stats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalBusinesses int64 `json:"total_businesses"`
	TotalDeals      int64 `json:"total_deals"`
	TotalBookings   int64 `json:"total_bookings"`
}

// StatsRepository serves aggregate platform counters.
type StatsRepository interface {
	Totals() (*Stats, error)
}
