package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// codeAttempts bounds the re-roll loop in GenerateUniqueCode before the
// timestamp fallback kicks in.
const codeAttempts = 10

// BookingService owns code issuance and the booking redemption state
// machine. Deal-level side effects (activation, completion) are delegated
// to the lifecycle engine.
type BookingService struct {
	bookings         repository.BookingRepository
	deals            repository.DealRepository
	users            repository.UserRepository
	businesses       repository.BusinessRepository
	reviews          repository.ReviewRepository
	engine           *DealService
	notifier         Notifier
	clock            Clock
	codePrefix       string
	codeValidityDays int
}

// NewBookingService wires the booking ledger.
func NewBookingService(
	bookings repository.BookingRepository,
	deals repository.DealRepository,
	users repository.UserRepository,
	businesses repository.BusinessRepository,
	reviews repository.ReviewRepository,
	engine *DealService,
	notifier Notifier,
	clock Clock,
	codePrefix string,
	codeValidityDays int,
) *BookingService {
	return &BookingService{
		bookings:         bookings,
		deals:            deals,
		users:            users,
		businesses:       businesses,
		reviews:          reviews,
		engine:           engine,
		notifier:         notifier,
		clock:            clock,
		codePrefix:       codePrefix,
		codeValidityDays: codeValidityDays,
	}
}

// GenerateUniqueCode produces a PREFIX-NNNN redemption code, re-rolling on
// collision a bounded number of times. After exhausting attempts it falls
// back to a base36 timestamp suffix, which cannot collide with the digit
// form. The database unique index remains the true uniqueness guarantee;
// this pre-check only keeps collisions rare.
func (s *BookingService) GenerateUniqueCode() string {
	for i := 0; i < codeAttempts; i++ {
		code := fmt.Sprintf("%s-%04d", s.codePrefix, rand.Intn(10000))
		if _, err := s.bookings.GetByCode(code); err == repository.ErrNotFound {
			return code
		}
	}
	suffix := strings.ToUpper(strconv.FormatInt(s.clock.Now().UnixNano(), 36))
	return fmt.Sprintf("%s-%s", s.codePrefix, suffix)
}

// JoinDeal creates a booking for the user on a deal and, when the join
// pushes the participant count to the threshold, triggers activation. The
// read-increment-decide sequence is serialized at the storage layer by a
// conditional atomic increment, so two customers racing over the last
// slot cannot double-activate the deal or lose a booking.
func (s *BookingService) JoinDeal(userID, dealID uint) (*models.Booking, error) {
	deal, err := s.deals.GetByID(dealID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Deal not found", err)
		}
		return nil, utils.InternalError("Failed to load deal", err)
	}
	if deal.IsTerminal() {
		return nil, utils.ConflictError("This deal is no longer available", nil)
	}

	if _, err := s.bookings.GetByUserAndDeal(userID, dealID); err == nil {
		return nil, utils.ConflictError("You have already joined this deal", nil)
	} else if err != repository.ErrNotFound {
		return nil, utils.InternalError("Failed to check existing booking", err)
	}

	validityDays := deal.ValidityDays
	if validityDays <= 0 {
		validityDays = s.codeValidityDays
	}
	booking := &models.Booking{
		UserID:    userID,
		DealID:    dealID,
		Code:      s.GenerateUniqueCode(),
		Status:    models.BookingStatusPending,
		ExpiresAt: s.clock.Now().AddDate(0, 0, validityDays),
	}
	// Joining an already-activated deal issues an immediately-redeemable
	// code; the frozen participant count is not touched.
	if deal.Status == models.DealStatusActivated {
		booking.Status = models.BookingStatusActivated
	}
	if err := s.bookings.Create(booking); err != nil {
		// Unique index on (user, deal) closes the lookup-then-insert window;
		// anything else is infrastructure, not a duplicate join.
		if err == repository.ErrDuplicate {
			return nil, utils.ConflictError("You have already joined this deal", err)
		}
		return nil, utils.InternalError("Failed to create booking", err)
	}
	utils.LogInfo("User %d joined deal %d with code %s", userID, dealID, booking.Code)

	if booking.Status == models.BookingStatusActivated {
		return booking, nil
	}

	updated, ok, err := s.deals.IncrementParticipants(dealID)
	if err != nil {
		// Roll the booking back so the join leaves no partial state and a
		// retry is not refused as a duplicate.
		if delErr := s.bookings.Delete(booking.ID); delErr != nil {
			utils.LogError("booking service: compensate booking %d after failed increment: %v", booking.ID, delErr)
		}
		return nil, utils.InternalError("Failed to update participant count", err)
	}
	if !ok {
		// The deal left `collecting` between our read and the increment:
		// someone else's join activated it. Promote our booking so it is
		// redeemable like the rest.
		if _, err := s.bookings.TransitionStatus(booking.ID, models.BookingStatusPending, models.BookingStatusActivated); err != nil {
			utils.LogError("booking service: promote booking %d on activated deal %d: %v", booking.ID, dealID, err)
		}
		return s.reload(booking.ID)
	}

	s.notifier.NotifyBusinessAboutNewParticipant(updated)

	if updated.CurrentPeople >= updated.MinPeople {
		if err := s.engine.ActivateDeal(dealID); err != nil {
			// The scheduler sweep will pick the deal up; the join itself
			// succeeded.
			utils.LogError("booking service: activate deal %d after threshold join: %v", dealID, err)
		}
	}
	return s.reload(booking.ID)
}

func (s *BookingService) reload(bookingID uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, utils.InternalError("Failed to load booking", err)
	}
	return booking, nil
}

// Redeem runs the business-side code check pipeline. Each failure is a
// distinct outcome so the business sees why the code was refused. Success
// returns the booking without mutating it; marking the code used is the
// separate explicit ConfirmByBusiness step.
func (s *BookingService) Redeem(code string, businessID uint) (*models.Booking, error) {
	if !utils.IsValidCodeFormat(s.codePrefix, code) {
		return nil, utils.BadRequestError(fmt.Sprintf("Invalid code format, expected %s-XXXX", s.codePrefix), nil)
	}

	booking, err := s.bookings.GetByCode(code)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Code not found", err)
		}
		return nil, utils.InternalError("Failed to look up code", err)
	}

	deal, err := s.deals.GetByID(booking.DealID)
	if err != nil {
		return nil, utils.InternalError("Failed to load deal", err)
	}
	if deal.BusinessID != businessID {
		return nil, utils.ForbiddenError("This code belongs to another business", nil)
	}

	switch booking.Status {
	case models.BookingStatusUsed, models.BookingStatusConfirmed:
		msg := "Code already used"
		if booking.BusinessConfirmedAt != nil {
			msg = fmt.Sprintf("Code already used on %s", booking.BusinessConfirmedAt.Format("02.01.2006 15:04"))
		}
		return nil, utils.ConflictError(msg, nil)
	case models.BookingStatusPending:
		return nil, utils.ConflictError("Code is not yet activated, the deal has not reached its minimum", nil)
	case models.BookingStatusExpired:
		return nil, utils.ConflictError("Code has expired", nil)
	case models.BookingStatusCancelled:
		return nil, utils.ConflictError("Code was cancelled", nil)
	}

	if s.clock.Now().After(booking.ExpiresAt) {
		return nil, utils.ConflictError("Code has expired", nil)
	}
	return booking, nil
}

// ConfirmByBusiness is the authoritative "redeemed" event: the business
// accepted the code in person. Moves the booking to `used`, notifies the
// customer and lets the engine auto-complete a fully-redeemed deal.
func (s *BookingService) ConfirmByBusiness(bookingID uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Booking not found", err)
		}
		return nil, utils.InternalError("Failed to load booking", err)
	}
	if booking.Status != models.BookingStatusActivated {
		return nil, utils.ConflictError("Only an activated code can be marked as used", nil)
	}

	updated, err := s.bookings.SetBusinessConfirmed(bookingID, s.clock.Now())
	if err != nil {
		if err == repository.ErrStaleTransition {
			return nil, utils.ConflictError("Only an activated code can be marked as used", err)
		}
		return nil, utils.InternalError("Failed to confirm booking", err)
	}
	utils.LogInfo("Booking %d (code %s) marked used by business", bookingID, updated.Code)

	if deal, err := s.deals.GetByID(booking.DealID); err == nil {
		s.notifier.NotifyCustomerOfRedemptionConfirmation(updated, deal)
	} else {
		utils.LogError("booking service: load deal %d for notification: %v", booking.DealID, err)
	}

	if err := s.engine.CheckAndCompleteDeal(booking.DealID); err != nil {
		utils.LogError("booking service: auto-complete check for deal %d: %v", booking.DealID, err)
	}
	return updated, nil
}

// ConfirmByCustomer closes the loop after a visit: the customer confirms
// everything went well, leaves a review and collects bonus points. The
// booking must already be `used` by the business.
func (s *BookingService) ConfirmByCustomer(bookingID uint, rating int, comment string) (*models.Booking, error) {
	if err := utils.ValidateRating(rating); err != nil {
		return nil, utils.BadRequestError(err.Error(), err)
	}

	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Booking not found", err)
		}
		return nil, utils.InternalError("Failed to load booking", err)
	}
	if booking.Status != models.BookingStatusUsed {
		return nil, utils.ConflictError("Visit can only be confirmed after the code was used", nil)
	}
	deal, err := s.deals.GetByID(booking.DealID)
	if err != nil {
		return nil, utils.InternalError("Failed to load deal", err)
	}

	// The guarded status write is the commit point; everything after it is
	// best-effort so a lost race cannot leave orphan side effects.
	updated, err := s.bookings.SetUserConfirmed(bookingID, s.clock.Now())
	if err != nil {
		if err == repository.ErrStaleTransition {
			return nil, utils.ConflictError("Visit can only be confirmed after the code was used", err)
		}
		return nil, utils.InternalError("Failed to confirm booking", err)
	}

	review := &models.Review{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		BusinessID: deal.BusinessID,
		DealID:     booking.DealID,
		Rating:     rating,
		Comment:    utils.SanitizeString(comment),
	}
	if err := s.reviews.Create(review); err != nil {
		utils.LogError("booking service: review for booking %d: %v", booking.ID, err)
	}

	if err := s.users.IncrementStats(booking.UserID, deal.Savings()); err != nil {
		utils.LogError("booking service: update stats for user %d: %v", booking.UserID, err)
	}
	if err := s.users.AddBonusPoints(booking.UserID, utils.ReviewBonusPoints); err != nil {
		utils.LogError("booking service: bonus points for user %d: %v", booking.UserID, err)
	}
	if err := s.businesses.AddRating(deal.BusinessID, rating); err != nil {
		utils.LogError("booking service: rating for business %d: %v", deal.BusinessID, err)
	}
	utils.LogInfo("Booking %d confirmed by customer, rating %d", bookingID, rating)
	return updated, nil
}

// DeclineByCustomer handles "I didn't use it" on a used booking: the code
// is written off as expired, no review and no bonus.
func (s *BookingService) DeclineByCustomer(bookingID uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Booking not found", err)
		}
		return nil, utils.InternalError("Failed to load booking", err)
	}
	if booking.Status != models.BookingStatusUsed {
		return nil, utils.ConflictError("Only a used booking can be declined", nil)
	}
	if _, err := s.bookings.TransitionStatus(bookingID, models.BookingStatusUsed, models.BookingStatusExpired); err != nil {
		return nil, utils.InternalError("Failed to decline booking", err)
	}
	utils.LogInfo("Booking %d declined by customer", bookingID)
	return s.reload(bookingID)
}

// BeginReview opens the two-step review flow: the rating is parked in the
// customer's conversation state while they type an optional comment.
func (s *BookingService) BeginReview(user *models.User, bookingID uint, rating int) error {
	if err := utils.ValidateRating(rating); err != nil {
		return utils.BadRequestError(err.Error(), err)
	}
	booking, err := s.GetBooking(bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != user.ID {
		return utils.ForbiddenError(utils.ErrForbidden, nil)
	}
	if booking.Status != models.BookingStatusUsed {
		return utils.ConflictError("Visit can only be confirmed after the code was used", nil)
	}

	user.State = models.ConversationState{
		Step:   models.StepReviewComment,
		Review: &models.ReviewDraft{BookingID: bookingID, Rating: rating},
	}
	if err := s.users.UpdateState(user.ID, user.State); err != nil {
		return utils.InternalError("Failed to start review", err)
	}
	return nil
}

// SubmitReview finishes the review flow with the comment and clears the
// conversation state. An empty comment is fine.
func (s *BookingService) SubmitReview(user *models.User, comment string) (*models.Booking, error) {
	if user.State.Step != models.StepReviewComment || user.State.Review == nil {
		return nil, utils.ConflictError("No review in progress", nil)
	}
	draft := user.State.Review

	booking, err := s.ConfirmByCustomer(draft.BookingID, draft.Rating, comment)
	if err != nil {
		return nil, err
	}
	user.State.Reset()
	if err := s.users.UpdateState(user.ID, user.State); err != nil {
		utils.LogError("booking service: clear review state for user %d: %v", user.ID, err)
	}
	return booking, nil
}

// LooksLikeCode reports whether free text is plausibly one of this
// platform's redemption codes.
func (s *BookingService) LooksLikeCode(text string) bool {
	return utils.LooksLikeCode(s.codePrefix, text)
}

// GetBooking returns a booking by ID.
func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Booking not found", err)
		}
		return nil, utils.InternalError("Failed to load booking", err)
	}
	return booking, nil
}

// ListUserBookings returns the user's bookings, optionally filtered by
// status.
func (s *BookingService) ListUserBookings(userID uint, statuses ...string) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByUser(userID, statuses...)
	if err != nil {
		return nil, utils.InternalError("Failed to load bookings", err)
	}
	return bookings, nil
}

// ListActiveCodes returns the user's currently redeemable codes.
func (s *BookingService) ListActiveCodes(userID uint) ([]models.Booking, error) {
	return s.ListUserBookings(userID, models.BookingStatusActivated)
}

// ListHistory returns finished bookings for the user's history view.
func (s *BookingService) ListHistory(userID uint) ([]models.Booking, error) {
	return s.ListUserBookings(userID,
		models.BookingStatusUsed, models.BookingStatusConfirmed,
		models.BookingStatusExpired, models.BookingStatusCancelled)
}
