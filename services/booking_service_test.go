package services

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

func TestGenerateUniqueCodeFormat(t *testing.T) {
	env := newTestEnv()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := env.ledger.GenerateUniqueCode()
		assert.True(t, strings.HasPrefix(code, "LOVY-"), "code %q must carry the prefix", code)
		assert.True(t, utils.IsValidCodeFormat("LOVY", code), "code %q must pass the format check", code)
		assert.False(t, seen[code], "code %q issued twice", code)
		seen[code] = true

		booking := &models.Booking{UserID: uint(i + 1), DealID: uint(i + 1), Code: code}
		require.NoError(t, env.bookings.Create(booking))
	}
}

func TestJoinDealBelowThresholdStaysPending(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)
	user := env.addUser(1)

	booking, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.NotEmpty(t, booking.Code)

	updated, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, models.DealStatusCollecting, updated.Status)
	assert.Equal(t, 1, updated.CurrentPeople)
	assert.Equal(t, 0, env.notifier.customerActivations)
}

func TestJoinDealReachingThresholdActivates(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 2)
	alice := env.addUser(1)
	bob := env.addUser(2)

	first, err := env.ledger.JoinDeal(alice.ID, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, first.Status)

	second, err := env.ledger.JoinDeal(bob.ID, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusActivated, second.Status)

	updated, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, models.DealStatusActivated, updated.Status)
	assert.NotNil(t, updated.ActivatedAt)

	// The earlier pending booking was bulk-activated.
	reloaded, _ := env.bookings.GetByID(first.ID)
	assert.Equal(t, models.BookingStatusActivated, reloaded.Status)

	assert.Equal(t, 1, env.notifier.customerActivations)
	assert.Equal(t, 1, env.notifier.businessActivations)
	assert.Len(t, env.notifier.lastActivatedBookings, 2)

	// Codes are distinct.
	assert.NotEqual(t, first.Code, second.Code)
}

func TestJoinDealTwiceIsConflict(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)
	user := env.addUser(1)

	_, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)

	_, err = env.ledger.JoinDeal(user.ID, deal.ID)
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)

	updated, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, 1, updated.CurrentPeople)
}

// flakyIncrementDeals fails IncrementParticipants a set number of times,
// then behaves normally.
type flakyIncrementDeals struct {
	repository.DealRepository
	failures int
}

func (r *flakyIncrementDeals) IncrementParticipants(id uint) (*models.Deal, bool, error) {
	if r.failures > 0 {
		r.failures--
		return nil, false, errors.New("connection reset by peer")
	}
	return r.DealRepository.IncrementParticipants(id)
}

func TestJoinDealRollsBackBookingOnIncrementFailure(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)
	user := env.addUser(1)

	deals := &flakyIncrementDeals{DealRepository: env.deals, failures: 1}
	ledger := NewBookingService(env.bookings, deals, env.users, env.businesses,
		env.reviews, env.engine, env.notifier, env.clock, "LOVY", 14)

	_, err := ledger.JoinDeal(user.ID, deal.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, utils.GetAppError(err).Code)

	// The failed join left nothing behind.
	_, err = env.bookings.GetByUserAndDeal(user.ID, deal.ID)
	assert.Equal(t, repository.ErrNotFound, err)
	current, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, 0, current.CurrentPeople)

	// So the retry goes through instead of hitting a duplicate.
	booking, err := ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	current, _ = env.deals.GetByID(deal.ID)
	assert.Equal(t, 1, current.CurrentPeople)
}

// brokenCreateBookings rejects every insert with an infrastructure error.
type brokenCreateBookings struct {
	repository.BookingRepository
}

func (r *brokenCreateBookings) Create(*models.Booking) error {
	return errors.New("disk full")
}

func TestJoinDealInfraCreateErrorIsNotConflict(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)
	user := env.addUser(1)

	bookings := &brokenCreateBookings{BookingRepository: env.bookings}
	ledger := NewBookingService(bookings, env.deals, env.users, env.businesses,
		env.reviews, env.engine, env.notifier, env.clock, "LOVY", 14)

	_, err := ledger.JoinDeal(user.ID, deal.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, utils.GetAppError(err).Code)
}

// activateOnIncrement flips the deal out of collecting right before the
// increment, reproducing a join that loses the race for the last slot.
type activateOnIncrement struct {
	repository.DealRepository
	at time.Time
}

func (r *activateOnIncrement) IncrementParticipants(id uint) (*models.Deal, bool, error) {
	_, _ = r.DealRepository.TransitionStatus(id, models.DealStatusCollecting, models.DealStatusActivated, r.at)
	return r.DealRepository.IncrementParticipants(id)
}

func TestJoinDealLosingActivationRacePromotesBooking(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)
	user := env.addUser(1)

	deals := &activateOnIncrement{DealRepository: env.deals, at: env.clock.Now()}
	ledger := NewBookingService(env.bookings, deals, env.users, env.businesses,
		env.reviews, env.engine, env.notifier, env.clock, "LOVY", 14)

	booking, err := ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusActivated, booking.Status)

	// The count stays frozen at activation.
	current, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, 0, current.CurrentPeople)
}

func TestJoinActivatedDealIssuesActiveCode(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	alice := env.addUser(1)
	bob := env.addUser(2)

	_, err := env.ledger.JoinDeal(alice.ID, deal.ID)
	require.NoError(t, err)
	activated, _ := env.deals.GetByID(deal.ID)
	require.Equal(t, models.DealStatusActivated, activated.Status)
	frozen := activated.CurrentPeople

	booking, err := env.ledger.JoinDeal(bob.ID, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusActivated, booking.Status)

	// Participant count is frozen after activation.
	after, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, frozen, after.CurrentPeople)
}

func TestJoinTerminalDealRejected(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 2)
	user := env.addUser(1)

	_, _ = env.deals.TransitionStatus(deal.ID, models.DealStatusCollecting, models.DealStatusCancelled, env.clock.Now())

	_, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, utils.GetAppError(err).Code)
}

func TestRedeemPipeline(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	other := &models.Business{ChatID: 2000, Name: "Other", IsActive: true, TrustScore: 100}
	require.NoError(t, env.businesses.Create(other))

	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	booking, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusActivated, booking.Status)

	t.Run("invalid format", func(t *testing.T) {
		_, err := env.ledger.Redeem("garbage", business.ID)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, utils.GetAppError(err).Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := env.ledger.Redeem("LOVY-0000X", business.ID)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, utils.GetAppError(err).Code)
	})

	t.Run("foreign business", func(t *testing.T) {
		_, err := env.ledger.Redeem(booking.Code, other.ID)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, utils.GetAppError(err).Code)
		// No state change.
		reloaded, _ := env.bookings.GetByID(booking.ID)
		assert.Equal(t, models.BookingStatusActivated, reloaded.Status)
	})

	t.Run("case-insensitive lookup", func(t *testing.T) {
		found, err := env.ledger.Redeem("  "+strings.ToLower(booking.Code)+" ", business.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, found.ID)
	})

	t.Run("success does not mutate", func(t *testing.T) {
		found, err := env.ledger.Redeem(booking.Code, business.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusActivated, found.Status)
		reloaded, _ := env.bookings.GetByID(booking.ID)
		assert.Equal(t, models.BookingStatusActivated, reloaded.Status)
	})
}

func TestRedeemPendingCode(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)
	user := env.addUser(1)
	booking, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPending, booking.Status)

	_, err = env.ledger.Redeem(booking.Code, business.ID)
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "not yet activated")
}

func TestRedeemUsedCodeReportsTimestamp(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	booking, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)

	_, err = env.ledger.ConfirmByBusiness(booking.ID)
	require.NoError(t, err)

	_, err = env.ledger.Redeem(booking.Code, business.ID)
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "already used")
	assert.Contains(t, appErr.Message, "01.06.2025")
}

func TestRedeemExpiredCode(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	booking, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)

	env.clock.Instant = env.clock.Instant.AddDate(0, 0, 15)

	_, err = env.ledger.Redeem(booking.Code, business.ID)
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "expired")
}

func TestConfirmByBusinessMarksUsedAndAutoCompletes(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 2)
	alice := env.addUser(1)
	bob := env.addUser(2)

	first, _ := env.ledger.JoinDeal(alice.ID, deal.ID)
	second, _ := env.ledger.JoinDeal(bob.ID, deal.ID)

	used, err := env.ledger.ConfirmByBusiness(first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusUsed, used.Status)
	assert.True(t, used.BusinessConfirmed)
	assert.NotNil(t, used.BusinessConfirmedAt)
	assert.Equal(t, 1, env.notifier.redemptionConfirms)

	// One code still outstanding, deal stays activated.
	current, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, models.DealStatusActivated, current.Status)

	_, err = env.ledger.ConfirmByBusiness(second.ID)
	require.NoError(t, err)

	// Last outstanding code redeemed: deal auto-completes with a report.
	completed, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, models.DealStatusCompleted, completed.Status)

	report, err := env.reports.GetByDeal(deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.CodesUsed)
	assert.Equal(t, float64(600), report.Revenue)
	assert.Equal(t, float64(90), report.Commission)
}

func TestConfirmByBusinessRequiresActivated(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)
	user := env.addUser(1)
	booking, _ := env.ledger.JoinDeal(user.ID, deal.ID)

	_, err := env.ledger.ConfirmByBusiness(booking.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, utils.GetAppError(err).Code)
}

func TestConfirmByCustomerCreatesReviewAndStats(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	booking, _ := env.ledger.JoinDeal(user.ID, deal.ID)
	_, err := env.ledger.ConfirmByBusiness(booking.ID)
	require.NoError(t, err)

	confirmed, err := env.ledger.ConfirmByCustomer(booking.ID, 5, "great coffee")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)
	assert.True(t, confirmed.UserConfirmed)

	require.Len(t, env.reviews.Reviews, 1)
	review := env.reviews.Reviews[0]
	assert.Equal(t, booking.ID, review.BookingID)
	assert.Equal(t, 5, review.Rating)

	reloadedUser, _ := env.users.GetByID(user.ID)
	assert.Equal(t, 1, reloadedUser.DealsUsed)
	assert.Equal(t, float64(200), reloadedUser.TotalSaved)
	assert.Equal(t, utils.ReviewBonusPoints, reloadedUser.BonusPoints)

	reloadedBusiness, _ := env.businesses.GetByID(business.ID)
	assert.Equal(t, 1, reloadedBusiness.ReviewCount)
	assert.InDelta(t, 5.0, reloadedBusiness.Rating, 0.001)
}

func TestConfirmByCustomerRequiresUsed(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	booking, _ := env.ledger.JoinDeal(user.ID, deal.ID)

	_, err := env.ledger.ConfirmByCustomer(booking.ID, 4, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, utils.GetAppError(err).Code)
	assert.Empty(t, env.reviews.Reviews)
}

func TestDeclineByCustomerExpiresBooking(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	booking, _ := env.ledger.JoinDeal(user.ID, deal.ID)
	_, err := env.ledger.ConfirmByBusiness(booking.ID)
	require.NoError(t, err)

	declined, err := env.ledger.DeclineByCustomer(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusExpired, declined.Status)
	assert.Empty(t, env.reviews.Reviews)

	reloadedUser, _ := env.users.GetByID(user.ID)
	assert.Zero(t, reloadedUser.BonusPoints)
}

func TestReviewFlowConfirmsVisit(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	booking, _ := env.ledger.JoinDeal(user.ID, deal.ID)
	_, err := env.ledger.ConfirmByBusiness(booking.ID)
	require.NoError(t, err)

	require.NoError(t, env.ledger.BeginReview(user, booking.ID, 5))
	assert.Equal(t, models.StepReviewComment, user.State.Step)

	confirmed, err := env.ledger.SubmitReview(user, "great coffee")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	require.Len(t, env.reviews.Reviews, 1)
	assert.Equal(t, 5, env.reviews.Reviews[0].Rating)
	assert.Equal(t, "great coffee", env.reviews.Reviews[0].Comment)

	// The flow state is cleared, in memory and in storage.
	assert.False(t, user.State.InFlow())
	stored, _ := env.users.GetByID(user.ID)
	assert.False(t, stored.State.InFlow())
}

func TestReviewFlowGuards(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	owner := env.addUser(1)
	stranger := env.addUser(2)
	booking, _ := env.ledger.JoinDeal(owner.ID, deal.ID)

	t.Run("bad rating", func(t *testing.T) {
		err := env.ledger.BeginReview(owner, booking.ID, 6)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, utils.GetAppError(err).Code)
	})

	t.Run("foreign booking", func(t *testing.T) {
		err := env.ledger.BeginReview(stranger, booking.ID, 5)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, utils.GetAppError(err).Code)
	})

	t.Run("code not used yet", func(t *testing.T) {
		err := env.ledger.BeginReview(owner, booking.ID, 5)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, utils.GetAppError(err).Code)
	})

	t.Run("no flow in progress", func(t *testing.T) {
		_, err := env.ledger.SubmitReview(owner, "nice")
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, utils.GetAppError(err).Code)
	})
}

func TestBookingExpiryUsesDealValidity(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)
	user := env.addUser(1)

	booking, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)
	want := env.clock.Now().AddDate(0, 0, deal.ValidityDays)
	assert.True(t, booking.ExpiresAt.Equal(want), "expiry %s, want %s", booking.ExpiresAt, want)
}
