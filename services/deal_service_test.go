package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/utils"
)

func TestCreateDealValidation(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()

	_, err := env.engine.CreateDeal(business.ID, "Lunch deal", 100, 200, 5, 7, 14)
	require.Error(t, err, "discount above original must be rejected")

	_, err = env.engine.CreateDeal(business.ID, "Lunch deal", 200, 100, 0, 7, 14)
	require.Error(t, err, "zero threshold must be rejected")

	deal, err := env.engine.CreateDeal(business.ID, "Lunch deal", 200, 100, 5, 7, 14)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusCollecting, deal.Status)
	assert.Equal(t, 50, deal.DiscountPercent())
	assert.True(t, deal.ExpiresAt.Equal(env.clock.Now().AddDate(0, 0, 7)))
}

func TestActivateDealIsIdempotent(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 2)
	user := env.addUser(1)
	_, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)

	require.NoError(t, env.engine.ActivateDeal(deal.ID))
	require.NoError(t, env.engine.ActivateDeal(deal.ID))
	require.NoError(t, env.engine.ActivateDeal(deal.ID))

	// Activation fired exactly once.
	assert.Equal(t, 1, env.notifier.customerActivations)
	assert.Equal(t, 1, env.notifier.businessActivations)

	updated, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, models.DealStatusActivated, updated.Status)
}

func TestCheckAndActivateDealsSweepsThreshold(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	ready := env.addDeal(business.ID, 1)
	notReady := env.addDeal(business.ID, 5)

	// Simulate a join whose synchronous activation was missed.
	_, ok, err := env.deals.IncrementParticipants(ready.ID)
	require.NoError(t, err)
	require.True(t, ok)

	env.engine.CheckAndActivateDeals()

	activated, _ := env.deals.GetByID(ready.ID)
	assert.Equal(t, models.DealStatusActivated, activated.Status)
	untouched, _ := env.deals.GetByID(notReady.ID)
	assert.Equal(t, models.DealStatusCollecting, untouched.Status)
}

func TestExpireDealCancelsBelowThreshold(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 3)
	alice := env.addUser(1)
	bob := env.addUser(2)
	first, _ := env.ledger.JoinDeal(alice.ID, deal.ID)
	second, _ := env.ledger.JoinDeal(bob.ID, deal.ID)

	env.clock.Instant = deal.ExpiresAt.AddDate(0, 0, 1)
	env.engine.CheckExpiredDeals()

	cancelled, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, models.DealStatusCancelled, cancelled.Status)

	for _, id := range []uint{first.ID, second.ID} {
		booking, _ := env.bookings.GetByID(id)
		assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	}
}

func TestExpireDealActivatesAndCompletesAboveThreshold(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)

	// Threshold reached but the activation sweep never ran.
	_, ok, err := env.deals.IncrementParticipants(deal.ID)
	require.NoError(t, err)
	require.True(t, ok)

	env.clock.Instant = deal.ExpiresAt.AddDate(0, 0, 1)
	env.engine.CheckExpiredDeals()

	completed, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, models.DealStatusCompleted, completed.Status)
	assert.NotNil(t, completed.ActivatedAt)
	assert.NotNil(t, completed.CompletedAt)

	_, err = env.reports.GetByDeal(deal.ID)
	assert.NoError(t, err, "deadline completion must reconcile a report")
}

func TestExpireActivatedDealCompletes(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	_, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)

	env.clock.Instant = deal.ExpiresAt.AddDate(0, 0, 1)
	env.engine.CheckExpiredDeals()

	completed, _ := env.deals.GetByID(deal.ID)
	assert.Equal(t, models.DealStatusCompleted, completed.Status)
}

func TestCompleteDealManually(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 10)
	user := env.addUser(1)
	_, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)

	completed, err := env.engine.CompleteDeal(deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusCompleted, completed.Status)

	_, err = env.engine.CompleteDeal(deal.ID)
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "already completed")
}

func TestReportUpsertKeepsRateSnapshot(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	booking, _ := env.ledger.JoinDeal(user.ID, deal.ID)
	_, err := env.ledger.ConfirmByBusiness(booking.ID)
	require.NoError(t, err)

	report, err := env.reports.GetByDeal(deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.15, report.CommissionRate)
	assert.Equal(t, float64(45), report.Commission) // round(300 * 0.15)

	// The platform rate changes, the stored report keeps its snapshot.
	laterEngine := NewDealService(env.deals, env.bookings, env.reports, env.businesses,
		env.notifier, nil, env.clock, 0.30)
	require.NoError(t, laterEngine.GenerateReport(deal.ID))

	recomputed, err := env.reports.GetByDeal(deal.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, recomputed.ID, "upsert must update in place, not duplicate")
	assert.Equal(t, 0.15, recomputed.CommissionRate)
	assert.Equal(t, float64(45), recomputed.Commission)
}

func TestDiscountPercentRounding(t *testing.T) {
	deal := &models.Deal{OriginalPrice: 300, DiscountPrice: 200}
	assert.Equal(t, 33, deal.DiscountPercent())

	deal = &models.Deal{OriginalPrice: 300, DiscountPrice: 100}
	assert.Equal(t, 67, deal.DiscountPercent())
}
