package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

func TestRegistrationFlowWalk(t *testing.T) {
	env := newTestEnv()
	const chatID = int64(500)

	draft, err := env.merchant.BeginRegistration(chatID)
	require.NoError(t, err)
	assert.Equal(t, models.StepRegisterName, draft.State.Step)

	// An unfinished draft never shows up as the current business.
	_, err = env.businesses.GetCurrentByChatID(chatID)
	assert.Equal(t, repository.ErrNotFound, err)

	steps := []struct {
		value string
		next  string
	}{
		{"Coffee Corner", models.StepRegisterCity},
		{"almaty", models.StepRegisterCategory},
		{"coffee", models.StepRegisterAddress},
		{"12 Abay Ave", models.StepRegisterPhone},
	}
	for _, step := range steps {
		draft, err = env.merchant.AdvanceRegistration(chatID, step.value)
		require.NoError(t, err)
		assert.Equal(t, step.next, draft.State.Step)
	}

	business, err := env.merchant.AdvanceRegistration(chatID, "+7 777 000 00 00")
	require.NoError(t, err)
	assert.True(t, business.IsActive)
	assert.False(t, business.State.InFlow())
	assert.Equal(t, "Coffee Corner", business.Name)
	assert.Equal(t, uint(1), business.CityID)
	assert.Equal(t, uint(1), business.CategoryID)
	assert.Equal(t, "12 Abay Ave", business.Address)
	assert.Equal(t, "+7 777 000 00 00", business.Phone)

	// The finished business is selected as current.
	current, err := env.businesses.GetCurrentByChatID(chatID)
	require.NoError(t, err)
	assert.Equal(t, business.ID, current.ID)
	assert.False(t, current.State.InFlow())
}

func TestRegistrationFlowResumesExistingDraft(t *testing.T) {
	env := newTestEnv()
	const chatID = int64(500)

	first, err := env.merchant.BeginRegistration(chatID)
	require.NoError(t, err)
	_, err = env.merchant.AdvanceRegistration(chatID, "Coffee Corner")
	require.NoError(t, err)

	// Beginning again resumes rather than opening a second draft.
	resumed, err := env.merchant.BeginRegistration(chatID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resumed.ID)
	assert.Equal(t, models.StepRegisterCity, resumed.State.Step)

	businesses, _ := env.businesses.ListByChatID(chatID)
	assert.Len(t, businesses, 1)
}

func TestRegistrationFlowRejectsUnknownCity(t *testing.T) {
	env := newTestEnv()
	const chatID = int64(500)

	_, err := env.merchant.BeginRegistration(chatID)
	require.NoError(t, err)
	_, err = env.merchant.AdvanceRegistration(chatID, "Coffee Corner")
	require.NoError(t, err)

	_, err = env.merchant.AdvanceRegistration(chatID, "atlantis")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, utils.GetAppError(err).Code)

	// The flow stays on the same step so the merchant can retry.
	draft, err := env.merchant.RegistrationDraft(chatID)
	require.NoError(t, err)
	assert.Equal(t, models.StepRegisterCity, draft.State.Step)
}

func TestRegistrationFlowWithoutDraft(t *testing.T) {
	env := newTestEnv()

	_, err := env.merchant.AdvanceRegistration(42, "Coffee Corner")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, utils.GetAppError(err).Code)
}

func TestCodeEntryFlow(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)
	user := env.addUser(1)
	booking, err := env.ledger.JoinDeal(user.ID, deal.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusActivated, booking.Status)

	require.NoError(t, env.merchant.BeginCodeCheck(business))
	assert.Equal(t, models.StepCheckingCode, business.State.Step)

	// Free text that is clearly not a code is rejected up front and the
	// flow stays open.
	_, err = env.merchant.SubmitCodeEntry(business, "hello there")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, utils.GetAppError(err).Code)
	assert.Equal(t, models.StepCheckingCode, business.State.Step)

	found, err := env.merchant.SubmitCodeEntry(business, booking.Code)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, found.ID)
	assert.False(t, business.State.InFlow())

	stored, _ := env.businesses.GetByID(business.ID)
	assert.False(t, stored.State.InFlow())
}

func TestCodeEntryWithoutFlow(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()

	_, err := env.merchant.SubmitCodeEntry(business, "LOVY-0001")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, utils.GetAppError(err).Code)
}

func TestDealDraftFlowPublishes(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()

	require.NoError(t, env.merchant.BeginDealDraft(business))
	assert.Equal(t, models.StepDealTitle, business.State.Step)

	_, err := env.merchant.AdvanceDealDraft(business, models.DealDraft{Title: "Morning coffee special"})
	require.NoError(t, err)
	_, err = env.merchant.AdvanceDealDraft(business, models.DealDraft{OriginalPrice: 500, DiscountPrice: 300})
	require.NoError(t, err)
	_, err = env.merchant.AdvanceDealDraft(business, models.DealDraft{MinPeople: 10})
	require.NoError(t, err)
	state, err := env.merchant.AdvanceDealDraft(business, models.DealDraft{DurationDays: 7})
	require.NoError(t, err)
	assert.Equal(t, models.StepDealConfirm, state.Step)

	deal, err := env.merchant.PublishDealDraft(business)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusCollecting, deal.Status)
	assert.Equal(t, "Morning coffee special", deal.Title)
	assert.Equal(t, 10, deal.MinPeople)
	assert.False(t, business.State.InFlow())
}

func TestBeginDealDraftDeniedForUntrustworthy(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	business.TrustScore = 10
	require.NoError(t, env.businesses.Update(business))

	err := env.merchant.BeginDealDraft(business)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, utils.GetAppError(err).Code)
}
