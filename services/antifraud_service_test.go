package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/utils"
)

func TestComplaintPenaltyPerType(t *testing.T) {
	assert.Equal(t, 15, ComplaintPenalty(models.ComplaintNotServed))
	assert.Equal(t, 10, ComplaintPenalty(models.ComplaintWrongPrice))
	assert.Equal(t, 5, ComplaintPenalty(models.ComplaintBadService))
	assert.Equal(t, 30, ComplaintPenalty(models.ComplaintFraud))
	assert.Equal(t, 10, ComplaintPenalty("something_else"))
}

func TestFileComplaintRejectsUnknownType(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()

	_, err := env.antifraud.FileComplaint(business.ID, 1, 1, "rude_waiter", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, utils.GetAppError(err).Code)
}

func TestResolveComplaintAppliesPenalty(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	complaint, err := env.antifraud.FileComplaint(business.ID, 1, 1, models.ComplaintFraud, "never got served")
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusOpen, complaint.Status)

	resolved, err := env.antifraud.ResolveComplaint(complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusResolved, resolved.Status)

	updated, _ := env.businesses.GetByID(business.ID)
	assert.Equal(t, 70, updated.TrustScore)

	// Resolving twice is a conflict, the penalty is applied once.
	_, err = env.antifraud.ResolveComplaint(complaint.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, utils.GetAppError(err).Code)
	updated, _ = env.businesses.GetByID(business.ID)
	assert.Equal(t, 70, updated.TrustScore)
}

func TestTrustScoreClampsAtZero(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()

	for i := 0; i < 5; i++ {
		require.NoError(t, env.antifraud.ApplyComplaintPenalty(business.ID, models.ComplaintFraud))
	}
	updated, _ := env.businesses.GetByID(business.ID)
	assert.Equal(t, 0, updated.TrustScore)
}

func TestAnalyzeBusinessFlags(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()

	signal, err := env.antifraud.AnalyzeBusiness(business.ID)
	require.NoError(t, err)
	assert.Empty(t, signal.Flags)
	assert.False(t, signal.HighRisk)
	assert.True(t, signal.Trustworthy)

	// Three open complaints flag the business.
	for i := 0; i < 3; i++ {
		_, err := env.antifraud.FileComplaint(business.ID, uint(i+1), uint(i+1), models.ComplaintBadService, "")
		require.NoError(t, err)
	}
	signal, err = env.antifraud.AnalyzeBusiness(business.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{FlagMultipleComplaints}, signal.Flags)
	assert.False(t, signal.HighRisk, "one flag alone is not high risk")
	assert.True(t, signal.Trustworthy)

	// A low trust score adds a second flag and tips the business into
	// high risk, which also revokes trustworthiness regardless of score.
	require.NoError(t, env.businesses.AdjustTrustScore(business.ID, -60))
	signal, err = env.antifraud.AnalyzeBusiness(business.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{FlagLowTrustScore, FlagMultipleComplaints}, signal.Flags)
	assert.True(t, signal.HighRisk)
	assert.False(t, signal.Trustworthy)
}

func TestAnalyzeBusinessLowConfirmationRate(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()
	deal := env.addDeal(business.ID, 1)

	// 12 redeemed codes, only 4 confirmed by customers.
	require.NoError(t, env.reports.Upsert(&models.BusinessReport{
		BusinessID:     business.ID,
		DealID:         deal.ID,
		TotalBookings:  12,
		CodesUsed:      12,
		CodesConfirmed: 4,
	}))

	signal, err := env.antifraud.AnalyzeBusiness(business.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{FlagLowConfirmationRate}, signal.Flags)

	// Small samples never trigger the flag.
	require.NoError(t, env.reports.Upsert(&models.BusinessReport{
		BusinessID: business.ID,
		DealID:     deal.ID,
		CodesUsed:  5,
	}))
	signal, err = env.antifraud.AnalyzeBusiness(business.ID)
	require.NoError(t, err)
	assert.Empty(t, signal.Flags)
}

func TestIsTrustworthyRequiresMinimumScore(t *testing.T) {
	env := newTestEnv()
	business := env.addBusiness()

	require.NoError(t, env.businesses.AdjustTrustScore(business.ID, -75))
	ok, err := env.antifraud.IsTrustworthy(business.ID)
	require.NoError(t, err)
	assert.False(t, ok, "score below 30 blocks publishing")

	require.NoError(t, env.businesses.AdjustTrustScore(business.ID, 10))
	ok, err = env.antifraud.IsTrustworthy(business.ID)
	require.NoError(t, err)
	assert.True(t, ok, "score 35 with a single flag is still allowed")
}

func TestAnalyzePatternsReturnsOnlyHighRisk(t *testing.T) {
	env := newTestEnv()
	clean := env.addBusiness()
	risky := &models.Business{ChatID: 2000, Name: "Shady Snacks", IsActive: true, TrustScore: 20}
	require.NoError(t, env.businesses.Create(risky))
	for i := 0; i < 3; i++ {
		_, err := env.antifraud.FileComplaint(risky.ID, uint(i+1), uint(i+1), models.ComplaintNotServed, "")
		require.NoError(t, err)
	}

	suspicious, err := env.antifraud.AnalyzePatterns()
	require.NoError(t, err)
	require.Len(t, suspicious, 1)
	assert.Equal(t, risky.ID, suspicious[0].BusinessID)
	assert.NotEqual(t, clean.ID, suspicious[0].BusinessID)
}

func TestDealLimitTiers(t *testing.T) {
	business := &models.Business{}
	assert.Equal(t, 20, DealLimit(business))

	business.IsVerified = true
	assert.Equal(t, 40, DealLimit(business))

	// Verification already grants the top tier; a good rating on top of it
	// changes nothing.
	business.Rating = 4.6
	business.ReviewCount = 12
	assert.Equal(t, 40, DealLimit(business))

	// The rating boost applies only without verification.
	unverified := &models.Business{Rating: 4.5, ReviewCount: 10}
	assert.Equal(t, 30, DealLimit(unverified))

	// Not enough reviews to trust the rating.
	fresh := &models.Business{Rating: 5.0, ReviewCount: 3}
	assert.Equal(t, 20, DealLimit(fresh))
}
