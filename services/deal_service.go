package services

import (
	"fmt"
	"math"

	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// reportDueDays is how long a business has to settle a commission report.
const reportDueDays = 7

// DealService is the sole authority for deal status transitions and the
// side effects they imply. All transitions are guarded by the deal's
// current status at the storage layer, so concurrent invocations (a join
// racing a scheduler sweep) collapse into one winner.
type DealService struct {
	deals          repository.DealRepository
	bookings       repository.BookingRepository
	reports        repository.ReportRepository
	businesses     repository.BusinessRepository
	notifier       Notifier
	mailer         ReportMailer
	clock          Clock
	commissionRate float64
}

// NewDealService wires the lifecycle engine. mailer may be nil when report
// email delivery is not configured.
func NewDealService(
	deals repository.DealRepository,
	bookings repository.BookingRepository,
	reports repository.ReportRepository,
	businesses repository.BusinessRepository,
	notifier Notifier,
	mailer ReportMailer,
	clock Clock,
	commissionRate float64,
) *DealService {
	return &DealService{
		deals:          deals,
		bookings:       bookings,
		reports:        reports,
		businesses:     businesses,
		notifier:       notifier,
		mailer:         mailer,
		clock:          clock,
		commissionRate: commissionRate,
	}
}

// CreateDeal validates and persists a new deal in `collecting`.
func (s *DealService) CreateDeal(businessID uint, title string, originalPrice, discountPrice float64, minPeople, durationDays, validityDays int) (*models.Deal, error) {
	if err := utils.ValidateStringLength(title, utils.MinTitleLength, utils.MaxTitleLength); err != nil {
		return nil, utils.BadRequestError(err.Error(), err)
	}
	if err := utils.ValidateDealPrices(originalPrice, discountPrice); err != nil {
		return nil, utils.BadRequestError(err.Error(), err)
	}
	if err := utils.ValidateMinPeople(minPeople); err != nil {
		return nil, utils.BadRequestError(err.Error(), err)
	}
	if durationDays < 1 {
		return nil, utils.BadRequestError("Collection period must be at least 1 day", nil)
	}

	deal := &models.Deal{
		BusinessID:    businessID,
		Title:         utils.SanitizeString(title),
		OriginalPrice: originalPrice,
		DiscountPrice: discountPrice,
		MinPeople:     minPeople,
		ValidityDays:  validityDays,
		Status:        models.DealStatusCollecting,
		ExpiresAt:     s.clock.Now().AddDate(0, 0, durationDays),
	}
	if err := s.deals.Create(deal); err != nil {
		utils.LogError("deal service: create deal for business %d: %v", businessID, err)
		return nil, utils.InternalError("Failed to create deal", err)
	}
	utils.LogInfo("Deal %d created by business %d: %s", deal.ID, businessID, deal.Title)
	return deal, nil
}

// GetDeal returns a deal by ID.
func (s *DealService) GetDeal(id uint) (*models.Deal, error) {
	deal, err := s.deals.GetByID(id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Deal not found", err)
		}
		return nil, utils.InternalError("Failed to load deal", err)
	}
	return deal, nil
}

// ActivateDeal transitions a collecting deal to activated, bulk-activates
// its pending bookings and notifies everyone involved. Calling it on a
// deal that already left `collecting` is a no-op, so the join path and
// the scheduler sweep can both invoke it safely.
func (s *DealService) ActivateDeal(dealID uint) error {
	ok, err := s.deals.TransitionStatus(dealID, models.DealStatusCollecting, models.DealStatusActivated, s.clock.Now())
	if err != nil {
		return fmt.Errorf("activate deal %d: %w", dealID, err)
	}
	if !ok {
		// Lost the race or already terminal. Nothing to do.
		return nil
	}

	activated, err := s.bookings.ActivateForDeal(dealID)
	if err != nil {
		return fmt.Errorf("activate bookings for deal %d: %w", dealID, err)
	}

	deal, err := s.deals.GetByID(dealID)
	if err != nil {
		return fmt.Errorf("reload deal %d after activation: %w", dealID, err)
	}
	utils.LogInfo("Deal %d activated with %d participants", dealID, deal.CurrentPeople)

	s.notifier.NotifyCustomersAboutActivation(deal, activated)
	s.notifier.NotifyBusinessAboutActivation(deal, deal.CurrentPeople)
	return nil
}

// CheckAndActivateDeals is the scheduler's safety net: it activates every
// collecting deal that already reached its threshold. A failure on one
// deal never aborts the sweep.
func (s *DealService) CheckAndActivateDeals() {
	deals, err := s.deals.ListCollectingAboveThreshold()
	if err != nil {
		utils.LogError("deal service: activation sweep query: %v", err)
		return
	}
	for _, deal := range deals {
		if err := s.ActivateDeal(deal.ID); err != nil {
			utils.LogError("deal service: activation sweep deal %d: %v", deal.ID, err)
		}
	}
}

// ExpireDeal applies the deadline policy to a single non-terminal deal:
//   - activated deals past deadline complete (commission is reconciled);
//   - collecting deals that reached threshold activate then complete,
//     covering the case where the deadline sweep outran activation;
//   - collecting deals short of threshold cancel, cascading to bookings.
func (s *DealService) ExpireDeal(deal *models.Deal) error {
	switch deal.Status {
	case models.DealStatusActivated:
		return s.completeActivated(deal.ID)

	case models.DealStatusCollecting:
		if deal.CurrentPeople >= deal.MinPeople {
			if err := s.ActivateDeal(deal.ID); err != nil {
				return err
			}
			return s.completeActivated(deal.ID)
		}
		ok, err := s.deals.TransitionStatus(deal.ID, models.DealStatusCollecting, models.DealStatusCancelled, s.clock.Now())
		if err != nil {
			return fmt.Errorf("cancel deal %d: %w", deal.ID, err)
		}
		if !ok {
			return nil
		}
		if err := s.bookings.CancelForDeal(deal.ID); err != nil {
			return fmt.Errorf("cascade cancel bookings for deal %d: %w", deal.ID, err)
		}
		utils.LogInfo("Deal %d cancelled at deadline with %d/%d participants", deal.ID, deal.CurrentPeople, deal.MinPeople)
		return nil
	}
	return nil
}

// CheckExpiredDeals finds deals past their collection deadline that are
// still non-terminal and applies ExpireDeal to each, isolating failures.
func (s *DealService) CheckExpiredDeals() {
	deals, err := s.deals.ListPastDeadlineNonTerminal(s.clock.Now())
	if err != nil {
		utils.LogError("deal service: expiry sweep query: %v", err)
		return
	}
	for i := range deals {
		if err := s.ExpireDeal(&deals[i]); err != nil {
			utils.LogError("deal service: expiry sweep deal %d: %v", deals[i].ID, err)
		}
	}
}

// CompleteDeal is the explicit early completion a business can trigger.
// Unlike the deadline path it completes regardless of participant count.
// Completing an already-terminal deal is a conflict, not a silent no-op.
func (s *DealService) CompleteDeal(dealID uint) (*models.Deal, error) {
	deal, err := s.GetDeal(dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status == models.DealStatusCompleted {
		return nil, utils.ConflictError("Deal is already completed", nil)
	}
	if deal.Status == models.DealStatusCancelled {
		return nil, utils.ConflictError("Deal is cancelled and cannot be completed", nil)
	}

	ok, err := s.deals.TransitionStatus(dealID, deal.Status, models.DealStatusCompleted, s.clock.Now())
	if err != nil {
		return nil, utils.InternalError("Failed to complete deal", err)
	}
	if !ok {
		return nil, utils.ConflictError("Deal is already completed", nil)
	}
	utils.LogInfo("Deal %d completed manually", dealID)

	if err := s.GenerateReport(dealID); err != nil {
		utils.LogError("deal service: report for deal %d: %v", dealID, err)
	}
	return s.GetDeal(dealID)
}

// CheckAndCompleteDeal auto-completes an activated deal once every live
// booking has been redeemed. Invoked after each business confirmation so
// fully-redeemed deals close without waiting for the deadline sweep.
func (s *DealService) CheckAndCompleteDeal(dealID uint) error {
	deal, err := s.deals.GetByID(dealID)
	if err != nil {
		return fmt.Errorf("load deal %d: %w", dealID, err)
	}
	if deal.Status != models.DealStatusActivated {
		return nil
	}

	bookings, err := s.bookings.ListByDeal(dealID)
	if err != nil {
		return fmt.Errorf("list bookings for deal %d: %w", dealID, err)
	}
	live := 0
	for _, booking := range bookings {
		switch booking.Status {
		case models.BookingStatusCancelled, models.BookingStatusExpired:
			continue
		}
		live++
		if !booking.IsRedeemed() {
			return nil
		}
	}
	if live == 0 {
		return nil
	}

	ok, err := s.deals.TransitionStatus(dealID, models.DealStatusActivated, models.DealStatusCompleted, s.clock.Now())
	if err != nil {
		return fmt.Errorf("complete deal %d: %w", dealID, err)
	}
	if !ok {
		return nil
	}
	utils.LogInfo("Deal %d auto-completed, all %d codes redeemed", dealID, live)
	return s.GenerateReport(dealID)
}

// completeActivated closes an activated deal and reconciles its report.
func (s *DealService) completeActivated(dealID uint) error {
	ok, err := s.deals.TransitionStatus(dealID, models.DealStatusActivated, models.DealStatusCompleted, s.clock.Now())
	if err != nil {
		return fmt.Errorf("complete deal %d: %w", dealID, err)
	}
	if !ok {
		return nil
	}
	utils.LogInfo("Deal %d completed at deadline", dealID)
	return s.GenerateReport(dealID)
}

// GenerateReport recomputes the commission report for a deal from its
// bookings and upserts it. The commission rate is snapshotted on first
// creation; recomputation reuses the stored rate so later rate changes
// never rewrite history. Safe to retry: every field is derived from
// scratch, nothing is incrementally applied.
func (s *DealService) GenerateReport(dealID uint) error {
	deal, err := s.deals.GetByID(dealID)
	if err != nil {
		return fmt.Errorf("load deal %d: %w", dealID, err)
	}
	bookings, err := s.bookings.ListByDeal(dealID)
	if err != nil {
		return fmt.Errorf("list bookings for deal %d: %w", dealID, err)
	}

	var total, used, confirmed int
	for _, booking := range bookings {
		if booking.Status == models.BookingStatusCancelled {
			continue
		}
		total++
		if booking.IsRedeemed() {
			used++
		}
		if booking.Status == models.BookingStatusConfirmed {
			confirmed++
		}
	}

	rate := s.commissionRate
	if existing, err := s.reports.GetByDeal(dealID); err == nil {
		rate = existing.CommissionRate
	} else if err != repository.ErrNotFound {
		return fmt.Errorf("load report for deal %d: %w", dealID, err)
	}

	revenue := float64(used) * deal.DiscountPrice
	report := &models.BusinessReport{
		BusinessID:     deal.BusinessID,
		DealID:         dealID,
		TotalBookings:  total,
		CodesUsed:      used,
		CodesConfirmed: confirmed,
		Revenue:        revenue,
		Commission:     math.Round(revenue * rate),
		CommissionRate: rate,
		DueDate:        s.clock.Now().AddDate(0, 0, reportDueDays),
	}
	if err := s.reports.Upsert(report); err != nil {
		return fmt.Errorf("upsert report for deal %d: %w", dealID, err)
	}
	utils.LogInfo("Report for deal %d: %d used, revenue %.2f, commission %.0f",
		dealID, used, revenue, report.Commission)

	s.emailReport(deal, report)
	return nil
}

// emailReport sends the business a copy of its commission report. Delivery
// failure is logged and otherwise ignored.
func (s *DealService) emailReport(deal *models.Deal, report *models.BusinessReport) {
	if s.mailer == nil {
		return
	}
	business, err := s.businesses.GetByID(deal.BusinessID)
	if err != nil {
		utils.LogError("deal service: resolve business %d for report email: %v", deal.BusinessID, err)
		return
	}
	if err := s.mailer.SendDealReport(business, deal, report); err != nil {
		utils.LogError("deal service: report email for deal %d: %v", deal.ID, err)
	}
}

// ListActiveDeals returns joinable or redeemable deals for browsing.
func (s *DealService) ListActiveDeals(cityID uint, categorySlug string, limit int) ([]models.Deal, error) {
	deals, err := s.deals.ListActive(cityID, categorySlug, limit)
	if err != nil {
		return nil, utils.InternalError("Failed to load deals", err)
	}
	return deals, nil
}

// ListHotDeals returns collecting deals closest to activation.
func (s *DealService) ListHotDeals(cityID uint, limit int) ([]models.Deal, error) {
	deals, err := s.deals.ListHot(cityID, limit)
	if err != nil {
		return nil, utils.InternalError("Failed to load deals", err)
	}
	return deals, nil
}

// ListBusinessDeals returns every deal owned by a business.
func (s *DealService) ListBusinessDeals(businessID uint) ([]models.Deal, error) {
	deals, err := s.deals.GetByBusiness(businessID)
	if err != nil {
		return nil, utils.InternalError("Failed to load deals", err)
	}
	return deals, nil
}

// DaysLeft is a display helper for the collection countdown.
func (s *DealService) DaysLeft(deal *models.Deal) int {
	left := int(deal.ExpiresAt.Sub(s.clock.Now()).Hours() / 24)
	if left < 0 {
		return 0
	}
	return left
}
