package services

import (
	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// Trust score penalties per complaint type.
const (
	penaltyNotServed  = 15
	penaltyWrongPrice = 10
	penaltyBadService = 5
	penaltyFraud      = 30
	penaltyDefault    = 10
)

// Risk flag names surfaced to admins.
const (
	FlagLowTrustScore       = "low_trust_score"
	FlagMultipleComplaints  = "multiple_complaints"
	FlagLowConfirmationRate = "low_confirmation_rate"
)

// Signal thresholds.
const (
	lowTrustThreshold       = 50
	trustworthyMinScore     = 30
	complaintFlagCount      = 3
	confirmationRateFloor   = 0.5
	confirmationSampleFloor = 10
	baseDealLimit           = 20
	boostRatingThreshold    = 4.5
	boostReviewThreshold    = 10
)

// TrustSignal is the derived risk picture for one business.
type TrustSignal struct {
	BusinessID     uint     `json:"business_id"`
	BusinessName   string   `json:"business_name"`
	TrustScore     int      `json:"trust_score"`
	OpenComplaints int64    `json:"open_complaints"`
	CodesUsed      int      `json:"codes_used"`
	CodesConfirmed int      `json:"codes_confirmed"`
	Flags          []string `json:"flags"`
	HighRisk       bool     `json:"high_risk"`
	Trustworthy    bool     `json:"trustworthy"`
	DealLimit      int      `json:"deal_limit"`
}

// AntifraudService derives per-business risk signals from complaints and
// redemption confirmation ratios, and gates how many deals a business may
// run.
type AntifraudService struct {
	businesses repository.BusinessRepository
	complaints repository.ComplaintRepository
	reports    repository.ReportRepository
}

// NewAntifraudService wires the trust scoring component.
func NewAntifraudService(
	businesses repository.BusinessRepository,
	complaints repository.ComplaintRepository,
	reports repository.ReportRepository,
) *AntifraudService {
	return &AntifraudService{businesses: businesses, complaints: complaints, reports: reports}
}

// ComplaintPenalty returns the trust score deduction for a complaint type.
func ComplaintPenalty(complaintType string) int {
	switch complaintType {
	case models.ComplaintNotServed:
		return penaltyNotServed
	case models.ComplaintWrongPrice:
		return penaltyWrongPrice
	case models.ComplaintBadService:
		return penaltyBadService
	case models.ComplaintFraud:
		return penaltyFraud
	}
	return penaltyDefault
}

// ApplyComplaintPenalty lowers the business trust score for a resolved
// complaint. The score is clamped to 0..100 at the storage layer.
func (s *AntifraudService) ApplyComplaintPenalty(businessID uint, complaintType string) error {
	penalty := ComplaintPenalty(complaintType)
	if err := s.businesses.AdjustTrustScore(businessID, -penalty); err != nil {
		return utils.InternalError("Failed to adjust trust score", err)
	}
	utils.LogInfo("Business %d trust score lowered by %d for %s complaint", businessID, penalty, complaintType)
	return nil
}

// FileComplaint records a customer complaint against a business. The
// trust score penalty is applied when an admin resolves the complaint,
// not at filing time.
func (s *AntifraudService) FileComplaint(businessID, bookingID, userID uint, complaintType, comment string) (*models.Complaint, error) {
	switch complaintType {
	case models.ComplaintNotServed, models.ComplaintWrongPrice, models.ComplaintBadService, models.ComplaintFraud:
	default:
		return nil, utils.BadRequestError("Unknown complaint type", nil)
	}
	complaint := &models.Complaint{
		BusinessID: businessID,
		BookingID:  bookingID,
		UserID:     userID,
		Type:       complaintType,
		Comment:    utils.SanitizeString(comment),
		Status:     models.ComplaintStatusOpen,
	}
	if err := s.complaints.Create(complaint); err != nil {
		return nil, utils.InternalError("Failed to file complaint", err)
	}
	utils.LogInfo("Complaint %d filed against business %d: %s", complaint.ID, businessID, complaintType)
	return complaint, nil
}

// ResolveComplaint closes an open complaint and applies its trust score
// penalty to the business.
func (s *AntifraudService) ResolveComplaint(complaintID uint) (*models.Complaint, error) {
	complaint, err := s.complaints.GetByID(complaintID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Complaint not found", err)
		}
		return nil, utils.InternalError("Failed to load complaint", err)
	}
	if complaint.Status != models.ComplaintStatusOpen {
		return nil, utils.ConflictError("Complaint is already resolved", nil)
	}
	if err := s.complaints.Resolve(complaintID); err != nil {
		return nil, utils.InternalError("Failed to resolve complaint", err)
	}
	if err := s.ApplyComplaintPenalty(complaint.BusinessID, complaint.Type); err != nil {
		return nil, err
	}
	complaint.Status = models.ComplaintStatusResolved
	return complaint, nil
}

// ListOpenComplaints returns all complaints awaiting an admin decision.
func (s *AntifraudService) ListOpenComplaints() ([]models.Complaint, error) {
	complaints, err := s.complaints.ListOpen()
	if err != nil {
		return nil, utils.InternalError("Failed to load complaints", err)
	}
	return complaints, nil
}

// AnalyzeBusiness computes the full trust signal for one business.
func (s *AntifraudService) AnalyzeBusiness(businessID uint) (*TrustSignal, error) {
	business, err := s.businesses.GetByID(businessID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Business not found", err)
		}
		return nil, utils.InternalError("Failed to load business", err)
	}
	return s.analyze(business)
}

func (s *AntifraudService) analyze(business *models.Business) (*TrustSignal, error) {
	openComplaints, err := s.complaints.CountOpenByBusiness(business.ID)
	if err != nil {
		return nil, utils.InternalError("Failed to count complaints", err)
	}
	reports, err := s.reports.ListByBusiness(business.ID)
	if err != nil {
		return nil, utils.InternalError("Failed to load reports", err)
	}
	var used, confirmed int
	for _, report := range reports {
		used += report.CodesUsed
		confirmed += report.CodesConfirmed
	}

	signal := &TrustSignal{
		BusinessID:     business.ID,
		BusinessName:   business.Name,
		TrustScore:     business.TrustScore,
		OpenComplaints: openComplaints,
		CodesUsed:      used,
		CodesConfirmed: confirmed,
	}
	if business.TrustScore < lowTrustThreshold {
		signal.Flags = append(signal.Flags, FlagLowTrustScore)
	}
	if openComplaints >= complaintFlagCount {
		signal.Flags = append(signal.Flags, FlagMultipleComplaints)
	}
	if used > confirmationSampleFloor && float64(confirmed)/float64(used) < confirmationRateFloor {
		signal.Flags = append(signal.Flags, FlagLowConfirmationRate)
	}
	signal.HighRisk = len(signal.Flags) >= 2
	signal.Trustworthy = !signal.HighRisk && business.TrustScore >= trustworthyMinScore
	signal.DealLimit = DealLimit(business)
	return signal, nil
}

// AnalyzePatterns scans all active businesses and returns those flagged
// high risk, for the admin suspicious-businesses view.
func (s *AntifraudService) AnalyzePatterns() ([]TrustSignal, error) {
	businesses, err := s.businesses.ListActive()
	if err != nil {
		return nil, utils.InternalError("Failed to load businesses", err)
	}
	var suspicious []TrustSignal
	for i := range businesses {
		signal, err := s.analyze(&businesses[i])
		if err != nil {
			utils.LogError("antifraud: analyze business %d: %v", businesses[i].ID, err)
			continue
		}
		if signal.HighRisk {
			suspicious = append(suspicious, *signal)
		}
	}
	return suspicious, nil
}

// IsTrustworthy reports whether a business may keep publishing deals.
func (s *AntifraudService) IsTrustworthy(businessID uint) (bool, error) {
	signal, err := s.AnalyzeBusiness(businessID)
	if err != nil {
		return false, err
	}
	return signal.Trustworthy, nil
}

// DealLimit is how many concurrent deals a business may run. Verification
// doubles the base limit outright; otherwise a strong rating with enough
// reviews grants a smaller boost.
func DealLimit(business *models.Business) int {
	if business.IsVerified {
		return baseDealLimit * 2
	}
	if business.Rating >= boostRatingThreshold && business.ReviewCount >= boostReviewThreshold {
		return baseDealLimit * 3 / 2
	}
	return baseDealLimit
}
