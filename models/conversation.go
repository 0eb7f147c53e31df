package models

// Conversation steps. Each multi-step bot flow advances through a fixed set
// of steps; the payload for the flow lives in the typed draft field of
// ConversationState, one field per flow.
const (
	StepIdle = ""

	// Business registration flow
	StepRegisterName     = "register_name"
	StepRegisterCity     = "register_city"
	StepRegisterCategory = "register_category"
	StepRegisterAddress  = "register_address"
	StepRegisterPhone    = "register_phone"

	// Deal creation flow
	StepDealTitle     = "deal_title"
	StepDealPrices    = "deal_prices"
	StepDealMinPeople = "deal_min_people"
	StepDealDuration  = "deal_duration"
	StepDealConfirm   = "deal_confirm"

	// Code verification flow (business side)
	StepCheckingCode = "checking_code"

	// Review flow (customer side)
	StepReviewComment = "review_comment"
)

// DealDraft accumulates deal attributes across the creation steps.
type DealDraft struct {
	Title         string  `json:"title,omitempty"`
	OriginalPrice float64 `json:"original_price,omitempty"`
	DiscountPrice float64 `json:"discount_price,omitempty"`
	MinPeople     int     `json:"min_people,omitempty"`
	DurationDays  int     `json:"duration_days,omitempty"`
}

// BusinessDraft accumulates registration attributes.
type BusinessDraft struct {
	Name       string `json:"name,omitempty"`
	CityID     uint   `json:"city_id,omitempty"`
	CategoryID uint   `json:"category_id,omitempty"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// ReviewDraft carries the rating while waiting for an optional comment.
type ReviewDraft struct {
	BookingID uint `json:"booking_id,omitempty"`
	Rating    int  `json:"rating,omitempty"`
}

// ConversationState is the per-actor scratchpad for multi-step flows.
// Step names the active flow step and exactly one draft field is populated
// for that flow; Reset clears everything back to idle.
type ConversationState struct {
	Step     string         `json:"step,omitempty"`
	Deal     *DealDraft     `json:"deal,omitempty"`
	Business *BusinessDraft `json:"business,omitempty"`
	Review   *ReviewDraft   `json:"review,omitempty"`
}

// Reset returns the state to idle and drops all drafts.
func (s *ConversationState) Reset() {
	*s = ConversationState{}
}

// InFlow reports whether a multi-step flow is in progress.
func (s *ConversationState) InFlow() bool {
	return s.Step != StepIdle
}
