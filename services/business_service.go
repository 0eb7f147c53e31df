package services

import (
	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// BusinessService drives the merchant-side flows: multi-step registration,
// switching the current business and the multi-step deal draft. Each flow
// is a small state machine persisted in the business (or chat) conversation
// state, so a flow survives process restarts and resumes where it left off.
type BusinessService struct {
	businesses repository.BusinessRepository
	catalog    repository.CatalogRepository
	deals      repository.DealRepository
	engine     *DealService
	ledger     *BookingService
	antifraud  *AntifraudService
}

// NewBusinessService wires the merchant flows.
func NewBusinessService(
	businesses repository.BusinessRepository,
	catalog repository.CatalogRepository,
	deals repository.DealRepository,
	engine *DealService,
	ledger *BookingService,
	antifraud *AntifraudService,
) *BusinessService {
	return &BusinessService{
		businesses: businesses,
		catalog:    catalog,
		deals:      deals,
		engine:     engine,
		ledger:     ledger,
		antifraud:  antifraud,
	}
}

// Register creates a business in one call when all attributes are already
// collected (the HTTP surface collects the steps client-side; the draft
// steps below exist for conversational clients).
func (s *BusinessService) Register(chatID int64, name, citySlug, categorySlug, address, phone, email string) (*models.Business, error) {
	if err := utils.ValidateStringLength(name, utils.MinTitleLength, utils.MaxTitleLength); err != nil {
		return nil, utils.BadRequestError(err.Error(), err)
	}
	city, err := s.catalog.GetCityBySlug(citySlug)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Unknown city", err)
		}
		return nil, utils.InternalError("Failed to load city", err)
	}
	category, err := s.catalog.GetCategoryBySlug(categorySlug)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Unknown category", err)
		}
		return nil, utils.InternalError("Failed to load category", err)
	}

	business := &models.Business{
		ChatID:     chatID,
		Name:       utils.SanitizeString(name),
		CityID:     city.ID,
		CategoryID: category.ID,
		Address:    utils.SanitizeString(address),
		Phone:      phone,
		Email:      email,
		IsActive:   true,
	}
	if err := s.businesses.Create(business); err != nil {
		return nil, utils.InternalError("Failed to register business", err)
	}
	// The newest business becomes the current one for this chat.
	if err := s.businesses.SetCurrent(chatID, business.ID); err != nil {
		utils.LogError("business service: set current after register: %v", err)
	}
	utils.LogInfo("Business %d registered by chat %d: %s", business.ID, chatID, business.Name)
	return business, nil
}

// BeginRegistration opens the step-by-step registration flow for
// conversational clients. The draft lives in an inactive, non-current
// business row — GetCurrentByChatID never returns it, so an unfinished
// registration does not show up as a real business.
func (s *BusinessService) BeginRegistration(chatID int64) (*models.Business, error) {
	if draft, err := s.RegistrationDraft(chatID); err == nil {
		return draft, nil
	}

	business := &models.Business{
		ChatID:    chatID,
		IsActive:  false,
		IsCurrent: false,
		State: models.ConversationState{
			Step:     models.StepRegisterName,
			Business: &models.BusinessDraft{},
		},
	}
	if err := s.businesses.Create(business); err != nil {
		return nil, utils.InternalError("Failed to start registration", err)
	}
	return business, nil
}

// RegistrationDraft finds the in-progress registration for a chat, if any.
func (s *BusinessService) RegistrationDraft(chatID int64) (*models.Business, error) {
	businesses, err := s.businesses.ListByChatID(chatID)
	if err != nil {
		return nil, utils.InternalError("Failed to load businesses", err)
	}
	for i := range businesses {
		if businesses[i].State.Business != nil {
			return &businesses[i], nil
		}
	}
	return nil, utils.NotFoundError("No registration in progress", nil)
}

// AdvanceRegistration feeds one answer into the registration flow. On the
// final step the draft is promoted to an active business and selected as
// current.
func (s *BusinessService) AdvanceRegistration(chatID int64, value string) (*models.Business, error) {
	business, err := s.RegistrationDraft(chatID)
	if err != nil {
		return nil, err
	}
	state := business.State
	draft := state.Business

	switch state.Step {
	case models.StepRegisterName:
		if err := utils.ValidateStringLength(value, utils.MinTitleLength, utils.MaxTitleLength); err != nil {
			return nil, utils.BadRequestError(err.Error(), err)
		}
		draft.Name = utils.SanitizeString(value)
		state.Step = models.StepRegisterCity

	case models.StepRegisterCity:
		city, err := s.catalog.GetCityBySlug(value)
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, utils.NotFoundError("Unknown city", err)
			}
			return nil, utils.InternalError("Failed to load city", err)
		}
		draft.CityID = city.ID
		state.Step = models.StepRegisterCategory

	case models.StepRegisterCategory:
		category, err := s.catalog.GetCategoryBySlug(value)
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, utils.NotFoundError("Unknown category", err)
			}
			return nil, utils.InternalError("Failed to load category", err)
		}
		draft.CategoryID = category.ID
		state.Step = models.StepRegisterAddress

	case models.StepRegisterAddress:
		draft.Address = utils.SanitizeString(value)
		state.Step = models.StepRegisterPhone

	case models.StepRegisterPhone:
		draft.Phone = value
		return s.finishRegistration(business, draft)

	default:
		return nil, utils.ConflictError("No registration in progress", nil)
	}

	if err := s.businesses.UpdateState(business.ID, state); err != nil {
		return nil, utils.InternalError("Failed to save registration", err)
	}
	business.State = state
	return business, nil
}

func (s *BusinessService) finishRegistration(business *models.Business, draft *models.BusinessDraft) (*models.Business, error) {
	business.Name = draft.Name
	business.CityID = draft.CityID
	business.CategoryID = draft.CategoryID
	business.Address = draft.Address
	business.Phone = draft.Phone
	business.IsActive = true
	business.State.Reset()
	if err := s.businesses.Update(business); err != nil {
		return nil, utils.InternalError("Failed to finish registration", err)
	}
	if err := s.businesses.SetCurrent(business.ChatID, business.ID); err != nil {
		utils.LogError("business service: set current after register: %v", err)
	}
	utils.LogInfo("Business %d registered by chat %d: %s", business.ID, business.ChatID, business.Name)
	return business, nil
}

// Current returns the currently selected business for a chat identity.
func (s *BusinessService) Current(chatID int64) (*models.Business, error) {
	business, err := s.businesses.GetCurrentByChatID(chatID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("No business registered for this account", err)
		}
		return nil, utils.InternalError("Failed to load business", err)
	}
	return business, nil
}

// List returns every business owned by a chat identity.
func (s *BusinessService) List(chatID int64) ([]models.Business, error) {
	businesses, err := s.businesses.ListByChatID(chatID)
	if err != nil {
		return nil, utils.InternalError("Failed to load businesses", err)
	}
	return businesses, nil
}

// SelectCurrent switches which of the owner's businesses is active.
func (s *BusinessService) SelectCurrent(chatID int64, businessID uint) (*models.Business, error) {
	if err := s.businesses.SetCurrent(chatID, businessID); err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Business not found", err)
		}
		return nil, utils.InternalError("Failed to switch business", err)
	}
	return s.businesses.GetByID(businessID)
}

// BeginDealDraft opens the deal creation flow for the current business.
// A trust-gated business cannot start one, and the concurrent deal limit
// applies.
func (s *BusinessService) BeginDealDraft(business *models.Business) error {
	signal, err := s.antifraud.AnalyzeBusiness(business.ID)
	if err != nil {
		return err
	}
	if !signal.Trustworthy {
		return utils.ForbiddenError("Deal creation is suspended for this business", nil)
	}
	deals, err := s.deals.GetByBusiness(business.ID)
	if err != nil {
		return utils.InternalError("Failed to load deals", err)
	}
	open := 0
	for _, deal := range deals {
		if !deal.IsTerminal() {
			open++
		}
	}
	if open >= signal.DealLimit {
		return utils.ConflictError("Deal limit reached for this business", nil)
	}

	business.State = models.ConversationState{
		Step: models.StepDealTitle,
		Deal: &models.DealDraft{},
	}
	if err := s.businesses.UpdateState(business.ID, business.State); err != nil {
		return utils.InternalError("Failed to start deal draft", err)
	}
	return nil
}

// AdvanceDealDraft feeds one answer into the deal creation flow and moves
// it to the next step. Returns the updated state so the caller knows what
// to ask next.
func (s *BusinessService) AdvanceDealDraft(business *models.Business, input models.DealDraft) (*models.ConversationState, error) {
	state := business.State
	if state.Deal == nil {
		return nil, utils.ConflictError("No deal draft in progress", nil)
	}

	switch state.Step {
	case models.StepDealTitle:
		if err := utils.ValidateStringLength(input.Title, utils.MinTitleLength, utils.MaxTitleLength); err != nil {
			return nil, utils.BadRequestError(err.Error(), err)
		}
		state.Deal.Title = utils.SanitizeString(input.Title)
		state.Step = models.StepDealPrices

	case models.StepDealPrices:
		if err := utils.ValidateDealPrices(input.OriginalPrice, input.DiscountPrice); err != nil {
			return nil, utils.BadRequestError(err.Error(), err)
		}
		state.Deal.OriginalPrice = input.OriginalPrice
		state.Deal.DiscountPrice = input.DiscountPrice
		state.Step = models.StepDealMinPeople

	case models.StepDealMinPeople:
		if err := utils.ValidateMinPeople(input.MinPeople); err != nil {
			return nil, utils.BadRequestError(err.Error(), err)
		}
		state.Deal.MinPeople = input.MinPeople
		state.Step = models.StepDealDuration

	case models.StepDealDuration:
		if input.DurationDays < 1 {
			return nil, utils.BadRequestError("Collection period must be at least 1 day", nil)
		}
		state.Deal.DurationDays = input.DurationDays
		state.Step = models.StepDealConfirm

	default:
		return nil, utils.ConflictError("No deal draft in progress", nil)
	}

	if err := s.businesses.UpdateState(business.ID, state); err != nil {
		return nil, utils.InternalError("Failed to save deal draft", err)
	}
	business.State = state
	return &state, nil
}

// PublishDealDraft turns a confirmed draft into a live collecting deal and
// clears the flow state.
func (s *BusinessService) PublishDealDraft(business *models.Business) (*models.Deal, error) {
	state := business.State
	if state.Step != models.StepDealConfirm || state.Deal == nil {
		return nil, utils.ConflictError("Deal draft is not ready to publish", nil)
	}
	draft := state.Deal

	deal, err := s.engine.CreateDeal(business.ID, draft.Title,
		draft.OriginalPrice, draft.DiscountPrice, draft.MinPeople, draft.DurationDays, 0)
	if err != nil {
		return nil, err
	}

	state.Reset()
	if err := s.businesses.UpdateState(business.ID, state); err != nil {
		utils.LogError("business service: clear draft state for business %d: %v", business.ID, err)
	}
	business.State = state
	return deal, nil
}

// BeginCodeCheck opens the code redemption flow: the next text the
// merchant sends is treated as a customer code.
func (s *BusinessService) BeginCodeCheck(business *models.Business) error {
	business.State = models.ConversationState{Step: models.StepCheckingCode}
	if err := s.businesses.UpdateState(business.ID, business.State); err != nil {
		return utils.InternalError("Failed to start code check", err)
	}
	return nil
}

// SubmitCodeEntry redeems the code the merchant typed. Text that does not
// even resemble a code is rejected up front so a stray message cannot burn
// the flow on a useless lookup.
func (s *BusinessService) SubmitCodeEntry(business *models.Business, text string) (*models.Booking, error) {
	if business.State.Step != models.StepCheckingCode {
		return nil, utils.ConflictError("No code check in progress", nil)
	}
	if !s.ledger.LooksLikeCode(text) {
		return nil, utils.BadRequestError("That does not look like a code", nil)
	}

	booking, err := s.ledger.Redeem(text, business.ID)
	if err != nil {
		return nil, err
	}
	business.State.Reset()
	if err := s.businesses.UpdateState(business.ID, business.State); err != nil {
		utils.LogError("business service: clear code check state for business %d: %v", business.ID, err)
	}
	return booking, nil
}

// CancelFlow abandons whatever flow is in progress.
func (s *BusinessService) CancelFlow(business *models.Business) error {
	if !business.State.InFlow() {
		return nil
	}
	business.State.Reset()
	if err := s.businesses.UpdateState(business.ID, business.State); err != nil {
		return utils.InternalError("Failed to cancel flow", err)
	}
	return nil
}
