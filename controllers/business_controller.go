package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/lovihub/lovi-backend/middleware"
	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/services"
	"github.com/lovihub/lovi-backend/utils"
)

// BusinessController serves the merchant side: registration, business
// switching, deal drafting and publishing, code redemption and deal
// completion.
type BusinessController struct {
	businesses *services.BusinessService
	bookings   *services.BookingService
	deals      *services.DealService
}

// NewBusinessController wires the merchant endpoints.
func NewBusinessController(businesses *services.BusinessService, bookings *services.BookingService, deals *services.DealService) *BusinessController {
	return &BusinessController{businesses: businesses, bookings: bookings, deals: deals}
}

func currentBusiness(c *gin.Context) (*models.Business, bool) {
	value, exists := c.Get(middleware.ContextBusinessKey)
	if !exists {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return nil, false
	}
	business, ok := value.(*models.Business)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return nil, false
	}
	return business, true
}

type registerBusinessRequest struct {
	Name     string `json:"name" binding:"required"`
	City     string `json:"city" binding:"required"`
	Category string `json:"category" binding:"required"`
	Address  string `json:"address" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email"`
}

// Register creates a new business owned by the authenticated chat.
func (ctrl *BusinessController) Register(c *gin.Context) {
	chatID := c.GetInt64("chat_id")
	var req registerBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	business, err := ctrl.businesses.Register(chatID, req.Name, req.City, req.Category, req.Address, req.Phone, req.Email)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Created(c, "Business registered", gin.H{"business": business})
}

// BeginRegistration opens (or resumes) the step-by-step registration flow.
func (ctrl *BusinessController) BeginRegistration(c *gin.Context) {
	chatID := c.GetInt64("chat_id")
	draft, err := ctrl.businesses.BeginRegistration(chatID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Created(c, "Registration started", gin.H{"step": draft.State.Step})
}

type advanceRegistrationRequest struct {
	Value string `json:"value" binding:"required"`
}

// AdvanceRegistration feeds one answer into the registration flow.
func (ctrl *BusinessController) AdvanceRegistration(c *gin.Context) {
	chatID := c.GetInt64("chat_id")
	var req advanceRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	business, err := ctrl.businesses.AdvanceRegistration(chatID, req.Value)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	if business.IsActive {
		utils.Created(c, "Business registered", gin.H{"business": business})
		return
	}
	utils.Success(c, "Registration updated", gin.H{"step": business.State.Step})
}

// My returns all businesses owned by the chat.
func (ctrl *BusinessController) My(c *gin.Context) {
	chatID := c.GetInt64("chat_id")
	businesses, err := ctrl.businesses.List(chatID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Businesses retrieved", gin.H{"businesses": businesses})
}

// Select switches the chat's current business.
func (ctrl *BusinessController) Select(c *gin.Context) {
	chatID := c.GetInt64("chat_id")
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	business, err := ctrl.businesses.SelectCurrent(chatID, id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Current business switched", gin.H{"business": business})
}

// BeginDeal opens a new deal draft for the current business.
func (ctrl *BusinessController) BeginDeal(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	if err := ctrl.businesses.BeginDealDraft(business); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Deal draft started", gin.H{"step": business.State.Step})
}

// AdvanceDeal feeds one answer into the active deal draft.
func (ctrl *BusinessController) AdvanceDeal(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	var input models.DealDraft
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	state, err := ctrl.businesses.AdvanceDealDraft(business, input)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Draft updated", gin.H{"step": state.Step, "draft": state.Deal})
}

// PublishDeal turns a confirmed draft into a live deal.
func (ctrl *BusinessController) PublishDeal(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	deal, err := ctrl.businesses.PublishDealDraft(business)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Created(c, "Deal published", gin.H{"deal": deal})
}

// CancelFlow abandons the in-progress draft.
func (ctrl *BusinessController) CancelFlow(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	if err := ctrl.businesses.CancelFlow(business); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Flow cancelled", nil)
}

// Deals returns the current business's deals.
func (ctrl *BusinessController) Deals(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	deals, err := ctrl.deals.ListBusinessDeals(business.ID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Deals retrieved", gin.H{"deals": deals})
}

// CompleteDeal ends a deal early and reconciles its report.
func (ctrl *BusinessController) CompleteDeal(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	deal, err := ctrl.deals.GetDeal(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	if deal.BusinessID != business.ID {
		utils.Forbidden(c, utils.ErrForbidden)
		return
	}

	completed, err := ctrl.deals.CompleteDeal(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Deal completed", gin.H{"deal": completed})
}

type checkCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// CheckCode runs the redemption pipeline on a presented code. Success
// returns the booking for explicit confirmation; nothing is mutated.
func (ctrl *BusinessController) CheckCode(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	var req checkCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	booking, err := ctrl.bookings.Redeem(req.Code, business.ID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Code is valid", gin.H{"booking": booking})
}

// BeginCodeEntry opens the conversational code redemption flow.
func (ctrl *BusinessController) BeginCodeEntry(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	if err := ctrl.businesses.BeginCodeCheck(business); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Send the customer's code", gin.H{"step": business.State.Step})
}

type codeEntryRequest struct {
	Text string `json:"text" binding:"required"`
}

// SubmitCodeEntry redeems the code typed during the code-entry flow.
func (ctrl *BusinessController) SubmitCodeEntry(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	var req codeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	booking, err := ctrl.businesses.SubmitCodeEntry(business, req.Text)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Code is valid", gin.H{"booking": booking})
}

// ConfirmRedemption marks a checked code as used.
func (ctrl *BusinessController) ConfirmRedemption(c *gin.Context) {
	business, ok := currentBusiness(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	booking, err := ctrl.bookings.GetBooking(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	deal, err := ctrl.deals.GetDeal(booking.DealID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	if deal.BusinessID != business.ID {
		utils.Forbidden(c, utils.ErrForbidden)
		return
	}

	updated, err := ctrl.bookings.ConfirmByBusiness(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Code marked as used", gin.H{"booking": updated})
}
