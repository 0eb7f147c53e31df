package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lovihub/lovi-backend/middleware"
	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/services"
	"github.com/lovihub/lovi-backend/utils"
)

// DealController serves customer-facing deal browsing and joining.
type DealController struct {
	deals    *services.DealService
	bookings *services.BookingService
}

// NewDealController wires the customer deal endpoints.
func NewDealController(deals *services.DealService, bookings *services.BookingService) *DealController {
	return &DealController{deals: deals, bookings: bookings}
}

func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return nil, false
	}
	return user, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid ID", c.Param(name))
		return 0, false
	}
	return uint(id), true
}

// List returns joinable deals in the customer's city, optionally filtered
// by category slug.
func (ctrl *DealController) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	_, perPage := utils.GetPaginationParams(c)

	deals, err := ctrl.deals.ListActiveDeals(user.CityID, c.Query("category"), perPage)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Deals retrieved", gin.H{"deals": deals})
}

// Hot returns the collecting deals closest to activation.
func (ctrl *DealController) Hot(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	_, perPage := utils.GetPaginationParams(c)

	deals, err := ctrl.deals.ListHotDeals(user.CityID, perPage)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Hot deals retrieved", gin.H{"deals": deals})
}

// Details returns one deal with its discount and countdown figures.
func (ctrl *DealController) Details(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	deal, err := ctrl.deals.GetDeal(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Deal retrieved", gin.H{
		"deal":             deal,
		"discount_percent": deal.DiscountPercent(),
		"savings":          deal.Savings(),
		"days_left":        ctrl.deals.DaysLeft(deal),
	})
}

// Join creates the customer's booking on a deal and returns their code.
func (ctrl *DealController) Join(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	booking, err := ctrl.bookings.JoinDeal(user.ID, id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Created(c, "You are in! Your code is ready", gin.H{"booking": booking})
}
