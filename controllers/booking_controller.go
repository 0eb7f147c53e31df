package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/lovihub/lovi-backend/services"
	"github.com/lovihub/lovi-backend/utils"
)

// BookingController serves the customer side of the booking lifecycle:
// their codes, visit confirmation with a review, declines, complaints and
// profile stats.
type BookingController struct {
	bookings  *services.BookingService
	antifraud *services.AntifraudService
}

// NewBookingController wires the customer booking endpoints.
func NewBookingController(bookings *services.BookingService, antifraud *services.AntifraudService) *BookingController {
	return &BookingController{bookings: bookings, antifraud: antifraud}
}

// My returns all the customer's bookings.
func (ctrl *BookingController) My(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	bookings, err := ctrl.bookings.ListUserBookings(user.ID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Bookings retrieved", gin.H{"bookings": bookings})
}

// ActiveCodes returns the customer's currently redeemable codes.
func (ctrl *BookingController) ActiveCodes(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	bookings, err := ctrl.bookings.ListActiveCodes(user.ID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Active codes retrieved", gin.H{"bookings": bookings})
}

// History returns the customer's finished bookings.
func (ctrl *BookingController) History(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	bookings, err := ctrl.bookings.ListHistory(user.ID)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "History retrieved", gin.H{"bookings": bookings})
}

type confirmVisitRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// ConfirmVisit lets the customer confirm a redeemed visit, leaving a
// rating and optional comment. Earns bonus points.
func (ctrl *BookingController) ConfirmVisit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req confirmVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	booking, err := ctrl.bookings.GetBooking(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	if booking.UserID != user.ID {
		utils.Forbidden(c, utils.ErrForbidden)
		return
	}

	updated, err := ctrl.bookings.ConfirmByCustomer(id, req.Rating, req.Comment)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Thanks for confirming your visit", gin.H{"booking": updated})
}

type beginReviewRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// BeginReview starts the two-step review flow: the rating is saved now,
// the comment arrives with SubmitReview.
func (ctrl *BookingController) BeginReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req beginReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if err := ctrl.bookings.BeginReview(user, id, req.Rating); err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Now send your comment", gin.H{"step": user.State.Step})
}

type submitReviewRequest struct {
	Comment string `json:"comment"`
}

// SubmitReview finishes the review flow and confirms the visit.
func (ctrl *BookingController) SubmitReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	booking, err := ctrl.bookings.SubmitReview(user, req.Comment)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Thanks for confirming your visit", gin.H{"booking": booking})
}

// Decline handles "I didn't use it": the code is written off.
func (ctrl *BookingController) Decline(c *gin.Context) {
	user, ok := currentUser(c)
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
	if booking.UserID != user.ID {
		utils.Forbidden(c, utils.ErrForbidden)
		return
	}

	updated, err := ctrl.bookings.DeclineByCustomer(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Booking declined", gin.H{"booking": updated})
}

type complaintRequest struct {
	Type    string `json:"type" binding:"required"`
	Comment string `json:"comment"`
}

// Complain files a complaint about the business behind a booking.
func (ctrl *BookingController) Complain(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req complaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	booking, err := ctrl.bookings.GetBooking(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	if booking.UserID != user.ID {
		utils.Forbidden(c, utils.ErrForbidden)
		return
	}

	complaint, err := ctrl.antifraud.FileComplaint(booking.Deal.BusinessID, booking.ID, user.ID, req.Type, req.Comment)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Created(c, "Complaint filed", gin.H{"complaint": complaint})
}

// Profile returns the customer's lifetime stats.
func (ctrl *BookingController) Profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.Success(c, "Profile retrieved", gin.H{
		"user": user,
		"stats": gin.H{
			"deals_used":   user.DealsUsed,
			"total_saved":  user.TotalSaved,
			"bonus_points": user.BonusPoints,
		},
	})
}
