package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/lovihub/lovi-backend/services"
	"github.com/lovihub/lovi-backend/utils"
)

// UserController serves the customer profile and the city/category
// directories.
type UserController struct {
	users *services.UserService
}

// NewUserController wires the customer profile endpoints.
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Cities lists the selectable cities.
func (ctrl *UserController) Cities(c *gin.Context) {
	cities, err := ctrl.users.ListCities()
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Cities retrieved", gin.H{"cities": cities})
}

// Categories lists the business categories.
func (ctrl *UserController) Categories(c *gin.Context) {
	categories, err := ctrl.users.ListCategories()
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Categories retrieved", gin.H{"categories": categories})
}

type setCityRequest struct {
	City string `json:"city" binding:"required"`
}

// SetCity points the customer at a catalog city by slug.
func (ctrl *UserController) SetCity(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req setCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	city, err := ctrl.users.SetCity(user.ChatID, req.City)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "City updated", gin.H{"city": city})
}
