package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/lovihub/lovi-backend/services"
	"github.com/lovihub/lovi-backend/utils"
)

// AuthController issues tokens for the three caller roles. The chat
// platform verifies the chat identity upstream; this service trusts the
// chat ID it is handed and only maps it to a session token.
type AuthController struct {
	users *services.UserService
	admin *services.AdminService
}

// NewAuthController wires the auth endpoints.
func NewAuthController(users *services.UserService, admin *services.AdminService) *AuthController {
	return &AuthController{users: users, admin: admin}
}

type startRequest struct {
	ChatID    int64  `json:"chat_id" binding:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// CustomerStart registers or refreshes a customer and returns their token.
func (ctrl *AuthController) CustomerStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	user, err := ctrl.users.Start(req.ChatID, req.Username, req.FirstName)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	token, err := utils.GenerateToken(user.ChatID, utils.RoleCustomer)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}
	utils.Success(c, "Welcome to Lovi", gin.H{"token": token, "user": user})
}

// BusinessStart returns a merchant-side token for a chat identity.
func (ctrl *AuthController) BusinessStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	token, err := utils.GenerateToken(req.ChatID, utils.RoleBusiness)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}
	utils.Success(c, "Business session started", gin.H{"token": token})
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin verifies admin credentials and returns their token.
func (ctrl *AuthController) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	token, admin, err := ctrl.admin.Login(req.Email, req.Password)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Login successful", gin.H{"token": token, "admin": admin})
}
