package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/lovihub/lovi-backend/services"
	"github.com/lovihub/lovi-backend/utils"
)

// AdminController serves the platform dashboard: totals, complaint
// moderation and the suspicious-business scan.
type AdminController struct {
	admin     *services.AdminService
	antifraud *services.AntifraudService
}

// NewAdminController wires the admin endpoints.
func NewAdminController(admin *services.AdminService, antifraud *services.AntifraudService) *AdminController {
	return &AdminController{admin: admin, antifraud: antifraud}
}

// Stats returns platform-wide totals.
func (ctrl *AdminController) Stats(c *gin.Context) {
	stats, err := ctrl.admin.Stats()
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Stats retrieved", gin.H{"stats": stats})
}

// Complaints lists all open complaints.
func (ctrl *AdminController) Complaints(c *gin.Context) {
	complaints, err := ctrl.antifraud.ListOpenComplaints()
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Complaints retrieved", gin.H{"complaints": complaints})
}

// ResolveComplaint closes a complaint and applies its trust penalty.
func (ctrl *AdminController) ResolveComplaint(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	complaint, err := ctrl.antifraud.ResolveComplaint(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Complaint resolved", gin.H{"complaint": complaint})
}

// BusinessSignal returns the full trust signal for one business.
func (ctrl *AdminController) BusinessSignal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	signal, err := ctrl.antifraud.AnalyzeBusiness(id)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Trust signal computed", gin.H{"signal": signal})
}

// Suspicious scans all active businesses and returns the high-risk ones.
func (ctrl *AdminController) Suspicious(c *gin.Context) {
	signals, err := ctrl.antifraud.AnalyzePatterns()
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}
	utils.Success(c, "Suspicious businesses retrieved", gin.H{"businesses": signals})
}
