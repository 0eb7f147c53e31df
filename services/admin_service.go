package services

import (
	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// AdminService handles administrator authentication and platform totals.
type AdminService struct {
	admins repository.AdminRepository
	stats  repository.StatsRepository
	clock  Clock
}

// NewAdminService wires the admin service.
func NewAdminService(admins repository.AdminRepository, stats repository.StatsRepository, clock Clock) *AdminService {
	return &AdminService{admins: admins, stats: stats, clock: clock}
}

// Login verifies admin credentials and issues a JWT.
func (s *AdminService) Login(email, password string) (string, *models.Admin, error) {
	admin, err := s.admins.GetByEmail(email)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil, utils.NewAppError(401, "Invalid email or password", err)
		}
		return "", nil, utils.InternalError("Failed to load admin", err)
	}
	if !admin.IsActive {
		return "", nil, utils.ForbiddenError("Admin account is disabled", nil)
	}
	if !utils.CheckPassword(password, admin.Password) {
		return "", nil, utils.NewAppError(401, "Invalid email or password", nil)
	}

	token, err := utils.GenerateToken(int64(admin.ID), utils.RoleAdmin)
	if err != nil {
		return "", nil, utils.InternalError("Failed to generate token", err)
	}
	if err := s.admins.UpdateLastLogin(admin.ID, s.clock.Now()); err != nil {
		utils.LogError("admin service: update last login for admin %d: %v", admin.ID, err)
	}
	utils.LogInfo("Admin %d logged in", admin.ID)
	return token, admin, nil
}

// Stats returns the platform-wide totals for the admin dashboard.
func (s *AdminService) Stats() (*repository.Stats, error) {
	stats, err := s.stats.Totals()
	if err != nil {
		return nil, utils.InternalError("Failed to load stats", err)
	}
	return stats, nil
}
