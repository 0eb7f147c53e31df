package services

import (
	"github.com/lovihub/lovi-backend/models"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// UserService handles customer identity and profile state.
type UserService struct {
	users   repository.UserRepository
	catalog repository.CatalogRepository
}

// NewUserService wires the customer profile service.
func NewUserService(users repository.UserRepository, catalog repository.CatalogRepository) *UserService {
	return &UserService{users: users, catalog: catalog}
}

// Start registers or refreshes a customer from their chat identity. The
// same chat ID always maps to the same user row.
func (s *UserService) Start(chatID int64, username, firstName string) (*models.User, error) {
	user := &models.User{
		ChatID:    chatID,
		Username:  username,
		FirstName: firstName,
	}
	if err := s.users.Upsert(user); err != nil {
		return nil, utils.InternalError("Failed to register user", err)
	}
	utils.LogInfo("User %d started, chat %d", user.ID, chatID)
	return user, nil
}

// GetByChatID loads a customer by chat identity.
func (s *UserService) GetByChatID(chatID int64) (*models.User, error) {
	user, err := s.users.GetByChatID(chatID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("User not found", err)
		}
		return nil, utils.InternalError("Failed to load user", err)
	}
	return user, nil
}

// SetCity points the customer at one of the catalog cities by slug.
func (s *UserService) SetCity(chatID int64, citySlug string) (*models.City, error) {
	city, err := s.catalog.GetCityBySlug(citySlug)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("Unknown city", err)
		}
		return nil, utils.InternalError("Failed to load city", err)
	}
	if !city.IsActive {
		return nil, utils.ConflictError("This city is not available yet", nil)
	}
	if err := s.users.UpdateCity(chatID, city.ID); err != nil {
		if err == repository.ErrNotFound {
			return nil, utils.NotFoundError("User not found", err)
		}
		return nil, utils.InternalError("Failed to update city", err)
	}
	return city, nil
}

// ListCities returns the selectable cities.
func (s *UserService) ListCities() ([]models.City, error) {
	cities, err := s.catalog.ListCities()
	if err != nil {
		return nil, utils.InternalError("Failed to load cities", err)
	}
	return cities, nil
}

// ListCategories returns the business categories.
func (s *UserService) ListCategories() ([]models.Category, error) {
	categories, err := s.catalog.ListCategories()
	if err != nil {
		return nil, utils.InternalError("Failed to load categories", err)
	}
	return categories, nil
}
