package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/utils"
)

// Context keys set by the auth middleware.
const (
	ContextUserKey     = "user"
	ContextBusinessKey = "business"
	ContextAdminKey    = "admin"
)

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// CustomerAuth validates a customer JWT and loads the user into the
// context.
func CustomerAuth(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		chatID, role, err := utils.ValidateToken(token)
		if err != nil || role != utils.RoleCustomer {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		user, err := users.GetByChatID(chatID)
		if err != nil {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// BusinessAuth validates a business JWT and loads the chat's current
// business into the context.
func BusinessAuth(businesses repository.BusinessRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		chatID, role, err := utils.ValidateToken(token)
		if err != nil || role != utils.RoleBusiness {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		business, err := businesses.GetCurrentByChatID(chatID)
		if err != nil {
			utils.Forbidden(c, "No business registered for this account")
			c.Abort()
			return
		}
		if !business.IsActive {
			utils.Forbidden(c, "Business account is disabled")
			c.Abort()
			return
		}
		c.Set(ContextBusinessKey, business)
		c.Set("chat_id", chatID)
		c.Next()
	}
}

// BusinessIdentity is like BusinessAuth but does not require a registered
// business yet; it only verifies the chat identity. Used by the
// registration endpoints.
func BusinessIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		chatID, role, err := utils.ValidateToken(token)
		if err != nil || role != utils.RoleBusiness {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set("chat_id", chatID)
		c.Next()
	}
}

// AdminAuth validates an admin JWT and loads the admin into the context.
func AdminAuth(admins repository.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		adminID, role, err := utils.ValidateToken(token)
		if err != nil || role != utils.RoleAdmin {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		admin, err := admins.GetByID(uint(adminID))
		if err != nil || !admin.IsActive {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(ContextAdminKey, admin)
		c.Next()
	}
}
