package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/auth"
)

// AuthTemplateData holds authentication info for templates.
type AuthTemplateData struct {
	LoggedIn bool   // Whether an admin is logged in
	Username string // Current admin's username (empty if not logged in)
}

// AuthContextMiddleware injects authentication data into Gin context for templates.
// Templates can access auth data via .Auth in the template data.
// It relies on SessionManager.SessionLoadSave having run earlier in the chain.
func AuthContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := auth.GetUsername(c)
		c.Set("auth_template_data", AuthTemplateData{
			LoggedIn: username != "",
			Username: username,
		})
		c.Next()
	}
}

// GetAuthTemplateData retrieves auth data from context for use in templates.
func GetAuthTemplateData(c *gin.Context) AuthTemplateData {
	if data, exists := c.Get("auth_template_data"); exists {
		if authData, ok := data.(AuthTemplateData); ok {
			return authData
		}
	}
	return AuthTemplateData{}
}
