package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/slotwise/slotwise-api/internal/middleware"
)

func tenantFromContext(c *gin.Context) string {
	value, exists := c.Get(middleware.ContextTenantKey)
	if !exists {
		return ""
	}
	tenantID, ok := value.(string)
	if !ok {
		return ""
	}
	return tenantID
}
