package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/slotwise/slotwise-api/pkg/errors"
	"github.com/slotwise/slotwise-api/pkg/response"
)

// TenantHeader identifies the calling tenant on admin routes.
const TenantHeader = "X-Tenant-ID"

// ContextTenantKey is the gin context key holding the tenant id.
const ContextTenantKey = "tenantID"

// RequireTenant rejects admin requests that do not identify a tenant.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(TenantHeader)
		if tenantID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing "+TenantHeader+" header"))
			c.Abort()
			return
		}
		c.Set(ContextTenantKey, tenantID)
		c.Next()
	}
}
