package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys for the authenticated caller. Authentication itself is an
// external collaborator; these headers arrive already verified upstream.
const (
	ContextTenantID = "tenant_id"
	ContextUserID   = "user_id"
)

// TenantContext validates Ax-Tenant-Id / Ax-User-Id (32-char lowercase hex)
// and stashes them on the echo context for handlers.
func TenantContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := strings.TrimSpace(c.Request().Header.Get("Ax-Tenant-Id"))
			if !reHex32.MatchString(tenantID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing or invalid Ax-Tenant-Id"})
			}
			userID := strings.TrimSpace(c.Request().Header.Get("Ax-User-Id"))
			if !reHex32.MatchString(userID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing or invalid Ax-User-Id"})
			}
			c.Set(ContextTenantID, tenantID)
			c.Set(ContextUserID, userID)
			return next(c)
		}
	}
}

// TenantID reads the validated tenant id off the context.
func TenantID(c echo.Context) string {
	v, _ := c.Get(ContextTenantID).(string)
	return v
}

// UserID reads the validated user id off the context.
func UserID(c echo.Context) string {
	v, _ := c.Get(ContextUserID).(string)
	return v
}
