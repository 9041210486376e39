package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/pkg/logger"
)

const merchantIDKey = "merchant_id"

// CredentialResolver turns a bearer token into a merchant id
type CredentialResolver interface {
	ResolveCredential(token string) (string, error)
}

// JWTAuthMiddleware rejects requests without a valid "Bearer <token>" header and
// stores the merchant id for handlers
func JWTAuthMiddleware(resolver CredentialResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid authorization header format"})
			}

			merchantID, err := resolver.ResolveCredential(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			}

			c.Set(merchantIDKey, merchantID)
			c.Set(logger.EchoKey, log.With(zap.String("merchant_id", merchantID)))

			return next(c)
		}
	}
}

// MerchantID returns the merchant resolved by JWTAuthMiddleware, or "" on public routes
func MerchantID(c echo.Context) string {
	id, _ := c.Get(merchantIDKey).(string)
	return id
}

// SetMerchantID is used by tests that bypass the bearer check
func SetMerchantID(c echo.Context, merchantID string) {
	c.Set(merchantIDKey, merchantID)
}
