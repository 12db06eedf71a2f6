package middleware

import (
	"net/http"
	"strings"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/jwtutil"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const operatorKey = "operator"

// JWTAuthMiddleware creates a middleware that validates JWT tokens
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(operatorKey, claims)
			c.Set("logger", log.With(
				zap.String("operator_id", claims.OperatorID),
				zap.String("role", claims.Role),
			))
			return next(c)
		}
	}
}

// RequireRole rejects operators whose role is not in roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := OperatorFromEcho(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			logger.FromEcho(c).Warn("Role not permitted",
				zap.String("role", claims.Role),
				zap.Strings("allowed", roles))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		}
	}
}

// OperatorFromEcho returns the claims stored by JWTAuthMiddleware
func OperatorFromEcho(c echo.Context) (*jwtutil.OperatorClaims, bool) {
	claims, ok := c.Get(operatorKey).(*jwtutil.OperatorClaims)
	return claims, ok
}
