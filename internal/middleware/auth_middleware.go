package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/canberk/labdrop/internal/app/auth"
	"github.com/canberk/labdrop/internal/app/models"
	"github.com/canberk/labdrop/internal/app/models/dto"
	"github.com/canberk/labdrop/internal/pkg/apperrors"
	"github.com/canberk/labdrop/internal/pkg/auth"
)

// identityKey is the gin context key the resolved identity is stored under
const identityKey = "identity"

// SessionGetter is the session lookup the middleware needs to confirm a
// token still resolves to a live session row.
type SessionGetter interface {
	Get(ctx context.Context, id string) (*models.Session, error)
}

// AuthMiddleware resolves the caller identity from the session token and
// enforces the login/admin gates on protected routes.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	sessions   SessionGetter
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, sessions SessionGetter) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// RequireAuth validates the bearer token and the session row behind it,
// then places the resolved identity on the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthenticated(c, "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}
			abortUnauthenticated(c, "Invalid token")
			return
		}

		// Logout deletes the session row; a token without one is dead.
		if _, err := m.sessions.Get(c.Request.Context(), claims.SessionID); err != nil {
			if errors.Is(err, apperrors.ErrSessionNotFound) {
				abortUnauthenticated(c, "Session no longer active")
				return
			}
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(identityKey, appauth.Identity{
			Identifier: claims.Identifier,
			Admin:      claims.Admin,
			SessionID:  claims.SessionID,
		})

		c.Next()
	}
}

// RequireAdmin enforces that the resolved identity is the admin account.
// Must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortUnauthenticated(c, "User information not found")
			return
		}

		if !identity.Admin {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Admin privileges required")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// GetIdentity reads the resolved identity from the request context.
func GetIdentity(c *gin.Context) (appauth.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return appauth.Identity{}, false
	}

	identity, ok := value.(appauth.Identity)
	return identity, ok
}

func abortUnauthenticated(c *gin.Context, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, apperrors.ErrUnauthenticated.Error())
	errorDetail = errorDetail.WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
