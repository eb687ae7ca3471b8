package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/auth"
	"github.com/uninorte/feria-gamer/internal/service"
)

// TokenVerifier verifies a bearer token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserValidator confirms that a token's subject is still an active user.
// It returns service.ErrNotFound for deleted or unknown users.
type UserValidator interface {
	ValidateUser(ctx context.Context, userID uint) (*service.PublicUser, error)
}

// Authenticate is the first gate on protected routes. It requires an
// "Authorization: Bearer <token>" header, verifies the token and stores the
// claims in the context. With a non-nil users, the token's subject must also
// still be an active account. Every rejection is reported as a bare 401.
func Authenticate(verifier TokenVerifier, users UserValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respond.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			slog.Debug("Rejected bearer token", "error", err, "path", c.FullPath())
			respond.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if users != nil {
			userID, err := claims.UserID()
			if err != nil {
				respond.Abort(c, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if _, err := users.ValidateUser(c.Request.Context(), userID); err != nil {
				if errors.Is(err, service.ErrNotFound) {
					slog.Warn("Token subject is no longer active", "user_id", userID, "path", c.FullPath())
					respond.Abort(c, http.StatusUnauthorized, "Unauthorized")
					return
				}
				slog.Error("Failed to validate token subject", "user_id", userID, "error", err)
				respond.Abort(c, http.StatusInternalServerError, "Internal server error")
				return
			}
		}

		c.Set(auth.ClaimsContextKey, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ClaimsFromContext returns the claims stored by Authenticate
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(auth.ClaimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// CallerID returns the authenticated user's id, or 0 when the request is
// anonymous.
func CallerID(c *gin.Context) uint {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return 0
	}
	id, err := claims.UserID()
	if err != nil {
		return 0
	}
	return id
}
