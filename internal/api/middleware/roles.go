package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/api/respond"
	"github.com/uninorte/feria-gamer/internal/service"
)

// RoleResolver looks up a user's current roles. A nil resolver makes the
// role gate trust the roles embedded in the token.
type RoleResolver interface {
	CurrentRoles(ctx context.Context, userID uint) ([]string, error)
}

// RequireRoles is the second gate on protected routes. It lets the request
// through when the caller holds at least one of roles and answers 403
// otherwise. It must run after Authenticate.
func RequireRoles(resolver RoleResolver, roles ...string) gin.HandlerFunc {
	required := slices.Clone(roles)

	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			respond.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		granted := claims.Roles
		if resolver != nil {
			userID, err := claims.UserID()
			if err != nil {
				respond.Abort(c, http.StatusUnauthorized, "Unauthorized")
				return
			}
			current, err := resolver.CurrentRoles(c.Request.Context(), userID)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					respond.Abort(c, http.StatusUnauthorized, "Unauthorized")
					return
				}
				slog.Error("Failed to resolve current roles", "user_id", userID, "error", err)
				respond.Abort(c, http.StatusInternalServerError, "Internal server error")
				return
			}
			granted = current
		}

		if !intersects(granted, required) {
			slog.Warn("Role gate rejected request",
				"path", c.FullPath(),
				"user", claims.Subject,
				"roles", granted,
				"required", required)
			respond.Abort(c, http.StatusForbidden, "Forbidden resource")
			return
		}

		c.Next()
	}
}

func intersects(granted, required []string) bool {
	for _, r := range required {
		if slices.Contains(granted, r) {
			return true
		}
	}
	return false
}
