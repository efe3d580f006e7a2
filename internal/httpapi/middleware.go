package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	userports "github.com/farmart-ke/farmart-api/internal/domains/users/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
	apierrors "github.com/farmart-ke/farmart-api/internal/shared/errors"
)

// actorContextKey is the gin context key the auth middleware stores the
// resolved actor under.
const actorContextKey = "httpapi.actor"

// AuthRequired resolves the Bearer token to an actor and aborts with 401
// when the session is missing or expired.
func AuthRequired(users userports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "session is invalid or expired")
			return
		}
		c.Set(actorContextKey, user.Actor())
		c.Next()
	}
}

// actorFrom returns the authenticated actor stored by AuthRequired.
func actorFrom(c *gin.Context) (access.Actor, bool) {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return access.Actor{}, false
	}
	actor, ok := value.(access.Actor)
	return actor, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func abortUnauthorized(c *gin.Context, detail string) {
	apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail(detail))
	c.Abort()
}

// mustActor fetches the actor or responds 401; handlers behind
// AuthRequired use it as a guard against miswired routes.
func mustActor(c *gin.Context) (access.Actor, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
		return access.Actor{}, false
	}
	return actor, true
}
