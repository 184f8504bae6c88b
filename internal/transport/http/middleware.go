package transport

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
	sharederrors "github.com/loziogigio/vinc-pim-sub014/internal/shared/errors"
)

// Identity headers. Authentication happens at the edge; the engine trusts the
// forwarded identity and enforces authorization through the transition tables.
const (
	HeaderTenantID  = "X-Tenant-ID"
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

const actorContextKey = "actorContext"

// ActorContext extracts the caller identity from headers and aborts with a
// problem response when the tenant or role is missing or unknown.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		act := actor.Context{
			TenantID: strings.TrimSpace(c.GetHeader(HeaderTenantID)),
			ActorID:  strings.TrimSpace(c.GetHeader(HeaderActorID)),
			Role:     actor.Role(strings.TrimSpace(strings.ToLower(c.GetHeader(HeaderActorRole)))),
		}
		if !act.Valid() {
			sharederrors.Respond(c, sharederrors.ErrUnauthorized.
				WithDetail("missing or invalid tenant/role headers"))
			c.Abort()
			return
		}
		c.Set(actorContextKey, act)
		c.Next()
	}
}

// RequireRole restricts a route to the given roles; admin always passes.
func RequireRole(roles ...actor.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		act := actorFrom(c)
		if act.Role == actor.RoleAdmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if act.Role == role {
				c.Next()
				return
			}
		}
		sharederrors.Respond(c, sharederrors.ErrForbidden.
			WithDetail("role "+act.Role.String()+" may not call this endpoint"))
		c.Abort()
	}
}

func actorFrom(c *gin.Context) actor.Context {
	if v, ok := c.Get(actorContextKey); ok {
		if act, ok := v.(actor.Context); ok {
			return act
		}
	}
	return actor.Context{}
}
