package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/taskhub/taskhub/backend/go-services/internal/auth"
	"github.com/taskhub/taskhub/backend/go-services/pkg/metrics"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextAuthKey   = "authctx"
	ContextClaimsKey = "claims"
	ContextRoleKey   = "userRole"
)

// Authenticate returns a Gin middleware that runs the auth gate on every
// request. On success the authenticated context, claims and role are attached
// to the request; on failure the request is aborted with the failure kind's
// status and body.
func Authenticate(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		actx, aerr := gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if aerr != nil {
			metrics.AuthRequests.WithLabelValues(string(aerr.Kind)).Inc()
			abortWithAuthError(c, aerr)
			return
		}
		metrics.AuthRequests.WithLabelValues("ok").Inc()
		c.Set(ContextAuthKey, actx)
		c.Set(ContextClaimsKey, actx.Claims)
		c.Set(ContextRoleKey, actx.Role)
		c.Next()
	}
}

// AuthContext returns the context attached by Authenticate, or nil.
func AuthContext(c *gin.Context) *auth.Context {
	v, ok := c.Get(ContextAuthKey)
	if !ok {
		return nil
	}
	actx, _ := v.(*auth.Context)
	return actx
}

func abortWithAuthError(c *gin.Context, e *auth.Error) {
	body := gin.H{"error": e.Message()}
	if e.Details != "" {
		body["details"] = e.Details
	}
	c.AbortWithStatusJSON(e.Status(), body)
}
