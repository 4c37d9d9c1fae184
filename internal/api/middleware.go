package api

import (
	"strings"
	"time"

	"sheetlens/domain/core"
	"sheetlens/internal/errors"
	"sheetlens/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Headers set by the upstream authenticator
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const identityKey = "identity"

// Identity reads the caller from the authenticator headers and rejects
// requests without a valid user ID.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if raw == "" {
			respondError(c, errors.Unauthorized("Authentication required"))
			c.Abort()
			return
		}
		userID, err := core.ParseID(raw)
		if err != nil {
			respondError(c, errors.Unauthorized("Invalid user ID"))
			c.Abort()
			return
		}
		c.Set(identityKey, core.Identity{
			UserID: userID,
			Role:   core.ParseRole(c.GetHeader(HeaderUserRole)),
		})
		c.Next()
	}
}

func identityFrom(c *gin.Context) core.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(core.Identity); ok {
			return id
		}
	}
	return core.Identity{}
}

// RequestMetrics records each request against its matched route
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
