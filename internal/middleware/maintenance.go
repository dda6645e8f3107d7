package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"txunajob/internal/metrics"
	"txunajob/internal/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Maintenance checks store availability once per request. Writes are
// refused with 503 while the store is down; reads continue and degrade
// to empty payloads in their handlers.
func Maintenance(store Pinger, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.Ping(c.Request.Context())
		metrics.SetStoreAvailable(err == nil)
		if err == nil {
			c.Next()
			return
		}
		if isWrite(c.Request.Method) {
			log.WithError(err).WithField("path", c.Request.URL.Path).Warn("write rejected: store unavailable")
			response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// RequestTimeout bounds every downstream store call through the request
// context deadline.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
