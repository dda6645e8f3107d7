// Package demo gates sample payloads behind DEMO_MODE. Sample data is only
// ever served when demo mode is on and the store is unreachable; every
// other failure propagates.
package demo

import (
	"github.com/gin-gonic/gin"

	"txunajob/internal/database"
)

type Gate struct {
	Enabled bool
}

// Serve reports whether err may be answered with sample data.
func (g Gate) Serve(err error) bool {
	return g.Enabled && err != nil && database.IsUnavailable(err)
}

// Meta marks a response body as sample data.
func Meta() gin.H {
	return gin.H{"demo": true}
}
