// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/your-org/boba-pos-backend/internal/config"
)

// CORS returns a middleware that handles Cross-Origin Resource Sharing
func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     cfg.Security.CORSAllowedMethods,
		AllowHeaders:     withHeader(cfg.Security.CORSAllowedHeaders, HeaderSessionID),
		ExposeHeaders:    []string{"Content-Length", HeaderRequestID, HeaderSessionID, "Content-Disposition"},
		AllowCredentials: true,
		AllowWildcard:    true,
		MaxAge:           24 * time.Hour,
	}

	for _, origin := range cfg.Security.CORSAllowedOrigins {
		if origin == "*" {
			// credentials cannot be combined with a literal wildcard
			corsConfig.AllowOriginFunc = func(string) bool { return true }
			return cors.New(corsConfig)
		}
	}
	corsConfig.AllowOrigins = cfg.Security.CORSAllowedOrigins

	return cors.New(corsConfig)
}

// withHeader returns headers plus h, unless it is already listed. Kiosks pin
// their session with h, so it must survive a custom CORS_ALLOWED_HEADERS.
func withHeader(headers []string, h string) []string {
	for _, existing := range headers {
		if http.CanonicalHeaderKey(existing) == http.CanonicalHeaderKey(h) {
			return headers
		}
	}
	out := make([]string, 0, len(headers)+1)
	out = append(out, headers...)
	return append(out, h)
}
