package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/pocket_wallet/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware tracks successful API calls of authenticated accounts with PostHog.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		email, exists := GetAuthenticatedEmail(c)
		if !exists {
			return
		}

		// e.g. "/accounts/:email/movements" -> "accounts_:email_movements"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		// Route params carry emails, so only the route template is sent.
		posthogClient.Enqueue(utils.Fingerprint(email), eventName, map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		})
	}
}
