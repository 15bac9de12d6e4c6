package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// subjectEmailKey holds the email of the authenticated account.
const subjectEmailKey = contextKey("subjectEmail")

// GetAuthenticatedEmail retrieves the email carried by the access token of the request.
// It returns false when the request was not authenticated.
func GetAuthenticatedEmail(c *gin.Context) (string, bool) {
	return GetAuthenticatedEmailFromCtx(c.Request.Context())
}

// GetAuthenticatedEmailFromCtx is the context.Context variant of GetAuthenticatedEmail.
func GetAuthenticatedEmailFromCtx(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(subjectEmailKey).(string)
	return email, ok && email != ""
}
