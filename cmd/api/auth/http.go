package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrMissingHeader = errors.New("missing_authorization_header")
	ErrInvalidFormat = errors.New("invalid_authorization_header")
	ErrEmptyToken    = errors.New("empty_token")
)

// UnauthorizedBody is the plain-text body of every 401 response.
const UnauthorizedBody = "Unauthorized"

// HasCredential reports whether the Authorization header is present at all.
func HasCredential(c *gin.Context) bool {
	return c.GetHeader("Authorization") != ""
}

// ExtractBearerToken extracts the Bearer token from the Authorization header.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrInvalidFormat
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// AbortWithUnauthorized aborts the request with 401 and a plain-text body.
// The cause is not echoed to the caller.
func AbortWithUnauthorized(c *gin.Context) {
	c.String(http.StatusUnauthorized, UnauthorizedBody)
	c.Abort()
}
