package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"recipebox/internal/pkg/jwt"
	"recipebox/internal/pkg/response"
)

type tokenSource int

const (
	tokenNone tokenSource = iota
	tokenCookie
	tokenHeader
)

// sessionToken prefers the Authorization header so API clients can call
// without cookies, and falls back to the session cookie set at login.
func sessionToken(c *gin.Context, cookieName string) (string, tokenSource, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", tokenHeader, false
		}
		return strings.TrimSpace(parts[1]), tokenHeader, true
	}
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v, tokenCookie, true
		}
	}
	return "", tokenNone, true
}

// JWTAuth requires a valid session and sets user_id and email on the context.
func JWTAuth(jwtService *jwt.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, src, ok := sessionToken(c, cookieName)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}
		if src == tokenNone {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authentication required")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// OptionalAuth sets user_id when a valid session is present and never aborts.
// Handlers decide how to treat anonymous callers.
func OptionalAuth(jwtService *jwt.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, src, ok := sessionToken(c, cookieName); ok && src != tokenNone {
			if claims, err := jwtService.ValidateToken(token); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("email", claims.Email)
			}
		}
		c.Next()
	}
}

// AdminGate keeps anonymous visitors out of the admin area. Browser pages
// are redirected to the login flow; API calls get a JSON 401.
func AdminGate(jwtService *jwt.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, src, ok := sessionToken(c, cookieName); ok && src != tokenNone {
			if claims, err := jwtService.ValidateToken(token); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("email", claims.Email)
				c.Next()
				return
			}
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized.")
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}
