package auth

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recipebox/internal/pkg/response"
)

const stateCookie = "recipebox_oauth_state"

type CookieSettings struct {
	Name     string
	Secure   bool
	SameSite string
	TTL      time.Duration
}

type Handler struct {
	service *Service
	cookie  CookieSettings
	siteURL string
}

func NewHandler(service *Service, cookie CookieSettings, siteURL string) *Handler {
	return &Handler{service: service, cookie: cookie, siteURL: siteURL}
}

// RegisterRoutes mounts the browser-facing login flow on the engine root.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/login", h.Login)
	r.GET("/auth/callback", h.Callback)
	r.POST("/logout", h.Logout)
}

// RegisterProtectedRoutes expects the session middleware on rg.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.GetMe)
}

// Root forwards provider redirects that land on the site root to the callback.
func (h *Handler) Root(c *gin.Context) {
	if c.Request.URL.Query().Has("code") {
		c.Redirect(http.StatusFound, "/auth/callback?"+c.Request.URL.RawQuery)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": "recipebox"})
}

// Login handles GET /login
func (h *Handler) Login(c *gin.Context) {
	state := uuid.NewString()
	target, err := h.service.AuthCodeURL(state)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "OAUTH_DISABLED", "Sign-in is not configured")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, target)
}

// Callback handles GET /auth/callback. It always ends on the site home page;
// a session cookie is set only when the exchange succeeds.
func (h *Handler) Callback(c *gin.Context) {
	home := h.homeURL(c)
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		c.Redirect(http.StatusFound, home)
		return
	}

	expected, _ := c.Cookie(stateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, "", -1, "/", "", h.cookie.Secure, true)
	if expected == "" || expected != c.Query("state") {
		log.Printf("auth_callback_rejected reason=%s client_ip=%s", ErrStateMismatch, c.ClientIP())
		c.Redirect(http.StatusFound, home)
		return
	}

	_, token, err := h.service.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Printf("auth_callback_failed client_ip=%s err=%v", c.ClientIP(), err)
		c.Redirect(http.StatusFound, home)
		return
	}

	h.setSessionCookie(c, token, int(h.cookie.TTL.Seconds()))
	c.Redirect(http.StatusFound, home)
}

// Logout handles POST /logout
func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// GetMe handles GET /api/me
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", ErrUnauthorized.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(parseSameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

// homeURL prefers the configured public site URL over the request origin.
func (h *Handler) homeURL(c *gin.Context) string {
	base := h.siteURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	u, err := url.Parse(base)
	if err != nil {
		return "/"
	}
	u.Path = "/"
	u.RawQuery = ""
	return u.String()
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
