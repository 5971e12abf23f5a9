package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultDatabaseURL       = "recipebox.db"
	defaultAutoMigrate       = "true"
	defaultCategories        = "auto"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultSessionTTL        = "168h"
	defaultSessionCookie     = "recipebox_session"
	defaultBrowserCookie     = "recipebox_browser"
	defaultCookieSecure      = "false"
	defaultCookieSameSite    = "Lax"
	defaultAdminRequireLogin = "true"
	defaultOAuthScopes       = "openid,email,profile"
	defaultRateLimitRPS      = "5"
	defaultRateLimitBurst    = "10"
)

// CategoriesMode controls how the category relation is resolved at startup.
type CategoriesMode string

const (
	CategoriesAuto     CategoriesMode = "auto"
	CategoriesEnabled  CategoriesMode = "true"
	CategoriesDisabled CategoriesMode = "false"
)

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	Scopes       []string
}

// Enabled reports whether enough provider settings exist to run the login flow.
func (o OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.AuthURL != "" && o.TokenURL != ""
}

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	AutoMigrate bool
	Categories  CategoriesMode

	JWTSecret      string
	SessionTTL     time.Duration
	SessionCookie  string
	BrowserCookie  string
	CookieSecure   bool
	CookieSameSite string

	OAuth   OAuthConfig
	SiteURL string

	AdminRequireSession bool
	CORSAllowedOrigins  []string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment. When CONFIG_FILE points at a
// TOML file its keys fill in anything the environment leaves unset.
func Load() (*Config, error) {
	file, err := loadFile(strings.TrimSpace(os.Getenv("CONFIG_FILE")))
	if err != nil {
		return nil, err
	}
	src := source{file: file}

	cfg := &Config{}
	appEnv := strings.TrimSpace(src.get("APP_ENV", ""))
	if appEnv == "" {
		appEnv = strings.TrimSpace(src.get("ENV", ""))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(src.get("HTTP_ADDR", ""))
	if cfg.HTTPAddr == "" {
		if port := strings.TrimSpace(src.get("PORT", "")); port != "" {
			cfg.HTTPAddr = ":" + strings.TrimPrefix(port, ":")
		} else {
			cfg.HTTPAddr = defaultHTTPAddr
		}
	}

	cfg.DatabaseURL = strings.TrimSpace(src.get("DATABASE_URL", defaultDatabaseURL))
	cfg.AutoMigrate = src.boolean("AUTO_MIGRATE", defaultAutoMigrate)
	cfg.Categories = CategoriesMode(strings.ToLower(strings.TrimSpace(src.get("CATEGORIES_ENABLED", defaultCategories))))

	cfg.JWTSecret = strings.TrimSpace(src.get("JWT_SECRET", defaultJWTSecret))
	cfg.SessionTTL, err = src.duration("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.SessionCookie = strings.TrimSpace(src.get("SESSION_COOKIE", defaultSessionCookie))
	cfg.BrowserCookie = strings.TrimSpace(src.get("FAVORITES_COOKIE", defaultBrowserCookie))
	cfg.CookieSecure = src.boolean("COOKIE_SECURE", defaultCookieSecure)
	cfg.CookieSameSite = strings.TrimSpace(src.get("COOKIE_SAMESITE", defaultCookieSameSite))

	cfg.OAuth = OAuthConfig{
		ClientID:     strings.TrimSpace(src.get("OAUTH_CLIENT_ID", "")),
		ClientSecret: strings.TrimSpace(src.get("OAUTH_CLIENT_SECRET", "")),
		AuthURL:      strings.TrimSpace(src.get("OAUTH_AUTH_URL", "")),
		TokenURL:     strings.TrimSpace(src.get("OAUTH_TOKEN_URL", "")),
		UserInfoURL:  strings.TrimSpace(src.get("OAUTH_USERINFO_URL", "")),
		RedirectURL:  strings.TrimSpace(src.get("OAUTH_REDIRECT_URL", "")),
		Scopes:       splitList(src.get("OAUTH_SCOPES", defaultOAuthScopes)),
	}
	cfg.SiteURL = normalizeSiteURL(src.get("SITE_URL", ""))

	cfg.AdminRequireSession = src.boolean("ADMIN_REQUIRE_SESSION", defaultAdminRequireLogin)
	cfg.CORSAllowedOrigins = splitList(src.get("CORS_ALLOWED_ORIGINS", ""))

	if _, err := fmt.Sscan(src.get("RATE_LIMIT_RPS", defaultRateLimitRPS), &cfg.RateLimitRPS); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if _, err := fmt.Sscan(src.get("RATE_LIMIT_BURST", defaultRateLimitBurst), &cfg.RateLimitBurst); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s addr=%s categories=%s admin_require_session=%t oauth=%t",
		cfg.AppEnv, cfg.HTTPAddr, cfg.Categories, cfg.AdminRequireSession, cfg.OAuth.Enabled())

	return cfg, nil
}

// IsProd reports whether strict production checks apply.
func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.SessionCookie == "" || cfg.BrowserCookie == "" {
		return fmt.Errorf("SESSION_COOKIE and FAVORITES_COOKIE must not be empty")
	}
	switch cfg.Categories {
	case CategoriesAuto, CategoriesEnabled, CategoriesDisabled:
	default:
		return fmt.Errorf("CATEGORIES_ENABLED must be one of: auto, true, false")
	}
	if cfg.CookieSameSite == "" {
		return fmt.Errorf("COOKIE_SAMESITE must not be empty")
	}
	sameSite := strings.ToLower(strings.TrimSpace(cfg.CookieSameSite))
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
		if cfg.SiteURL == "" {
			return fmt.Errorf("in prod/release SITE_URL must be set")
		}
	}

	return nil
}

func normalizeSiteURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return raw
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// source resolves a key from the environment first, then the config file.
type source struct {
	file map[string]string
}

func (s source) get(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if v, ok := s.file[name]; ok && v != "" {
		return v
	}
	return fallback
}

func (s source) duration(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(s.get(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func (s source) boolean(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(s.get(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

// loadFile flattens a TOML document into env-style keys:
// [oauth] client_id = "x" becomes OAUTH_CLIENT_ID.
func loadFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	out := make(map[string]string)
	flatten("", doc, out)
	return out, nil
}

func flatten(prefix string, doc map[string]any, out map[string]string) {
	for k, v := range doc {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
