package main

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/domain/auth"
	"recipebox/internal/domain/favorite"
	"recipebox/internal/domain/meal"
	"recipebox/internal/domain/recipe"
	"recipebox/internal/domain/shoppinglist"
	"recipebox/internal/middleware"
	"recipebox/internal/pkg/jwt"
	"recipebox/internal/pkg/response"
)

const favoritesLifetime = 365 * 24 * time.Hour

// prepareSchema migrates the tables the configuration asks for and decides
// whether the category relation can be used.
func prepareSchema(cfg *config.Config, db *gorm.DB) (database.Capabilities, error) {
	if cfg.AutoMigrate {
		groups := [][]any{
			recipe.CoreModels(),
			meal.Models(),
			shoppinglist.Models(),
			auth.Models(),
			database.SessionModels(),
		}
		if cfg.Categories != config.CategoriesDisabled {
			groups = append(groups, recipe.CategoryModels())
		}
		if err := database.Migrate(db, groups...); err != nil {
			return database.Capabilities{}, err
		}
	}

	switch cfg.Categories {
	case config.CategoriesDisabled:
		log.Printf("schema capabilities: categories=false (disabled by config)")
		return database.Capabilities{Categories: false}, nil
	default:
		caps := database.ProbeCapabilities(db)
		if cfg.Categories == config.CategoriesEnabled && !caps.Categories {
			log.Printf("schema capabilities: CATEGORIES_ENABLED=true but category tables are missing; categories disabled")
		}
		return caps, nil
	}
}

// newSessionManager keeps browser sessions in the database so favorites
// survive a restart.
func newSessionManager(cfg *config.Config, db *gorm.DB) *scs.SessionManager {
	sm := scs.New()
	sm.Store = database.NewSessionStore(db)
	sm.Lifetime = favoritesLifetime
	sm.Cookie.Name = cfg.BrowserCookie
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.CookieSecure
	return sm
}

// newServer wires every route and returns the full handler chain.
func newServer(cfg *config.Config, db *gorm.DB, caps database.Capabilities) http.Handler {
	if cfg.AppEnv == "test" {
		gin.SetMode(gin.TestMode)
	} else if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtService := jwt.New(cfg.JWTSecret, cfg.SessionTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	sm := newSessionManager(cfg, db)

	recipeService := recipe.NewService(recipe.NewRepository(db, caps))
	recipeHandler := recipe.NewHandler(recipeService)

	mealHandler := meal.NewHandler(meal.NewService(meal.NewRepository(db, caps), recipeService))

	hub := shoppinglist.NewHub()
	shoppingHandler := shoppinglist.NewHandler(
		shoppinglist.NewService(shoppinglist.NewRepository(db), hub),
		hub,
		originChecker(cfg),
	)

	favoriteHandler := favorite.NewHandler(sm)

	authHandler := auth.NewHandler(
		auth.NewService(auth.NewUserRepository(db), jwtService, cfg.OAuth),
		auth.CookieSettings{
			Name:     cfg.SessionCookie,
			Secure:   cfg.CookieSecure,
			SameSite: cfg.CookieSameSite,
			TTL:      cfg.SessionTTL,
		},
		cfg.SiteURL,
	)

	r := gin.New()
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.ErrorLogger(cfg.AppEnv == "dev"))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins...))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(r.Group("", limiter.Limit()))

	adminPages := r.Group("/admin", middleware.AdminGate(jwtService, cfg.SessionCookie))
	adminPages.GET("", adminIndex)
	adminPages.GET("/*path", adminIndex)

	api := r.Group("/api", middleware.OptionalAuth(jwtService, cfg.SessionCookie))
	recipeHandler.RegisterPublicRoutes(api)
	mealHandler.RegisterRoutes(api)
	favoriteHandler.RegisterRoutes(api)
	shoppingHandler.RegisterRoutes(api)
	authHandler.RegisterProtectedRoutes(api.Group("", middleware.JWTAuth(jwtService, cfg.SessionCookie)))

	admin := api.Group("/admin", limitWrites(limiter))
	if cfg.AdminRequireSession {
		admin.Use(middleware.AdminGate(jwtService, cfg.SessionCookie))
	}
	recipeHandler.RegisterAdminRoutes(admin)
	mealHandler.RegisterAdminRoutes(admin)

	return sm.LoadAndSave(r)
}

// adminIndex points signed-in browsers at the admin API.
func adminIndex(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"recipes":    "/api/admin/recipes",
		"tags":       "/api/admin/tags",
		"categories": "/api/admin/categories",
	})
}

func limitWrites(limiter *middleware.RateLimiter) gin.HandlerFunc {
	limit := limiter.Limit()
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		limit(c)
	}
}

// originChecker allows websocket handshakes from the site itself and from
// the configured CORS origins.
func originChecker(cfg *config.Config) func(r *http.Request) bool {
	allowed := map[string]bool{}
	for _, o := range cfg.CORSAllowedOrigins {
		allowed[o] = true
	}
	if cfg.SiteURL != "" {
		allowed[cfg.SiteURL] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowed[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
