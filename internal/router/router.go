package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/company-site-api/internal/config"
	"github.com/noah-isme/company-site-api/internal/handler"
	"github.com/noah-isme/company-site-api/internal/middleware"
	"github.com/noah-isme/company-site-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ProductHandler        *handler.ProductHandler
	VariantHandler        *handler.VariantHandler
	SpecificationHandler  *handler.SpecificationHandler
	ProjectHandler        *handler.ProjectHandler
	BannerHandler         *handler.BannerHandler
	MenuHandler           *handler.MenuHandler
	SettingHandler        *handler.SettingHandler
	ContactHandler        *handler.ContactHandler
	DownloadHandler       *handler.DownloadHandler
	AuthHandler           *handler.AuthHandler
	ProfileHandler        *handler.ProfileHandler
	AdminContactHandler   *handler.AdminContactHandler
	AdminActivityHandler  *handler.AdminActivityHandler
	ActivityFeedHandler   *handler.ActivityFeedHandler
	AdminAnalyticsHandler *handler.AdminAnalyticsHandler
	SeedHandler           *handler.SeedHandler
	HealthProbes          []handler.HealthProbe
	Users                 middleware.UserLookup
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))
	app.Get("/metrics", observability.MetricsHandler())

	auditContext := middleware.AuditContext(deps.Users)

	// Public site: visitors are guests unless they present a console token.
	// Each section gets its own group so the admin prefix is not matched.
	optionalAuth := middleware.OptionalJWT(cfg.JWTSecret)
	public := func(prefix string, extra ...fiber.Handler) fiber.Router {
		handlers := append([]fiber.Handler{optionalAuth, auditContext}, extra...)
		return app.Group("/api"+prefix, handlers...)
	}

	if deps.ProductHandler != nil {
		deps.ProductHandler.RegisterPublic(public("/products"))
	}
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.RegisterPublic(public("/projects"))
	}
	if deps.SpecificationHandler != nil {
		deps.SpecificationHandler.RegisterPublic(public("/specifications"))
	}
	if deps.BannerHandler != nil {
		deps.BannerHandler.RegisterPublic(public("/banners"))
	}
	if deps.MenuHandler != nil {
		deps.MenuHandler.RegisterPublic(public("/menus"))
	}
	if deps.SettingHandler != nil {
		deps.SettingHandler.RegisterPublic(public("/settings"))
	}
	if deps.ContactHandler != nil {
		deps.ContactHandler.Register(public("/contact", middleware.RateLimit("contact", cfg.ContactRateLimitMax, cfg.ContactRateLimitWindow)))
	}
	if deps.DownloadHandler != nil {
		deps.DownloadHandler.Register(public("/downloads", middleware.RateLimit("downloads", cfg.ContactRateLimitMax*4, cfg.ContactRateLimitWindow)))
	}
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterLogin(public("/auth", middleware.RateLimit("login", 10, time.Minute)))
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(public("/seed"))
	}

	// Admin console.
	admin := app.Group("/api/admin",
		middleware.JWTProtected(cfg.JWTSecret),
		auditContext,
		middleware.RequireActiveUser(),
		middleware.RequireRole(middleware.AuthRoleEditor),
	)
	adminOnly := middleware.RequireRole(middleware.AuthRoleAdmin)

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterLogout(admin.Group("/auth"))
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.Register(admin.Group("/profile"))
	}
	if deps.ProductHandler != nil {
		deps.ProductHandler.RegisterAdmin(admin.Group("/products"))
	}
	if deps.VariantHandler != nil {
		deps.VariantHandler.Register(admin.Group("/products/:productId/variants"))
	}
	if deps.SpecificationHandler != nil {
		deps.SpecificationHandler.RegisterAdmin(admin.Group("/specifications"))
		deps.SpecificationHandler.RegisterVariant(admin.Group("/products/:productId/variants/:variantId/specifications"))
	}
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.RegisterAdmin(admin.Group("/projects"))
	}
	if deps.BannerHandler != nil {
		deps.BannerHandler.RegisterAdmin(admin.Group("/banners"))
	}
	if deps.MenuHandler != nil {
		deps.MenuHandler.RegisterAdmin(admin.Group("/menus"))
	}
	if deps.SettingHandler != nil {
		deps.SettingHandler.RegisterAdmin(admin.Group("/settings", adminOnly))
	}
	if deps.AdminContactHandler != nil {
		deps.AdminContactHandler.Register(admin.Group("/contacts"))
	}
	if deps.ActivityFeedHandler != nil {
		deps.ActivityFeedHandler.Register(admin.Group("/activity"))
	}
	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin.Group("/activity-logs", adminOnly))
	}
	if deps.AdminAnalyticsHandler != nil {
		deps.AdminAnalyticsHandler.Register(admin.Group("/analytics", adminOnly))
	}
}
