package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/company-site-api/internal/audit"
	"github.com/noah-isme/company-site-api/internal/config"
	"github.com/noah-isme/company-site-api/internal/database"
	"github.com/noah-isme/company-site-api/internal/handler"
	"github.com/noah-isme/company-site-api/internal/middleware"
	"github.com/noah-isme/company-site-api/internal/models"
	"github.com/noah-isme/company-site-api/internal/repository"
	"github.com/noah-isme/company-site-api/internal/router"
	"github.com/noah-isme/company-site-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", cfg.AppName).Logger()

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelBoot()

	db, err := database.ConnectPostgres(bootCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Specification{},
		&models.ProductSpecification{},
		&models.Project{},
		&models.Banner{},
		&models.Menu{},
		&models.MenuItem{},
		&models.ContactMessage{},
		&models.Setting{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis only backs caches and contact de-duplication; run without it when unset.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(bootCtx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured; caching and contact de-duplication disabled")
	}

	var delivery service.ContactDelivery = service.NewLogContactDelivery(logger)
	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
		delivery = service.NewNATSContactDelivery(natsConn, cfg.NATSContactSubject, logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)
	auditLogger := audit.NewLogger(repos.ActivityLogs, logger)

	productService := service.NewProductService(repos.Products, uow, auditLogger, validate, logger)
	variantService := service.NewProductVariantService(repos.Variants, uow, auditLogger, validate, logger)
	specificationService := service.NewSpecificationService(repos.Specifications, uow, auditLogger, validate, logger)
	variantSpecService := service.NewProductSpecificationService(repos.Variants, repos.ProductSpecifications, uow, auditLogger, validate, logger)
	bannerService := service.NewBannerService(repos.Banners, uow, auditLogger, validate, logger)
	menuService := service.NewMenuService(repos.Menus, uow, auditLogger, validate, logger)
	projectService := service.NewProjectService(repos.Projects, uow, auditLogger, validate, logger)
	settingService := service.NewSettingService(repos.Settings, uow, auditLogger, validate, logger)
	contactService := service.NewContactService(uow, auditLogger, redisClient, validate, delivery, logger, service.WithDedupeTTL(cfg.ContactDedupeTTL))
	adminContactService := service.NewAdminContactService(repos.ContactMessages, uow, auditLogger, validate, logger)
	downloadService := service.NewDownloadService(repos.Products, repos.Projects, auditLogger, validate, logger)
	authService := service.NewAuthService(repos.Users, uow, auditLogger, validate, cfg.JWTSecret, cfg.JWTTokenTTL, logger)
	profileService := service.NewProfileService(repos.Users, uow, auditLogger, validate, logger)
	activityService := service.NewActivityService(repos.ActivityLogs, logger)
	feedService := service.NewActivityFeedService(repos.ActivityLogs, redisClient, cfg.FeedCacheTTL, logger)
	analyticsService := service.NewAdminAnalyticsService(repository.NewAdminAnalyticsRepository(db), redisClient, cfg.AnalyticsCacheTTL, logger)
	seedService := service.NewSeedService(uow, repos.Users, auditLogger, validate, cfg.SeedEnabled, cfg.SeedToken, logger)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := seedService.EnsureAdmin(bootCtx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("failed to bootstrap admin account: %v", err)
		}
		if created {
			logger.Info().Str("username", cfg.AdminUsername).Msg("bootstrap admin account created")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ProxyHeader:  fiber.HeaderXForwardedFor,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:    cfg.AccessLog,
	})
	router.Register(app, cfg, router.Dependencies{
		ProductHandler:        handler.NewProductHandler(productService, logger),
		VariantHandler:        handler.NewVariantHandler(variantService, logger),
		SpecificationHandler:  handler.NewSpecificationHandler(specificationService, variantSpecService, logger),
		ProjectHandler:        handler.NewProjectHandler(projectService, logger),
		BannerHandler:         handler.NewBannerHandler(bannerService, logger),
		MenuHandler:           handler.NewMenuHandler(menuService, logger),
		SettingHandler:        handler.NewSettingHandler(settingService, logger),
		ContactHandler:        handler.NewContactHandler(contactService, logger),
		DownloadHandler:       handler.NewDownloadHandler(downloadService, logger),
		AuthHandler:           handler.NewAuthHandler(authService, logger),
		ProfileHandler:        handler.NewProfileHandler(profileService, logger),
		AdminContactHandler:   handler.NewAdminContactHandler(adminContactService, logger),
		AdminActivityHandler:  handler.NewAdminActivityHandler(activityService, logger),
		ActivityFeedHandler:   handler.NewActivityFeedHandler(feedService, logger),
		AdminAnalyticsHandler: handler.NewAdminAnalyticsHandler(analyticsService, logger),
		SeedHandler:           handler.NewSeedHandler(seedService, logger),
		HealthProbes:          healthProbes(db, redisClient, natsConn),
		Users:                 repos.Users,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func healthProbes(db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) []handler.HealthProbe {
	probes := []handler.HealthProbe{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if redisClient != nil {
		probes = append(probes, handler.HealthProbe{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	if natsConn != nil {
		probes = append(probes, handler.HealthProbe{
			Name: "nats",
			Check: func(context.Context) error {
				if !natsConn.IsConnected() {
					return nats.ErrConnectionClosed
				}
				return nil
			},
		})
	}
	return probes
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
