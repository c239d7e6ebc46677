package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/billing"
	campaignapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/campaign"
	catalogapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/catalog"
	customerapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/customer"
	identityapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/identity"
	messagingapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/messaging"
	onboardingapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/onboarding"
	orderapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/order"
	receiptapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/receipt"
	storeapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/store"
	storefrontapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/storefront"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/identity"
	domainmessaging "github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/messaging"
	domainstorefront "github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/storefront"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/auth"
	infrabilling "github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/billing"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/cache"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/config"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/event"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/logger"
	inframessaging "github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/messaging"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/persistence"
	infrareceipt "github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/receipt"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/scheduler"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/shipping"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/storage"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/telemetry"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/handler"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/Rokin-Inteligencia/roksell-sub000/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Roksell API
//	@version		1.0
//	@description	Multi-tenant commerce platform API: catalog, campaigns, orders, billing and public storefront.

//	@contact.name	API Support
//	@contact.email	suporte@roksell.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is stamped at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	isProduction := cfg.App.Env == "production"

	log.Info("Starting Roksell",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	rootCtx := context.Background()

	// OpenTelemetry tracing and metrics. Both providers degrade to
	// no-ops when telemetry is disabled.
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(rootCtx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// OTEL log export: tee zap into the collector alongside stdout
	logsProvider, err := telemetry.NewLoggerProvider(rootCtx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		bridgeLevel, perr := zapcore.ParseLevel(cfg.Log.Level)
		if perr != nil {
			bridgeLevel = zapcore.InfoLevel
		}
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: logsProvider,
			Level:          bridgeLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore,
			zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	// Continuous profiling (Pyroscope)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Profiler.Enabled,
		ServerAddress:       cfg.Profiler.ServerAddress,
		ApplicationName:     cfg.Profiler.ApplicationName,
		BasicAuthUser:       cfg.Profiler.BasicAuthUser,
		BasicAuthPassword:   cfg.Profiler.BasicAuthPassword,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Query tracing via otelgorm
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			WithoutVariables: isProduction,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Query latency and connection pool metrics
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.Enabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	} else if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(rootCtx)
		defer dbMetrics.Stop()
	}

	// Redis backs carts, module access caching, token revocation and
	// event idempotency. Production refuses to start without it; in
	// development everything falls back to in-process stores.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(rootCtx).Err(); err != nil {
		if isProduction {
			log.Fatal("Redis is required in production", zap.Error(err))
		}
		log.Warn("Redis unavailable, falling back to in-process stores", zap.Error(err))
		_ = redisClient.Close()
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected successfully")
	}

	// Object storage for product media and receipt PDFs. Without
	// credentials a stub serves placeholder URLs.
	var (
		objectStorage  catalogapp.ObjectStorageService
		receiptStorage receiptapp.ObjectStorage
		mediaURLs      storefrontapp.MediaURLResolver
	)
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if !isProduction {
			if err := s3Storage.EnsureBucket(rootCtx); err != nil {
				log.Warn("Failed to ensure storage bucket", zap.Error(err))
			}
		}
		objectStorage = s3Storage
		receiptStorage = s3Storage
		mediaURLs = s3Storage
		log.Info("Object storage configured", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		if isProduction {
			log.Fatal("Object storage credentials are required in production")
		}
		stub := storage.NewStubObjectStorage()
		objectStorage = stub
		receiptStorage = stub
		mediaURLs = stub
		log.Warn("Object storage credentials missing, using stub storage")
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	groupRepo := persistence.NewGormGroupRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	planModuleRepo := persistence.NewGormPlanModuleRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	productMediaRepo := persistence.NewGormProductMediaRepository(db.DB)
	additionalGroupRepo := persistence.NewGormAdditionalGroupRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	channelConfigRepo := persistence.NewGormChannelConfigRepository(db.DB)
	onboardingRepo := persistence.NewGormOnboardingRepository(db.DB)
	usageCounters := persistence.NewGormUsageCounters(db.DB)

	// JWT and token revocation
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	if redisClient != nil {
		tokenBlacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
	} else {
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Module access cache: local LRU in front of Redis with pub/sub
	// invalidation so plan changes propagate across instances
	var moduleCache identity.ModuleAccessCache
	if redisClient != nil {
		localCache := cache.NewInMemoryModuleAccessCache()
		sharedCache := cache.NewRedisModuleAccessCacheWithClient(redisClient)
		invalidator := cache.NewRedisModuleCacheInvalidatorWithClient(redisClient)
		tieredCache := cache.NewTieredModuleAccessCache(localCache, sharedCache, invalidator,
			cache.WithTieredLogger(log))
		go func() {
			if err := tieredCache.StartInvalidationSubscription(rootCtx); err != nil {
				log.Warn("Module cache invalidation subscription stopped", zap.Error(err))
			}
		}()
		moduleCache = tieredCache
	} else {
		moduleCache = cache.NewInMemoryModuleAccessCache()
	}

	// Idempotency store for event handlers
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!isProduction),
	)
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Storefront cart and checkout preview caching
	var cartStore domainstorefront.CartStore
	var previewCache storefrontapp.PreviewCache
	if redisClient != nil {
		cartStore = cache.NewRedisCartStore(redisClient, cfg.Storefront.CartTTL, log)
		previewCache = cache.NewRedisPreviewCache(redisClient, cfg.Storefront.PreviewCacheTTL, log)
	} else {
		cartStore = cache.NewInMemoryCartStore(cfg.Storefront.CartTTL)
	}

	// Stripe payment gateway. A placeholder test key keeps billing
	// wired in development without real charges.
	stripeCfg := infrabilling.DefaultStripeConfig()
	stripeCfg.SecretKey = cfg.Stripe.SecretKey
	stripeCfg.PublishableKey = cfg.Stripe.PublishableKey
	stripeCfg.WebhookSecret = cfg.Stripe.WebhookSecret
	stripeCfg.IsTestMode = cfg.Stripe.IsTestMode
	if cfg.Stripe.DefaultCurrency != "" {
		stripeCfg.DefaultCurrency = cfg.Stripe.DefaultCurrency
	}
	if len(cfg.Stripe.PriceIDs) > 0 {
		stripeCfg.PriceIDs = cfg.Stripe.PriceIDs
	}
	stripeCfg.SuccessURL = cfg.Stripe.SuccessURL
	stripeCfg.CancelURL = cfg.Stripe.CancelURL
	stripeCfg.BillingPortalReturnURL = cfg.Stripe.BillingPortalReturnURL
	if stripeCfg.SecretKey == "" {
		if isProduction {
			log.Fatal("Stripe secret key is required in production")
		}
		stripeCfg.SecretKey = "sk_test_unconfigured"
		stripeCfg.IsTestMode = true
		log.Warn("Stripe secret key missing, billing runs against a placeholder test key")
	}
	stripeGateway, err := infrabilling.NewStripeGateway(stripeCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize Stripe gateway", zap.Error(err))
	}

	// Outbound notification providers
	whatsappCfg := inframessaging.NewWhatsAppConfig()
	if cfg.Messaging.WhatsAppAPIURL != "" {
		whatsappCfg.BaseURL = cfg.Messaging.WhatsAppAPIURL
	}
	if cfg.Messaging.TimeoutSeconds > 0 {
		whatsappCfg.TimeoutSeconds = cfg.Messaging.TimeoutSeconds
	}
	whatsappNotifier, err := inframessaging.NewWhatsAppNotifier(whatsappCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize WhatsApp notifier", zap.Error(err))
	}
	telegramCfg := inframessaging.NewTelegramConfig()
	if cfg.Messaging.TelegramAPIURL != "" {
		telegramCfg.BaseURL = cfg.Messaging.TelegramAPIURL
	}
	if cfg.Messaging.TimeoutSeconds > 0 {
		telegramCfg.TimeoutSeconds = cfg.Messaging.TimeoutSeconds
	}
	telegramNotifier, err := inframessaging.NewTelegramNotifier(telegramCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
	}
	notifiers := []domainmessaging.Notifier{whatsappNotifier, telegramNotifier}

	// Receipt PDF rendering via headless Chrome
	receiptRenderer := infrareceipt.NewChromedpRenderer(infrareceipt.ChromedpConfig{
		Timeout:   cfg.Receipt.RenderTimeout,
		RemoteURL: cfg.Receipt.ChromeRemoteURL,
		NoSandbox: cfg.Receipt.NoSandbox,
		Logger:    log,
	})
	defer func() {
		if err := receiptRenderer.Close(); err != nil {
			log.Error("Error closing receipt renderer", zap.Error(err))
		}
	}()

	// Delivery quote carrier. Disabled means checkout falls back to
	// the store's flat delivery fee.
	var shippingQuoter domainstorefront.ShippingQuoter
	if cfg.Shipping.CarrierEnabled {
		carrierQuoter, err := shipping.NewCarrierQuoter(&cfg.Shipping, log)
		if err != nil {
			log.Fatal("Failed to initialize carrier quoter", zap.Error(err))
		}
		shippingQuoter = carrierQuoter
		log.Info("Carrier delivery quotes enabled", zap.String("base_url", cfg.Shipping.CarrierBaseURL))
	}

	// Initialize application services
	entitlementService := billingapp.NewEntitlementService(tenantRepo, planRepo, planModuleRepo, usageCounters, log)
	authService := identityapp.NewAuthService(userRepo, groupRepo, tenantRepo, jwtService, tokenBlacklist,
		identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, groupRepo, tenantRepo, log)
	groupService := identityapp.NewGroupService(groupRepo, userRepo, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, groupRepo,
		identityapp.DefaultTenantServiceConfig(), log)
	planModuleService := identityapp.NewPlanModuleService(planModuleRepo, tenantRepo, log)
	planModuleService.SetAccessCache(moduleCache)
	subscriptionService := billingapp.NewSubscriptionService(subscriptionRepo, planRepo, tenantRepo, stripeGateway, log)
	storeService := storeapp.NewStoreService(storeRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo, storeRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, additionalGroupRepo, storeRepo, entitlementService)
	mediaService := catalogapp.NewMediaService(productMediaRepo, productRepo, objectStorage, log)
	additionalGroupService := catalogapp.NewAdditionalGroupService(additionalGroupRepo, storeRepo)
	campaignService := campaignapp.NewCampaignService(campaignRepo, entitlementService)
	customerService := customerapp.NewCustomerService(customerRepo)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, storeRepo, log)
	messagingService := messagingapp.NewMessagingService(channelConfigRepo, notifiers, log)
	onboardingService := onboardingapp.NewOnboardingService(onboardingRepo, storeRepo, log)
	receiptService := receiptapp.NewService(orderRepo, storeRepo, receiptRenderer, receiptStorage, log)
	receiptService.SetURLExpiry(cfg.Receipt.URLExpiry)
	cartService := storefrontapp.NewCartService(cartStore, storeRepo, productRepo, additionalGroupRepo)
	catalogViewService := storefrontapp.NewCatalogViewService(storeRepo, categoryRepo, productRepo,
		additionalGroupRepo, productMediaRepo, mediaURLs, log)
	checkoutService := storefrontapp.NewCheckoutService(storeRepo, cartStore, productRepo, additionalGroupRepo,
		campaignRepo, orderRepo, customerRepo, customerService, shippingQuoter, previewCache, log)

	// Seed the built-in plan catalog
	if err := subscriptionService.SeedPlans(rootCtx); err != nil {
		log.Warn("Failed to seed plan catalog", zap.Error(err))
	}

	// Event bus wiring. Order lifecycle events fan out to customer
	// notifications; the idempotency store keeps redeliveries from
	// double-sending.
	eventBus := event.NewInMemoryEventBus(log)
	dispatcher := messagingapp.NewNotificationDispatcher(channelConfigRepo, storeRepo, notifiers, log)
	eventBus.Subscribe(event.NewIdempotentHandler(dispatcher, idempotencyStore, log))
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	tenantService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	messagingService.SetEventPublisher(eventBus)
	subscriptionService.SetEventPublisher(eventBus)
	checkoutService.SetEventPublisher(eventBus)
	onboardingService.SetEventPublisher(eventBus)

	// Stripe webhook processing publishes subscription lifecycle events
	webhookService := billingapp.NewStripeWebhookService(billingapp.StripeWebhookServiceConfig{
		Config:           stripeCfg,
		SubscriptionRepo: subscriptionRepo,
		PlanRepo:         planRepo,
		TenantRepo:       tenantRepo,
		EventPublisher:   eventBus,
		Logger:           log,
	})

	// Background maintenance: campaign expiry sweeps and stale media
	// cleanup
	maintenanceExecutor := scheduler.NewMaintenanceExecutor(campaignService, mediaService,
		scheduler.DefaultMaintenanceExecutorConfig(), log)
	maintenanceScheduler := scheduler.NewScheduler(scheduler.DefaultSchedulerConfig(), maintenanceExecutor, log)
	if err := maintenanceScheduler.Start(rootCtx); err != nil {
		log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := maintenanceScheduler.Stop(stopCtx); err != nil {
			log.Error("Error stopping maintenance scheduler", zap.Error(err))
		}
	}()
	cronTrigger := scheduler.NewCronTrigger(scheduler.DefaultCronTriggerConfig(), maintenanceScheduler, log)
	if err := cronTrigger.Start(rootCtx); err != nil {
		log.Fatal("Failed to start cron trigger", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cronTrigger.Stop(stopCtx); err != nil {
			log.Error("Error stopping cron trigger", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	groupHandler := handler.NewGroupHandler(groupService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	storeHandler := handler.NewStoreHandler(storeService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	additionalGroupHandler := handler.NewAdditionalGroupHandler(additionalGroupService)
	campaignHandler := handler.NewCampaignHandler(campaignService)
	customerHandler := handler.NewCustomerHandler(customerService)
	orderHandler := handler.NewOrderHandler(orderService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	billingHandler := handler.NewBillingHandler(subscriptionService, entitlementService, webhookService)
	messagingHandler := handler.NewMessagingHandler(messagingService)
	onboardingHandler := handler.NewOnboardingHandler(onboardingService)
	storefrontHandler := handler.NewStorefrontHandler(tenantRepo, storeRepo, catalogViewService, cartService, checkoutService)
	systemHandler := handler.NewSystemHandler(db, redisClient, version)

	// Set Gin mode based on environment
	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics/Profiling - Telemetry (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanEnrichment())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Profiler.Enabled {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health and readiness endpoints (outside API versioning)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:     cfg.Swagger.Enabled,
				RequireAuth: cfg.Swagger.RequireAuth,
				AllowedIPs:  cfg.Swagger.AllowedIPs,
			}, middleware.JWTAuthMiddleware(jwtService)),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Stripe webhook endpoint (signature-verified, no JWT)
	engine.POST("/api/v1/billing/webhook", billingHandler.Webhook)

	// Public storefront API, scoped by store slug
	storefrontGroup := engine.Group("/api/v1/store/:slug")
	storefrontGroup.Use(middleware.StorefrontSlugMiddleware())
	storefrontGroup.GET("/profile", storefrontHandler.GetProfile)
	storefrontGroup.GET("/catalog", storefrontHandler.GetCatalog)
	storefrontGroup.GET("/cart", storefrontHandler.GetCart)
	storefrontGroup.POST("/cart/items", storefrontHandler.AddCartItem)
	storefrontGroup.PUT("/cart/items/:item_id", storefrontHandler.UpdateCartItem)
	storefrontGroup.DELETE("/cart/items/:item_id", storefrontHandler.RemoveCartItem)
	storefrontGroup.DELETE("/cart", storefrontHandler.ClearCart)
	storefrontGroup.POST("/checkout/preview", storefrontHandler.PreviewCheckout)
	storefrontGroup.POST("/checkout", storefrontHandler.PlaceOrder)
	storefrontGroup.GET("/orders/:number/track", storefrontHandler.TrackOrder)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tenant signup is the one JWT-free admin route; everything else
	// public lives under /store or the webhook.
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.SkipPaths = append(jwtConfig.SkipPaths, "/api/v1/tenants/register")
	jwtConfig.Logger = log
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.SkipPaths = append(tenantConfig.SkipPaths, "/api/v1/tenants/register")
	tenantConfig.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	scopeConfig := middleware.DefaultStoreScopeConfig()
	scopeConfig.SkipPaths = append(scopeConfig.SkipPaths, "/api/v1/tenants/register")
	scopeConfig.Logger = log
	r.Use(middleware.StoreScopeMiddlewareWithConfig(scopeConfig))

	// Stricter rate limit on credential endpoints
	var authLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit = middleware.RateLimit(authLimiter)
	}

	// Register domain route groups

	authRoutes := router.NewDomainGroup("auth", "/auth")
	if authLimit != nil {
		authRoutes.POST("/login", authLimit, authHandler.Login)
		authRoutes.POST("/refresh", authLimit, authHandler.Refresh)
	} else {
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
	}
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Platform-scope tenant management plus public signup
	tenantRoutes := router.NewDomainGroup("tenants", "/tenants")
	tenantRoutes.POST("/register", tenantHandler.Register)
	tenantRoutes.GET("", tenantHandler.List)
	tenantRoutes.GET("/:id", tenantHandler.GetByID)
	tenantRoutes.PUT("/:id/plan", tenantHandler.SetPlan)
	tenantRoutes.POST("/:id/activate", tenantHandler.Activate)
	tenantRoutes.POST("/:id/deactivate", tenantHandler.Deactivate)
	tenantRoutes.POST("/:id/suspend", tenantHandler.Suspend)

	// Tenant self-service profile
	tenantSelfRoutes := router.NewDomainGroup("tenant", "/tenant")
	tenantSelfRoutes.GET("", tenantHandler.GetSelf)
	tenantSelfRoutes.PUT("", tenantHandler.UpdateSelf)

	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.ModuleGate(planModuleService, identity.ModuleUsers))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/groups", userHandler.SetGroups)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	userRoutes.DELETE("/:id", userHandler.Delete)

	groupRoutes := router.NewDomainGroup("groups", "/groups")
	groupRoutes.Use(middleware.ModuleGate(planModuleService, identity.ModuleUsers))
	groupRoutes.POST("", groupHandler.Create)
	groupRoutes.GET("", groupHandler.List)
	groupRoutes.GET("/:id", groupHandler.GetByID)
	groupRoutes.PUT("/:id", groupHandler.Update)
	groupRoutes.PUT("/:id/permissions", groupHandler.SetPermissions)
	groupRoutes.PUT("/:id/store-scope", groupHandler.SetStoreScope)
	groupRoutes.GET("/:id/users", groupHandler.ListUsers)
	groupRoutes.DELETE("/:id", groupHandler.Delete)

	storeRoutes := router.NewDomainGroup("stores", "/stores")
	storeRoutes.Use(middleware.ModuleGate(planModuleService, identity.ModuleStores))
	storeRoutes.POST("", storeHandler.Create)
	storeRoutes.GET("", storeHandler.List)
	storeRoutes.GET("/default", storeHandler.GetDefault)
	storeRoutes.GET("/:id", storeHandler.GetByID)
	storeRoutes.PUT("/:id", storeHandler.Update)
	storeRoutes.PUT("/:id/settings", storeHandler.UpdateSettings)
	storeRoutes.GET("/:id/schedule", storeHandler.GetSchedule)
	storeRoutes.PUT("/:id/schedule", storeHandler.PutSchedule)
	storeRoutes.PUT("/:id/blocked-dates", storeHandler.PutBlockedDates)
	storeRoutes.POST("/:id/default", storeHandler.SetDefault)
	storeRoutes.POST("/:id/activate", storeHandler.Activate)
	storeRoutes.POST("/:id/deactivate", storeHandler.Deactivate)
	storeRoutes.DELETE("/:id", storeHandler.Delete)

	catalogGate := middleware.ModuleGate(planModuleService, identity.ModuleCatalog)

	categoryRoutes := router.NewDomainGroup("categories", "/categories")
	categoryRoutes.Use(catalogGate)
	categoryRoutes.POST("", categoryHandler.Create)
	categoryRoutes.GET("", categoryHandler.List)
	categoryRoutes.POST("/reorder", categoryHandler.Reorder)
	categoryRoutes.GET("/:id", categoryHandler.GetByID)
	categoryRoutes.PUT("/:id", categoryHandler.Update)
	categoryRoutes.POST("/:id/activate", categoryHandler.Activate)
	categoryRoutes.POST("/:id/deactivate", categoryHandler.Deactivate)
	categoryRoutes.DELETE("/:id", categoryHandler.Delete)

	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.Use(catalogGate)
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.GetByID)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.PUT("/:id/stock", productHandler.SetStock)
	productRoutes.PUT("/:id/additional-groups", productHandler.SetGroups)
	productRoutes.POST("/:id/activate", productHandler.Activate)
	productRoutes.POST("/:id/deactivate", productHandler.Deactivate)
	productRoutes.DELETE("/:id", productHandler.Delete)
	productRoutes.GET("/:id/media", mediaHandler.ListByProduct)
	productRoutes.POST("/:id/media/reorder", mediaHandler.Reorder)

	mediaRoutes := router.NewDomainGroup("media", "/media")
	mediaRoutes.Use(catalogGate)
	mediaRoutes.POST("/presign", mediaHandler.PresignUpload)
	mediaRoutes.POST("/:id/confirm", mediaHandler.ConfirmUpload)
	mediaRoutes.POST("/:id/cover", mediaHandler.SetCover)
	mediaRoutes.DELETE("/:id", mediaHandler.Delete)

	additionalGroupRoutes := router.NewDomainGroup("additional-groups", "/additional-groups")
	additionalGroupRoutes.Use(catalogGate)
	additionalGroupRoutes.POST("", additionalGroupHandler.Create)
	additionalGroupRoutes.GET("", additionalGroupHandler.List)
	additionalGroupRoutes.GET("/:id", additionalGroupHandler.GetByID)
	additionalGroupRoutes.PUT("/:id", additionalGroupHandler.Update)
	additionalGroupRoutes.POST("/:id/items", additionalGroupHandler.AddItem)
	additionalGroupRoutes.PUT("/:id/items/:item_id", additionalGroupHandler.UpdateItem)
	additionalGroupRoutes.PUT("/:id/items/:item_id/active", additionalGroupHandler.SetItemActive)
	additionalGroupRoutes.DELETE("/:id/items/:item_id", additionalGroupHandler.RemoveItem)
	additionalGroupRoutes.POST("/:id/activate", additionalGroupHandler.Activate)
	additionalGroupRoutes.POST("/:id/deactivate", additionalGroupHandler.Deactivate)
	additionalGroupRoutes.DELETE("/:id", additionalGroupHandler.Delete)

	campaignRoutes := router.NewDomainGroup("campaigns", "/campaigns")
	campaignRoutes.Use(middleware.ModuleGate(planModuleService, identity.ModuleCampaigns))
	campaignRoutes.POST("", campaignHandler.Create)
	campaignRoutes.GET("", campaignHandler.List)
	campaignRoutes.GET("/:id", campaignHandler.GetByID)
	campaignRoutes.PUT("/:id", campaignHandler.Update)
	campaignRoutes.POST("/:id/activate", campaignHandler.Activate)
	campaignRoutes.POST("/:id/pause", campaignHandler.Pause)
	campaignRoutes.DELETE("/:id", campaignHandler.Delete)

	customerRoutes := router.NewDomainGroup("customers", "/customers")
	customerRoutes.Use(middleware.ModuleGate(planModuleService, identity.ModuleCustomers))
	customerRoutes.POST("", customerHandler.Create)
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/:id", customerHandler.GetByID)
	customerRoutes.PUT("/:id", customerHandler.Update)
	customerRoutes.POST("/:id/addresses", customerHandler.AddAddress)
	customerRoutes.PUT("/:id/addresses/:index", customerHandler.UpdateAddress)
	customerRoutes.DELETE("/:id/addresses/:index", customerHandler.RemoveAddress)
	customerRoutes.DELETE("/:id", customerHandler.Delete)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(middleware.ModuleGate(planModuleService, identity.ModuleOrders))
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/board", orderHandler.ActiveBoard)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.PUT("/:id/status", orderHandler.UpdateStatus)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.GET("/:id/receipt", receiptHandler.GetReceipt)

	// Order summaries sit behind the reports module
	reportRoutes := router.NewDomainGroup("reports", "/orders")
	reportRoutes.Use(middleware.ModuleGate(planModuleService, identity.ModuleReports))
	reportRoutes.GET("/summary", orderHandler.Summary)

	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.GET("/plans", billingHandler.ListPlans)
	billingRoutes.GET("/subscription", billingHandler.GetSubscription)
	billingRoutes.GET("/usage", billingHandler.GetUsage)
	billingRoutes.POST("/checkout", billingHandler.StartCheckout)
	billingRoutes.POST("/subscription/cancel", billingHandler.CancelAtPeriodEnd)
	billingRoutes.POST("/subscription/resume", billingHandler.ResumeAutoRenew)
	billingRoutes.POST("/portal", billingHandler.OpenPortal)

	messagingRoutes := router.NewDomainGroup("messaging", "/messaging")
	messagingRoutes.Use(middleware.ModuleGate(planModuleService, identity.ModuleMessaging))
	messagingRoutes.GET("/channels", messagingHandler.ListChannels)
	messagingRoutes.GET("/channels/:channel", messagingHandler.GetChannel)
	messagingRoutes.PUT("/channels/:channel", messagingHandler.UpdateChannel)
	messagingRoutes.POST("/channels/:channel/test", messagingHandler.TestSend)
	messagingRoutes.POST("/channels/:channel/verify", messagingHandler.VerifyChannel)
	messagingRoutes.DELETE("/channels/:channel", messagingHandler.DeleteChannel)

	onboardingRoutes := router.NewDomainGroup("onboarding", "/onboarding")
	onboardingRoutes.GET("", onboardingHandler.GetState)
	onboardingRoutes.POST("/steps/:step/complete", onboardingHandler.CompleteStep)
	onboardingRoutes.POST("/steps/:step/skip", onboardingHandler.SkipStep)

	r.Register(authRoutes).
		Register(tenantRoutes).
		Register(tenantSelfRoutes).
		Register(userRoutes).
		Register(groupRoutes).
		Register(storeRoutes).
		Register(categoryRoutes).
		Register(productRoutes).
		Register(mediaRoutes).
		Register(additionalGroupRoutes).
		Register(campaignRoutes).
		Register(customerRoutes).
		Register(orderRoutes).
		Register(reportRoutes).
		Register(billingRoutes).
		Register(messagingRoutes).
		Register(onboardingRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
