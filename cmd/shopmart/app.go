package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agamariel/shopmart/internal/auth"
	"github.com/agamariel/shopmart/internal/cache"
	"github.com/agamariel/shopmart/internal/config"
	"github.com/agamariel/shopmart/internal/events"
	"github.com/agamariel/shopmart/internal/handlers"
	"github.com/agamariel/shopmart/internal/metrics"
	"github.com/agamariel/shopmart/internal/migrations"
	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/seo"
	"github.com/agamariel/shopmart/internal/services"
	"github.com/agamariel/shopmart/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const serviceName = "shopmart"

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg       *config.Config
	dbPool    *pgxpool.Pool
	echo      *echo.Echo
	cache     cache.Cache
	publisher events.Publisher
	generator seo.Generator
	metrics   *metrics.ShopMetrics
	logger    *log.Entry

	// Handlers
	userHandler    *handlers.UserHandler
	productHandler *handlers.ProductHandler
	orderHandler   *handlers.OrderHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		cfg:    cfg,
		logger: log.WithField("component", "app"),
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initIntegrations(ctx); err != nil {
		app.dbPool.Close()
		return nil, fmt.Errorf("failed to initialize integrations: %w", err)
	}

	app.initDependencies()
	app.initServer()

	return app, nil
}

// initDatabase подключается к PostgreSQL и применяет миграции.
func (app *App) initDatabase(ctx context.Context) error {
	if app.cfg.DatabaseURI == "" {
		return errors.New("DATABASE_URI is required")
	}

	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.logger.Info("running database migrations")
	sqlDB := stdlib.OpenDBFromPool(dbPool)
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB); err != nil {
		dbPool.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Info("migrations completed successfully")

	app.dbPool = dbPool
	return nil
}

// initIntegrations поднимает необязательные внешние зависимости: Redis, Kafka и генератор SEO.
// Незаданный адрес означает отключённую интеграцию.
func (app *App) initIntegrations(ctx context.Context) error {
	app.cache = cache.NopCache{ServiceName: serviceName}
	if app.cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(app.cfg.RedisAddr, serviceName)
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return fmt.Errorf("redis ping: %w", err)
		}
		app.cache = rc
		app.logger.WithField("addr", app.cfg.RedisAddr).Info("catalog cache enabled")
	} else {
		app.logger.Warn("REDIS_ADDR is not configured, catalog cache disabled")
	}

	app.publisher = events.NopPublisher{}
	if len(app.cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewKafkaPublisher(app.cfg.KafkaBrokers)
		if err != nil {
			_ = app.cache.Close()
			return fmt.Errorf("kafka producer: %w", err)
		}
		app.publisher = publisher
		app.logger.WithField("brokers", app.cfg.KafkaBrokers).Info("order events publishing enabled")
	} else {
		app.logger.Warn("KAFKA_BROKERS is not configured, order events are not published")
	}

	if app.cfg.SEOAPIURL != "" {
		app.generator = seo.NewHTTPClient(app.cfg.SEOAPIURL, app.cfg.SEOAPIKey, app.cfg.SEOModel, 30*time.Second)
		app.logger.WithField("model", app.cfg.SEOModel).Info("seo description generator enabled")
	}

	return nil
}

// initDependencies инициализирует storage, сервисы и обработчики.
func (app *App) initDependencies() {
	// Storage layer
	userStorage := storage.NewPostgresUserStorage(app.dbPool)
	catalogStorage := storage.NewPostgresCatalogStorage(app.dbPool)
	orderStorage := storage.NewPostgresOrderStorage(app.dbPool)

	app.metrics = metrics.NewShopMetrics(prometheus.DefaultRegisterer)

	// Service layer
	userService := services.NewUserService(userStorage, services.TokenSettings{
		AccessSecret:  app.cfg.JWTSecret,
		RefreshSecret: app.cfg.JWTRefreshSecret,
		AccessTTL:     app.cfg.TokenExpiration,
		RefreshTTL:    app.cfg.RefreshTokenExpiration,
	})
	productService := services.NewProductService(catalogStorage, app.cache, app.generator)
	orderService := services.NewOrderService(orderStorage, catalogStorage, app.publisher, app.metrics)

	// Handler layer
	app.userHandler = handlers.NewUserHandler(userService)
	app.productHandler = handlers.NewProductHandler(productService)
	app.orderHandler = handlers.NewOrderHandler(orderService)
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(log.Fields{
				"component": "http",
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(app.metrics.Middleware())

	// Служебные маршруты
	e.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Ping!"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Публичные маршруты (не требуют аутентификации)
	e.POST("/auth/register", app.userHandler.Register)
	e.POST("/auth/login", app.userHandler.Login)
	e.POST("/auth/refresh-token", app.userHandler.RefreshToken)

	e.GET("/products", app.productHandler.ListProducts)
	e.GET("/products/:id", app.productHandler.GetProduct)
	e.GET("/products/:id/seo-description", app.productHandler.SEODescription)
	e.GET("/categories", app.productHandler.ListCategories)
	e.GET("/status", app.productHandler.ListStatuses)

	jwt := auth.JWTMiddleware(app.cfg.JWTSecret)
	employeeOnly := auth.RequireRole(models.RoleEmployee)

	// Маршруты любого аутентифицированного пользователя
	e.POST("/orders", app.orderHandler.CreateOrder, jwt)
	e.GET("/orders", app.orderHandler.GetOrders, jwt)
	e.POST("/orders/:id/opinions", app.orderHandler.AddOpinion, jwt)

	// Маршруты сотрудника
	e.POST("/products", app.productHandler.CreateProduct, jwt, employeeOnly)
	e.PUT("/products/:id", app.productHandler.UpdateProduct, jwt, employeeOnly)
	e.POST("/init", app.productHandler.Import, jwt, employeeOnly)
	e.GET("/orders/status/:id", app.orderHandler.GetOrdersByStatus, jwt, employeeOnly)
	e.PATCH("/orders/:id", app.orderHandler.UpdateStatus, jwt, employeeOnly)

	app.echo = e
}

// Start запускает HTTP-сервер и блокируется до его остановки.
func (app *App) Start() error {
	app.logger.WithField("address", app.cfg.RunAddress).Info("starting server")
	if err := app.echo.Start(app.cfg.RunAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	app.logger.Info("shutting down server")

	var errs []error
	if err := app.echo.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown server: %w", err))
	}
	if err := app.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
	}
	if err := app.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
	}
	if app.dbPool != nil {
		app.dbPool.Close()
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	app.logger.Info("server gracefully stopped")
	return nil
}
