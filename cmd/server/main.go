package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-menu-service/config"
	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/catalog"
	catalogCache "github.com/fekuna/omnipos-menu-service/internal/catalog/cache"
	catalogH "github.com/fekuna/omnipos-menu-service/internal/catalog/handler"
	catalogListener "github.com/fekuna/omnipos-menu-service/internal/catalog/listener"
	catalogRepoPkg "github.com/fekuna/omnipos-menu-service/internal/catalog/repository"
	catalogUCPkg "github.com/fekuna/omnipos-menu-service/internal/catalog/usecase"
	"github.com/fekuna/omnipos-menu-service/internal/category"
	catH "github.com/fekuna/omnipos-menu-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-menu-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-menu-service/internal/category/usecase"
	"github.com/fekuna/omnipos-menu-service/internal/events"
	"github.com/fekuna/omnipos-menu-service/internal/item"
	itemH "github.com/fekuna/omnipos-menu-service/internal/item/handler"
	itemRepoPkg "github.com/fekuna/omnipos-menu-service/internal/item/repository"
	itemUCPkg "github.com/fekuna/omnipos-menu-service/internal/item/usecase"
	"github.com/fekuna/omnipos-menu-service/internal/lock"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/fekuna/omnipos-menu-service/internal/router"
	"github.com/fekuna/omnipos-menu-service/internal/storage/memory"
	"github.com/fekuna/omnipos-menu-service/internal/storage/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	if cfg.Admin.Password == "" {
		appLogger.Warn("ADMIN_PASSWORD is empty, every admin request will be rejected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize Storage
	var (
		catRepo  category.Repository
		catRead  item.CategoryReader
		itemRepo item.Repository
		reader   catalog.Reader
		db       *sqlx.DB
	)

	switch cfg.Storage.Driver {
	case "memory":
		store := memory.New()
		catRepo, catRead, itemRepo = store.Categories(), store.Categories(), store.Items()
		reader = store
		appLogger.Info("Using in-memory storage")
	default:
		var err error
		db, err = postgres.NewPostgres(ctx, &postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		if cfg.Postgres.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				appLogger.Fatal("Could not apply schema", zap.Error(err))
			}
		}

		pgCat := catRepoPkg.NewPGRepository(db)
		catRepo, catRead, itemRepo = pgCat, pgCat, itemRepoPkg.NewPGRepository(db)
		reader = catalogRepoPkg.NewPGRepository(db)
	}

	// 4. Initialize Redis (snapshot cache and shared locks)
	var (
		locker    lock.Locker = lock.NewLocal()
		cache     catalog.Cache
		publisher = events.Multi{}
	)

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

		redisCache := catalogCache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
		cache = redisCache
		publisher = append(publisher, redisCache)
		locker = lock.NewRedis(redisClient, cfg.Redis.LockTTL)
	}

	// 5. Initialize Kafka
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(&events.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer kafkaPublisher.Close()
		publisher = append(publisher, kafkaPublisher)
		appLogger.Info("Kafka publisher ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		if cfg.Kafka.Listen && cache != nil {
			kafkaReader := catalogListener.NewKafkaReader(&catalogListener.ConsumerConfig{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
				GroupID: cfg.Kafka.GroupID,
			})
			defer kafkaReader.Close()
			go catalogListener.NewCatalogListener(kafkaReader, cache, appLogger).Start(ctx)
		}
	}

	// 6. Initialize UseCases
	gate := auth.NewGate(cfg.Admin.Password)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, gate, locker, publisher, appLogger)
	itemUC := itemUCPkg.NewItemUseCase(itemRepo, catRead, gate, locker, publisher, appLogger)
	catalogUC := catalogUCPkg.NewCatalogUseCase(reader, gate, cache, appLogger)

	// 7. Initialize Handlers
	engine := router.SetupRouter(&router.Handlers{
		Category: catH.NewCategoryHandler(catUC, gate, appLogger),
		Item:     itemH.NewItemHandler(itemUC, gate, appLogger),
		Catalog:  catalogH.NewCatalogHandler(catalogUC, appLogger),
	}, router.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      appLogger,
	})

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Start gRPC Server (health and reflection)
	grpcPort := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
