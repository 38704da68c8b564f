package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"metargb/jalaali/services/jalaali-service/internal/config"
	"metargb/jalaali/services/jalaali-service/internal/handler"
	"metargb/jalaali/services/jalaali-service/internal/middleware"
	"metargb/jalaali/services/jalaali-service/internal/repository"
	"metargb/jalaali/services/jalaali-service/internal/service"
	"metargb/jalaali/shared/pkg/db"
	"metargb/jalaali/shared/pkg/helpers"
	"metargb/jalaali/shared/pkg/logger"
	"metargb/jalaali/shared/pkg/metrics"
)

const serviceName = "jalaali-service"

func main() {
	loadErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger(serviceName).WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(serviceName, cfg.LogLevel, os.Stdout)
	if loadErr != nil {
		log.WithError(loadErr).Warn(".env file not found")
	}
	log.Entry().Info("Starting Jalaali Service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	conn, err := db.NewConnection(connectCtx, cfg.DB)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer conn.Close()

	schemaGuard := db.NewSchemaGuard(conn.DB)
	if err := schemaGuard.ValidateTable(ctx, repository.TemplateSchema); err != nil {
		log.WithError(err).Warn("Schema validation warning")
	}
	log.Entry().Info("Database connected and schema validated")

	serviceMetrics := metrics.NewMetrics("jalaali")
	go conn.ReportStats(ctx, serviceMetrics, 15*time.Second)

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("Invalid Redis URL")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Redis unavailable, templates will be read from the database")
	}
	cancel()

	// Services
	templateRepo := repository.NewTemplateRepository(conn.DB)
	templateCache := repository.NewTemplateCache(redisClient)
	dateService := service.NewDateService(templateRepo, templateCache, serviceMetrics, log, service.Options{
		DefaultSeparator: cfg.DefaultSeparator,
		HijriAdjustment:  cfg.HijriAdjustment,
		TemplateCacheTTL: cfg.TemplateCacheTTL,
	})

	// HTTP
	mux := http.NewServeMux()
	handler.NewDateHandler(dateService, log).Register(mux)
	handler.NewHealthHandler().
		Add("mysql", conn).
		Add("redis", handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})).
		Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	throttle := middleware.NewThrottle(cfg.ThrottleRequests, cfg.ThrottlePeriod)
	go throttle.RunCleanup(ctx, 5*time.Minute)

	routeOf := func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		if pattern == "" {
			return "unmatched"
		}
		return pattern
	}

	httpServer := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: middleware.Chain(mux,
			logger.HTTPMiddleware(log, helpers.NewIDGenerator()),
			metrics.HTTPMiddleware(serviceMetrics, routeOf),
			middleware.CORSMiddleware,
			throttle.Middleware,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.UnaryServerInterceptor(log),
			metrics.UnaryServerInterceptor(serviceMetrics),
		),
		grpc.ChainStreamInterceptor(
			logger.StreamServerInterceptor(log),
			metrics.StreamServerInterceptor(serviceMetrics),
		),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	// Enable reflection for debugging
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.WithError(err).WithField("port", cfg.GRPCPort).Fatal("Failed to listen")
	}

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.WithError(err).Error("gRPC server stopped")
			stop()
		}
	}()

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	log.WithField("http_port", cfg.HTTPPort).WithField("grpc_port", cfg.GRPCPort).Info("Jalaali Service started")

	<-ctx.Done()

	log.Entry().Info("Shutting down gracefully...")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP shutdown failed")
	}
	grpcServer.GracefulStop()
	log.Entry().Info("Shutdown complete")
}
