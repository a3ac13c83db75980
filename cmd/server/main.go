package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/blogapp/backend/internal/config"
	delivery "github.com/blogapp/backend/internal/delivery/http"
	"github.com/blogapp/backend/internal/middleware"
	"github.com/blogapp/backend/internal/obs"
	"github.com/blogapp/backend/internal/repository/postgres"
	"github.com/blogapp/backend/internal/token"
	"github.com/blogapp/backend/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := obs.NewLogger(obs.LogConfig{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	pool, err := connect(cfg.DB.DSN, logger)
	if err != nil {
		logger.Fatal("could not connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.RunMigrations(migrateCtx, cfg.DB.DSN); err != nil {
		migrateCancel()
		logger.Fatal("migrations failed", zap.Error(err))
	}
	migrateCancel()

	userRepo := postgres.NewUserRepository(pool)
	postRepo := postgres.NewPostRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)

	tokenService := token.NewService(&cfg.JWT)
	authUsecase := usecase.NewAuthUsecase(userRepo, tokenService, logger)

	handler := delivery.NewHandler(authUsecase)
	authMiddleware := middleware.NewAuthMiddleware(authUsecase)

	router := delivery.NewRouter(handler, authMiddleware, postRepo, commentRepo, cfg.CORS.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}

// connect dials the pool with a short retry loop so the server survives the
// database coming up a few seconds later than the process.
func connect(dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err = pgxpool.New(ctx, dsn)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				cancel()
				logger.Info("connected to postgres")
				return pool, nil
			} else {
				pool.Close()
				err = pingErr
			}
		}
		cancel()
		logger.Warn("database connection attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	return nil, err
}
