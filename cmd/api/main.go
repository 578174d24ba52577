package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/devfolio/devfolio-api/internal/config"
	"github.com/devfolio/devfolio-api/internal/crypto"
	"github.com/devfolio/devfolio-api/internal/handler"
	"github.com/devfolio/devfolio-api/internal/middleware"
	"github.com/devfolio/devfolio-api/internal/repository"
	"github.com/devfolio/devfolio-api/internal/service"
	"github.com/devfolio/devfolio-api/internal/storage"
	"github.com/devfolio/devfolio-api/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		slog.Error("image store initialization failed", "error", err)
		os.Exit(1)
	}

	hasher, err := crypto.NewHasher(cfg.BcryptCost)
	if err != nil {
		slog.Error("password hasher initialization failed", "error", err)
		os.Exit(1)
	}

	codec := token.NewCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userRepo := repository.NewPostgresUserRepository(db)
	authService := service.NewAuthService(userRepo, hasher, codec, images)
	authHandler := handler.NewAuthHandler(authService, cfg.Production(), cfg.RefreshTokenTTL)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Post("/auth/signup", authHandler.HandleSignUp)
		r.Post("/auth/signin", authHandler.HandleSignIn)
	})

	r.Post("/auth/refresh", authHandler.HandleRefresh)
	r.Post("/auth/logout", authHandler.HandleLogout)
	r.Get("/auth/check-nickname", authHandler.HandleCheckNickname)
	r.Post("/auth/upload-profile-image", authHandler.HandleUploadProfileImage)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(codec))
		r.Get("/auth/profile", authHandler.HandleProfile)
		r.Put("/auth/update-profile", authHandler.HandleUpdateProfile)
		r.Delete("/auth/delete-account", authHandler.HandleDeleteAccount)
	})

	// Images saved by the local store are served straight from disk.
	if cfg.ImageStore == "local" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newImageStore(ctx context.Context, cfg config.Config) (storage.ImageStore, error) {
	if cfg.ImageStore == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
}
