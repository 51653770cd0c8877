// @title Bloodlink API
// @version 1.0
// @description Blood donation coordination: donors, donation requests and blog content.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/blooner/bloodlink/docs"
	"github.com/blooner/bloodlink/internal/config"
	"github.com/blooner/bloodlink/internal/database"
	"github.com/blooner/bloodlink/internal/features/auth"
	"github.com/blooner/bloodlink/internal/middleware"
	"github.com/blooner/bloodlink/internal/pkg/cloudinary"
	"github.com/blooner/bloodlink/internal/pkg/jwt"
	"github.com/blooner/bloodlink/internal/pkg/logger"
	"github.com/blooner/bloodlink/internal/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog := logger.New(cfg.AppEnv)
	defer zlog.Sync()

	if err := run(context.Background(), cfg, zlog); err != nil {
		zlog.Error("Server stopped", zap.Error(err))
		_ = zlog.Sync()
		os.Exit(1)
	}
	zlog.Info("Server exited")
}

// run owns every resource it opens, so a failed step still disconnects
// MongoDB before the process exits.
func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.DBTimeout)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := db.Disconnect(dctx); err != nil {
			zlog.Warn("MongoDB disconnect", zap.Error(err))
		}
	}()

	ictx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	err = database.EnsureIndexes(ictx, db.Database)
	cancel()
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	jwtCfg := jwt.DefaultConfig(cfg.JWTSecret)
	jwtCfg.TTL = cfg.TokenTTL
	tokens, err := jwt.NewManager(jwtCfg)
	if err != nil {
		return fmt.Errorf("create token manager: %w", err)
	}

	deps := routes.Dependencies{
		Database: db.Database,
		Health:   db,
		Tokens:   tokens,
		Logger:   zlog,
	}

	switch cfg.AuthMode {
	case config.AuthModeFirebase:
		v, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseServiceAccountPath)
		if err != nil {
			return fmt.Errorf("initialize Firebase: %w", err)
		}
		deps.Identity = v
	case config.AuthModeGoogle:
		deps.Identity = auth.NewGoogleVerifier(cfg.GoogleClientID)
	}
	zlog.Info("Token issuance", zap.String("auth_mode", cfg.AuthMode))

	if cfg.CloudinaryEnabled() {
		cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
		if err != nil {
			zlog.Warn("Cloudinary disabled", zap.Error(err))
		} else {
			deps.Uploader = cld
		}
	} else {
		zlog.Info("Cloudinary not configured, image uploads disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zlog))
	router.Use(middleware.CORS(cfg.FrontendURL))

	routes.SetupRoutes(router, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	zlog.Info("Shutting down server")
	sctx, scancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer scancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
