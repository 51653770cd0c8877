// Command preflight checks that the configured backing services are
// reachable before a deploy: MongoDB, the identity provider selected by
// AUTH_MODE and Cloudinary when it is configured.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/blooner/bloodlink/internal/config"
	"github.com/blooner/bloodlink/internal/database"
	"github.com/blooner/bloodlink/internal/features/auth"
	"github.com/blooner/bloodlink/internal/pkg/cloudinary"
	"github.com/blooner/bloodlink/internal/pkg/logger"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zlog := logger.New(cfg.AppEnv)
	defer zlog.Sync()

	if err := run(context.Background(), cfg, zlog); err != nil {
		for _, e := range multierr.Errors(err) {
			zlog.Error("check failed", zap.Error(e))
		}
		os.Exit(1)
	}
	zlog.Info("all systems ready")
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	var err error

	db, dbErr := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.DBTimeout)
	if dbErr != nil {
		err = multierr.Append(err, fmt.Errorf("mongodb: %w", dbErr))
	} else {
		defer db.Disconnect(ctx)
		zlog.Info("mongodb connected", zap.String("database", cfg.MongoDB))
	}

	switch cfg.AuthMode {
	case config.AuthModeFirebase:
		if _, fbErr := auth.NewFirebaseVerifier(ctx, cfg.FirebaseServiceAccountPath); fbErr != nil {
			err = multierr.Append(err, fmt.Errorf("firebase: %w", fbErr))
		} else {
			zlog.Info("firebase auth ready")
		}
	case config.AuthModeGoogle:
		zlog.Info("google sign-in verification", zap.String("client_id", cfg.GoogleClientID))
	default:
		zlog.Warn("AUTH_MODE=trust issues tokens without verifying identity")
	}

	if cfg.CloudinaryEnabled() {
		if _, cldErr := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder); cldErr != nil {
			err = multierr.Append(err, fmt.Errorf("cloudinary: %w", cldErr))
		} else {
			zlog.Info("cloudinary ready",
				zap.String("cloud_name", cfg.CloudinaryCloudName),
				zap.String("folder", cfg.CloudinaryUploadFolder))
		}
	} else {
		zlog.Warn("cloudinary not configured, image uploads disabled")
	}

	return err
}
