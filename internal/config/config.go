package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	AuthModeTrust    = "trust"
	AuthModeFirebase = "firebase"
	AuthModeGoogle   = "google"
)

type Config struct {
	Port        string        `validate:"required,numeric"`
	AppEnv      string        `validate:"oneof=development test production"`
	MongoURI    string        `validate:"required"`
	MongoDB     string        `validate:"required"`
	JWTSecret   string        `validate:"required_if=AppEnv production"`
	TokenTTL    time.Duration `validate:"gt=0"`
	FrontendURL string        `validate:"required"`

	AuthMode                   string `validate:"oneof=trust firebase google"`
	FirebaseServiceAccountPath string `validate:"required_if=AuthMode firebase"`
	GoogleClientID             string `validate:"required_if=AuthMode google"`

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	ShutdownTimeout time.Duration `validate:"gt=0"`
	DBTimeout       time.Duration `validate:"gt=0"`
}

// Load reads .env (if present) and the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		MongoURI:    mongoURI(),
		MongoDB:     getEnv("MONGO_DB", "bloonerDB"),
		JWTSecret:   os.Getenv("ACCESS_TOKEN_SECRET"),
		FrontendURL: getEnv("FRONTEND_URL", "*"),

		AuthMode:                   strings.ToLower(getEnv("AUTH_MODE", AuthModeTrust)),
		FirebaseServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		GoogleClientID:             os.Getenv("GOOGLE_CLIENT_ID"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "bloodlink"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.DBTimeout, err = getDuration("DB_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	// Outside production a missing secret gets a throwaway value so the
	// server still boots for local work.
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = "dev-secret-change-me"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CloudinaryEnabled reports whether image uploads can be served.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// mongoURI prefers MONGO_URI and otherwise assembles an Atlas SRV URI from
// DB_USER, DB_PASS and MONGO_HOST.
func mongoURI() string {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}

	user, pass, host := os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("MONGO_HOST")
	if user != "" && pass != "" && host != "" {
		return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
			url.QueryEscape(user), url.QueryEscape(pass), host)
	}
	return "mongodb://localhost:27017"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
