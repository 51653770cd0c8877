package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/blooner/bloodlink/internal/features/auth"
	"github.com/blooner/bloodlink/internal/features/blogs"
	"github.com/blooner/bloodlink/internal/features/donations"
	"github.com/blooner/bloodlink/internal/features/users"
	"github.com/blooner/bloodlink/internal/middleware"
	"github.com/blooner/bloodlink/internal/pkg/jwt"
	"github.com/blooner/bloodlink/internal/pkg/response"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the shared services the feature routes are built from.
type Dependencies struct {
	Database *mongo.Database
	Health   Pinger
	Tokens   *jwt.Manager
	Logger   *zap.Logger

	// Identity verifies provider ID tokens on POST /jwt. Nil issues tokens
	// for any well-formed email.
	Identity auth.IdentityVerifier
	// Uploader stores blog images. Nil disables uploads.
	Uploader blogs.ImageUploader
}

// SetupRoutes registers every feature on router.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Blooner server is online")
	})
	router.GET("/health", healthHandler(deps.Health))
	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	usersRepo := users.NewRepository(deps.Database)
	guards := middleware.NewGuards(deps.Tokens, usersRepo, deps.Logger)

	auth.RegisterRoutes(router, auth.NewHandler(deps.Tokens, deps.Identity, deps.Logger))
	users.RegisterRoutes(router, users.NewHandler(usersRepo, deps.Logger), guards)
	donations.RegisterRoutes(router, donations.NewHandler(donations.NewRepository(deps.Database), deps.Logger), guards)
	blogs.RegisterRoutes(router, blogs.NewHandler(blogs.NewRepository(deps.Database), deps.Uploader, deps.Logger), guards)
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			response.ServiceUnavailable(c, "Database unreachable", "DB_UNAVAILABLE")
			return
		}
		response.Success(c, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	}
}
