package v1

import (
	"net/http"
	"time"

	"seaview-backend/config"
	"seaview-backend/internal/delivery/http/middleware"
	"seaview-backend/internal/delivery/http/response"
	"seaview-backend/internal/domain"
	"seaview-backend/internal/usecase"
	"seaview-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	GalleryUC domain.GalleryUsecase
	HealthUC  usecase.HealthUsecase
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	if !deps.Config.TrustProxy {
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	r.NoMethod(func(c *gin.Context) {
		if c.Request.URL.Path == contactPath {
			middleware.SetCORSHeaders(c)
		}
		c.Error(apperror.MethodNotAllowed())
	})

	// Mail relay
	limiter := middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(
		deps.Config.RateLimitContactThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	))
	NewContactHandler(r, deps.ContactUC, limiter)

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})
	if deps.HealthUC != nil {
		v1.GET("/health/ready", func(c *gin.Context) {
			response.Success(c, http.StatusOK, "Component status", deps.HealthUC.Check(c.Request.Context()))
		})
	}

	NewGalleryHandler(v1, deps.GalleryUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Full-size gallery images and the rest of the static site
	r.Static("/gallery", deps.Config.GalleryDir)
	r.NoRoute(staticSite(deps.Config.SiteDir))

	return r
}

// staticSite serves the marketing pages for any path no route claims
func staticSite(dir string) gin.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Error(apperror.NotFound("Not found"))
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}
