package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// Options holds the HTTP settings that are not services.
type Options struct {
	CORSOrigins []string
	// MediaDir is served under MediaPrefix when images are stored on disk.
	// Leave empty when images live in S3.
	MediaDir    string
	MediaPrefix string
	Logger      *zap.SugaredLogger
}

// Setup configures the application routes
func Setup(opts Options, services api.Services) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.ErrorHandler(opts.Logger))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.MediaDir != "" && opts.MediaPrefix != "" {
		router.Static(opts.MediaPrefix, opts.MediaDir)
	}

	api.RegisterRoutes(router, services)

	return router
}
