package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vibhusapra/phoenix/docs"
	"github.com/vibhusapra/phoenix/internal/config"
	"github.com/vibhusapra/phoenix/internal/middleware"
	"github.com/vibhusapra/phoenix/internal/modules/handler"
	"github.com/vibhusapra/phoenix/internal/modules/serializer"
	"github.com/vibhusapra/phoenix/internal/pkg/auth"
)

type RouterDeps struct {
	Config           *config.Config
	Log              *zap.Logger
	Tokens           *auth.Tokens
	SavedViewHandler *handler.SavedViewHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	serializer.SetLogger(d.Log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:   []string{middleware.RequestIDHeader, "X-Trace-Id"},
		MaxAge:          12 * time.Hour,
	}))

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.Principal(d.Tokens))

		v1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "pong"}) })

		views := v1.Group("/saved_views")
		{
			views.POST("", d.SavedViewHandler.CreateSavedView)
			views.PATCH("/:view_id", d.SavedViewHandler.PatchSavedView)
			views.DELETE("", d.SavedViewHandler.DeleteSavedViews)
		}
	}
	return r
}
