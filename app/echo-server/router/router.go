package router

import (
	"veginReco/internal/middleware"
	"veginReco/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetFusionRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	api.POST("/fusion", handler.Fusion)
}

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")
	reco.POST("", handler.Recommend)
	reco.POST("/debug", handler.DebugRecommend, middleware.AuthMiddleware(), middleware.AdminOnly())
}

func SetAnalysisRoutes(api *echo.Group, handler *rest.AnalysisHandler) {
	analyses := api.Group("/analyses", middleware.AuthMiddleware())
	analyses.POST("", handler.Create)
	analyses.GET("", handler.List)
	analyses.GET("/:id", handler.Get)
}

func SetHealthRoutes(e *echo.Echo) {
	e.GET("/health", rest.Health)
}
