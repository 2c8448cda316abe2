package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/vehicle/:registration", handler.GetVehicle)
		api.GET("/vehicle/:registration/image", handler.GetVehicleImage)
		api.GET("/tco/:registration", handler.GetTCO)
		api.GET("/curves", handler.GetCurveSummary)
		api.GET("/curves/source", handler.GetCurveSource)
		api.POST("/curves/reload", handler.ReloadCurves)
	}
}
