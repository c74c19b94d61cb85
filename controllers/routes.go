package controllers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every sensor endpoint on r.
func RegisterRoutes(r gin.IRouter, h *SensorController) {
	r.GET("/health", h.Health)
	r.GET("/ws", h.HandleWebSocket)

	data := r.Group("/data")
	data.POST("", h.ReceiveData)
	data.GET("", h.GetData)
	data.GET("/averages", h.GetAverages)
	data.GET("/chart", h.GetChart)
	data.GET("/export", h.ExportData)
}
