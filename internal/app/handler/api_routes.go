package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine) {
	// ============ Документы ============
	router.POST("/extract", h.ExtractDocument) // POST распознавание документа

	// ============ Заявки (Requests) ============
	requests := router.Group("/requests")
	{
		requests.GET("/", h.GetRequests)                   // GET список
		requests.POST("/", h.CreateRequest)                // POST создание
		requests.GET("/:id", h.GetRequest)                 // GET одна запись
		requests.PUT("/:id/status", h.UpdateRequestStatus) // PUT изменение статуса
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}
