package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todoapp/internal/adapter/http/handlers"
	"todoapp/internal/adapter/http/middleware"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, todoHandler *handlers.TodoHandler) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)

		api.GET("/todos", todoHandler.ListTodos)
		api.GET("/todos/deleted", todoHandler.ListDeletedTodos)
		api.POST("/todos", todoHandler.CreateTodo)
		api.PATCH("/todos/:id/completed", todoHandler.ToggleTodo)
		api.PATCH("/todos/:id/title", todoHandler.UpdateTodoTitle)
		api.DELETE("/todos/:id", todoHandler.RemoveTodo)
		api.POST("/todos/:id/restore", todoHandler.RestoreTodo)
	}
}
