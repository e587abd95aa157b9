package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, accountHandler *AccountHandler, categoryHandler *CategoryHandler, currencyHandler *CurrencyHandler, budgetHandler *BudgetHandler, operationHandler *OperationHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.Create)
	accounts.GET("", accountHandler.List)
	accounts.POST("/get-or-create", accountHandler.GetOrCreate)
	accounts.GET("/:id", accountHandler.Get)
	accounts.PATCH("/:id", accountHandler.Update)
	accounts.DELETE("/:id", accountHandler.Delete)
	accounts.POST("/:id/restore", accountHandler.Restore)
	accounts.PATCH("/:id/position", accountHandler.ChangePosition)
	accounts.PATCH("/:id/closed", accountHandler.SetClosed)

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.Create)
	categories.GET("", categoryHandler.List)
	categories.POST("/get-or-create", categoryHandler.GetOrCreate)
	categories.GET("/:id", categoryHandler.Get)
	categories.PATCH("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)
	categories.POST("/:id/restore", categoryHandler.Restore)
	categories.PATCH("/:id/position", categoryHandler.ChangePosition)

	// Currency routes; /main before /:id so the literal path wins
	currencies := api.Group("/currencies")
	currencies.POST("", currencyHandler.Create)
	currencies.GET("", currencyHandler.List)
	currencies.GET("/main", currencyHandler.Main)
	currencies.POST("/get-or-create", currencyHandler.GetOrCreate)
	currencies.GET("/:id", currencyHandler.Get)
	currencies.PATCH("/:id", currencyHandler.Update)
	currencies.DELETE("/:id", currencyHandler.Delete)
	currencies.POST("/:id/restore", currencyHandler.Restore)
	currencies.PATCH("/:id/position", currencyHandler.ChangePosition)
	currencies.GET("/:id/convert-to-main", currencyHandler.ConvertToMain)
	currencies.GET("/:id/convert-from-main", currencyHandler.ConvertFromMain)
	currencies.GET("/:id/reverse-rate", currencyHandler.ReverseRate)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.POST("", budgetHandler.Create)
	budgets.GET("", budgetHandler.List)
	budgets.GET("/:id", budgetHandler.Get)
	budgets.PATCH("/:id", budgetHandler.Update)
	budgets.DELETE("/:id", budgetHandler.Delete)
	budgets.POST("/:id/restore", budgetHandler.Restore)
	budgets.PATCH("/:id/position", budgetHandler.ChangePosition)

	// Operation routes
	operations := api.Group("/operations")
	operations.POST("", operationHandler.Create)
	operations.GET("", operationHandler.List)
	operations.GET("/:id", operationHandler.Get)
	operations.PATCH("/:id", operationHandler.Update)
	operations.DELETE("/:id", operationHandler.Delete)
	operations.POST("/:id/restore", operationHandler.Restore)
	operations.PATCH("/:id/position", operationHandler.ChangePosition)

	// WebSocket change feed
	e.GET("/ws", wsHandler.HandleWS)
}
