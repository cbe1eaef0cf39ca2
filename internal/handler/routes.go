package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(
	e *echo.Echo,
	dailyHandler *DailyHandler,
	purchaseHandler *PurchaseHandler,
	overheadHandler *OverheadHandler,
	ledgerHandler *LedgerHandler,
	clientHandler *ClientHandler,
	reportHandler *ReportHandler,
	wsHandler *WebSocketHandler,
) {
	api := e.Group("/api/v1")

	// Daily records
	records := api.Group("/records")
	records.POST("", dailyHandler.CreateRecord)
	records.GET("", dailyHandler.GetDailyTable)
	records.DELETE("/:id", dailyHandler.DeleteRecord)

	// Flour purchases and stock
	purchases := api.Group("/flour-purchases")
	purchases.POST("", purchaseHandler.CreatePurchase)
	purchases.GET("", purchaseHandler.ListPurchases)
	purchases.GET("/stock", purchaseHandler.GetStock)

	// Monthly overheads
	overheads := api.Group("/overheads")
	overheads.POST("", overheadHandler.SetOverhead)
	overheads.GET("/:year/:month", overheadHandler.GetMonth)

	// Ledger
	api.POST("/movements", ledgerHandler.CreateMovement)
	api.GET("/movements", ledgerHandler.ListMovements)
	api.GET("/balances", ledgerHandler.GetBalances)

	// Clients, deliveries and payments
	clients := api.Group("/clients")
	clients.POST("", clientHandler.CreateClient)
	clients.GET("", clientHandler.ListClients)
	clients.PATCH("/:id/active", clientHandler.SetActive)
	clients.GET("/:id/growth", clientHandler.GetGrowth)

	api.POST("/deliveries", clientHandler.CreateDelivery)
	api.POST("/payments", clientHandler.CreatePayment)
	api.GET("/receivables", clientHandler.GetReceivables)

	// Reporting
	api.GET("/dashboard/summary", reportHandler.GetDashboard)
	api.GET("/reports/:year/:month", reportHandler.GetMonthlyReport)

	// WebSocket
	e.GET("/ws", wsHandler.Handle)
}
