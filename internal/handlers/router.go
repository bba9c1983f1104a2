package handlers

import (
	"restaurant_service/internal/events"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/middleware"
	"restaurant_service/internal/models"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RouterDeps struct {
	Services       *services.Services
	DB             *gorm.DB
	Redis          Pinger
	Log            *logger.Logger
	AllowedOrigins []string
	// Hub is optional; without it the kitchen stream is not mounted.
	Hub            *events.Hub
}

func SetupRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(d.Log),
		middleware.CORS(d.AllowedOrigins),
	)

	svc := d.Services
	healthHandler := NewHealthHandler(d.DB, d.Redis)
	authHandler := NewAuthHandler(svc.Auth, d.Log)
	userHandler := NewUserHandler(svc.Users, d.Log)
	tableHandler := NewTableHandler(svc.Tables, d.Log)
	menuHandler := NewMenuHandler(svc.Menu, d.Log)
	orderHandler := NewOrderHandler(svc.Orders, d.Log)
	historyHandler := NewHistoryHandler(svc.History, d.Log)
	linkHandler := NewTableOrderHandler(svc.TableLinks, d.Log)

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/login-json", authHandler.LoginJSON)
	}

	if d.Hub != nil {
		kitchenHandler := NewKitchenHandler(d.Hub, d.AllowedOrigins, d.Log)
		router.GET("/ws/kitchen", middleware.QueryToken(), middleware.Auth(svc.Auth), kitchenHandler.Stream)
	}

	// Everything below needs a bearer token.
	api := router.Group("/", middleware.Auth(svc.Auth))
	admin := middleware.RequireRoles(string(models.RoleAdmin))

	session := api.Group("/auth")
	{
		session.POST("/logout", authHandler.Logout)
		session.GET("/me", authHandler.Me)
		session.POST("/change-password", authHandler.ChangePassword)
		session.POST("/refresh-token", authHandler.RefreshToken)
	}

	users := api.Group("/users")
	{
		users.GET("", admin, userHandler.GetUsers)
		users.POST("", admin, userHandler.CreateUser)
		users.GET("/password/:login", admin, userHandler.GetPassword)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.PUT("/:id/full", admin, userHandler.ReplaceUser)
		users.DELETE("/:id", admin, userHandler.DeleteUser)
	}

	tables := api.Group("/tables")
	{
		tables.GET("", tableHandler.GetTables)
		tables.GET("/status/:status", tableHandler.GetTablesByStatus)
		tables.GET("/:id", tableHandler.GetTable)
		tables.POST("", tableHandler.CreateTable)
		tables.PUT("/:id", tableHandler.UpdateTable)
		tables.PUT("/:id/full", tableHandler.ReplaceTable)
		tables.DELETE("/:id", tableHandler.DeleteTable)
	}

	menu := api.Group("/menu")
	{
		menu.GET("", menuHandler.GetMenu)
		menu.GET("/categories", menuHandler.GetCategories)
		menu.GET("/categories/:id", menuHandler.GetCategory)
		menu.POST("/categories", menuHandler.CreateCategory)
		menu.PUT("/categories/:id", menuHandler.UpdateCategory)
		menu.DELETE("/categories/:id", menuHandler.DeleteCategory)
		menu.GET("/:id", menuHandler.GetMenuItem)
		menu.POST("", menuHandler.CreateMenuItem)
		menu.PUT("/:id", menuHandler.UpdateMenuItem)
		menu.DELETE("/:id", menuHandler.DeleteMenuItem)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/active", orderHandler.GetActiveOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.POST("", orderHandler.CreateOrder)
		orders.PUT("/:id", orderHandler.UpdateOrder)
		orders.PUT("/:id/complete", orderHandler.CompleteOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		orders.DELETE("/:id", orderHandler.DeleteOrder)
		orders.POST("/:id/plates", orderHandler.AddPlate)
		orders.PUT("/plates/:id", orderHandler.UpdatePlate)
		orders.DELETE("/plates/:id", orderHandler.RemovePlate)
		orders.PUT("/plate/:id/status/:status", orderHandler.SetPlateStatus)
	}

	history := api.Group("/cooking-status-history")
	{
		history.GET("", historyHandler.GetHistory)
		history.GET("/plate/:id", historyHandler.GetByPlate)
		history.GET("/order/:id", historyHandler.GetByOrder)
		history.GET("/user/:id", historyHandler.GetByUser)
		history.GET("/latest/plate/:id", historyHandler.GetLatestForPlate)
		history.GET("/:id", historyHandler.GetEntry)
		history.POST("", historyHandler.CreateEntry)
		history.PUT("/:id", admin, historyHandler.UpdateEntry)
		history.DELETE("/:id", admin, historyHandler.DeleteEntry)
	}

	links := api.Group("/tables-for-order")
	{
		links.GET("", linkHandler.GetLinks)
		links.GET("/order/:id", linkHandler.GetByOrder)
		links.GET("/table/:id", linkHandler.GetByTable)
		links.POST("", linkHandler.CreateLink)
		links.PUT("/:id", linkHandler.UpdateLink)
		links.DELETE("/:id", linkHandler.DeleteLink)
	}

	return router
}
