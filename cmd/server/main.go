package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"qrdine-system/config"
	"qrdine-system/internal/database"
	"qrdine-system/internal/handlers"
	"qrdine-system/internal/middleware"
	"qrdine-system/internal/services/auth"
	"qrdine-system/internal/services/labels"
	"qrdine-system/internal/services/menu"
	"qrdine-system/internal/services/orders"
	"qrdine-system/internal/services/printers"
	"qrdine-system/internal/services/recipes"
	"qrdine-system/internal/services/resolver"
	"qrdine-system/internal/services/tables"
	"qrdine-system/internal/services/waiter"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)

	jwtSecret := []byte(cfg.Auth.JWTSecret)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHour) * time.Hour

	resolverSvc := resolver.NewService(resolver.NewGormStore(db))
	authSvc := auth.NewService(db, jwtSecret, tokenTTL)
	menuSvc := menu.NewService(db, rdb, resolverSvc)
	orderSvc := orders.NewService(orders.NewGormStore(db))
	tableSvc := tables.NewService(db, cfg.Server.PublicBaseURL, cfg.Server.QRDir)
	waiterSvc := waiter.NewService(db)
	labelSvc := labels.NewService(db)
	recipeSvc := recipes.NewService(db)
	printerSvc := printers.NewService(db)

	authHandler := handlers.NewAuthHandler(authSvc)
	menuHandler := handlers.NewMenuHandler(menuSvc)
	orderHandler := handlers.NewOrderHandler(orderSvc)
	tableHandler := handlers.NewTableHandler(tableSvc)
	waiterHandler := handlers.NewWaiterHandler(waiterSvc)
	labelHandler := handlers.NewLabelHandler(labelSvc)
	recipeHandler := handlers.NewRecipeHandler(recipeSvc)
	printerHandler := handlers.NewPrinterHandler(printerSvc, orderSvc, labelSvc, authSvc)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// --- Public API Group ---
	public := r.Group("/api")
	public.Use(middleware.RateLimit(cfg.Server.PublicRate))
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)

		public.GET("/menu/public/:identifier", menuHandler.Public)

		public.POST("/orders", orderHandler.Create)
		public.GET("/orders/:id/status", orderHandler.Status)

		public.POST("/waiter/call", waiterHandler.Create)
		public.GET("/waiter/call/:id/status", waiterHandler.Status)
	}

	r.Static("/qr", cfg.Server.QRDir)

	// --- Protected API Group ---
	protected := r.Group("/api")
	protected.Use(middleware.JWTAuth(db, jwtSecret))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/profile", authHandler.Profile)
		protected.PUT("/auth/profile", authHandler.UpdateProfile)

		ordersGroup := protected.Group("/orders")
		{
			ordersGroup.GET("/status", orderHandler.List)
			ordersGroup.GET("/status/:status", orderHandler.List)
			ordersGroup.GET("/stats", orderHandler.Stats)
			ordersGroup.POST("/manual", orderHandler.CreateManual)
			ordersGroup.GET("/:id", orderHandler.Get)
			ordersGroup.PUT("/:id/accept", orderHandler.Accept)
			ordersGroup.PUT("/:id/reject", orderHandler.Reject)
			ordersGroup.PUT("/:id/start-cooking", orderHandler.StartCooking)
			ordersGroup.PUT("/:id/finish", orderHandler.Finish)
			ordersGroup.POST("/:id/print", printerHandler.PrintOrderByID)
		}

		menuGroup := protected.Group("/menu")
		{
			menuGroup.GET("/categories", menuHandler.ListCategories)
			menuGroup.POST("/categories", menuHandler.CreateCategory)
			menuGroup.PUT("/categories/:id", menuHandler.UpdateCategory)
			menuGroup.DELETE("/categories/:id", menuHandler.DeleteCategory)
			menuGroup.GET("/categories/:id/items", menuHandler.ListCategoryItems)
			menuGroup.POST("/items", menuHandler.CreateItem)
			menuGroup.PUT("/items/:id", menuHandler.UpdateItem)
			menuGroup.DELETE("/items/:id", menuHandler.DeleteItem)
		}

		tablesGroup := protected.Group("/tables")
		{
			tablesGroup.GET("", tableHandler.List)
			tablesGroup.POST("", tableHandler.Create)
			tablesGroup.PUT("/:id", tableHandler.Update)
			tablesGroup.DELETE("/:id", tableHandler.Delete)
			tablesGroup.POST("/:id/qr", tableHandler.GenerateQRCode)
			tablesGroup.POST("/qr/generate-all", tableHandler.GenerateQRCodes)
		}

		waiterGroup := protected.Group("/waiter/calls")
		{
			waiterGroup.GET("", waiterHandler.List)
			waiterGroup.PUT("/:id/respond", waiterHandler.Respond)
			waiterGroup.PUT("/:id/resolve", waiterHandler.Resolve)
		}

		labelsGroup := protected.Group("/labels")
		{
			labelsGroup.GET("", labelHandler.List)
			labelsGroup.POST("", labelHandler.Create)
			labelsGroup.GET("/:id", labelHandler.Get)
			labelsGroup.PUT("/:id", labelHandler.Update)
			labelsGroup.DELETE("/:id", labelHandler.Delete)
		}

		recipesGroup := protected.Group("/recipes")
		{
			recipesGroup.GET("", recipeHandler.List)
			recipesGroup.POST("", recipeHandler.Create)
			recipesGroup.GET("/:id", recipeHandler.Get)
			recipesGroup.PUT("/:id", recipeHandler.Update)
			recipesGroup.DELETE("/:id", recipeHandler.Delete)
		}

		printersGroup := protected.Group("/printers")
		{
			printersGroup.GET("", printerHandler.List)
			printersGroup.POST("", printerHandler.Create)
			printersGroup.PUT("/:id", printerHandler.Update)
			printersGroup.DELETE("/:id", printerHandler.Delete)
			printersGroup.POST("/print-order", printerHandler.PrintOrder)
			printersGroup.POST("/print-label", printerHandler.PrintLabel)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	addr := ":" + cfg.Server.Port
	log.Printf("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
