package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/dussanclaurer/Licoreria/internal/handler"
	"github.com/dussanclaurer/Licoreria/internal/middleware"
	"github.com/dussanclaurer/Licoreria/internal/model"
	"github.com/dussanclaurer/Licoreria/internal/repository"
	"github.com/dussanclaurer/Licoreria/internal/service"
	"github.com/dussanclaurer/Licoreria/internal/ws"
	"github.com/dussanclaurer/Licoreria/pkg/database"
	"github.com/dussanclaurer/Licoreria/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, relying on system env")
	}

	// 2. Setup database
	db := database.ConnectDB()
	migrate(db, log)
	seedUsers(db, log)

	// 3. WebSocket hub for stock updates
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency injection (wiring layers)
	productRepo := repository.NewProductRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	logRepo := repository.NewInventoryLogRepo(db)
	sessionRepo := repository.NewCashSessionRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	sessionService := service.NewCashSessionService(sessionRepo, db)
	invService := service.NewInventoryService(productRepo, batchRepo, logRepo, db, wsHub)
	saleService := service.NewSaleService(productRepo, batchRepo, saleRepo, sessionService, db, wsHub)
	reportService := service.NewReportService(saleRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)

	productHandler := handler.NewProductHandler(invService)
	saleHandler := handler.NewSaleHandler(saleService)
	sessionHandler := handler.NewCashSessionHandler(sessionService)
	reportHandler := handler.NewReportHandler(reportService, invService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Licoreria POS v1.0",
	})

	app.Use(fiberlogger.New()) // Request logging
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Public
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// Everything below requires authentication
	protected := api.Group("", middleware.RequireAuth())
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Catalog
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", middleware.RequireRole(model.RoleAdmin), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireRole(model.RoleAdmin), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireRole(model.RoleAdmin), productHandler.DeleteProduct)

	// Stock
	protected.Post("/batches", middleware.RequireRole(model.RoleAdmin), productHandler.AddBatch)
	protected.Get("/alerts", productHandler.GetAlerts)

	// Register sessions
	protected.Post("/cash-sessions/open", sessionHandler.OpenSession)
	protected.Post("/cash-sessions/close", sessionHandler.CloseSession)
	protected.Get("/cash-sessions/status", sessionHandler.SessionStatus)

	// Sales
	protected.Post("/sales", saleHandler.RegisterSale)
	protected.Get("/sales/:id", saleHandler.GetSale)

	// Reporting
	protected.Get("/reports/sales", middleware.RequireRole(model.RoleAdmin), reportHandler.GetSalesReport)
	protected.Get("/reports/top-products", middleware.RequireRole(model.RoleAdmin), reportHandler.GetTopProducts)
	protected.Get("/reports/inventory-logs", middleware.RequireRole(model.RoleAdmin), reportHandler.GetInventoryLogs)

	// Users
	protected.Get("/users", middleware.RequireRole(model.RoleAdmin), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequireRole(model.RoleAdmin), userHandler.GetUser)
	protected.Post("/users", middleware.RequireRole(model.RoleAdmin), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequireRole(model.RoleAdmin), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequireRole(model.RoleAdmin), userHandler.DeleteUser)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep-alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		log.Info("Server listening", zap.String("port", port))
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// migrate runs the schema migration. AutoMigrate covers the tables; the
// partial unique index guaranteeing at most one OPEN cash session per user
// has to be raw SQL because GORM cannot express it.
func migrate(db *gorm.DB, log *zap.Logger) {
	err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Batch{},
		&model.InventoryLog{},
		&model.CashSession{},
		&model.Sale{},
		&model.SaleLine{},
	)
	if err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_sessions_one_open_per_user
		ON cash_sessions (user_id) WHERE status = 'OPEN' AND deleted_at IS NULL`).Error
	if err != nil {
		log.Fatal("Failed to create open-session index", zap.Error(err))
	}
}

// seedUsers creates the default admin and cashier accounts if they don't exist
func seedUsers(db *gorm.DB, log *zap.Logger) {
	userRepo := repository.NewUserRepo(db)

	seed := []struct {
		username string
		password string
		fullName string
		role     string
	}{
		{"admin", "admin123", "Administrator", model.RoleAdmin},
		{"cashier", "cashier123", "Cashier", model.RoleCashier},
	}

	for _, s := range seed {
		if _, err := userRepo.FindByUsername(s.username); err == nil {
			continue
		}

		user := &model.User{
			Username: s.username,
			FullName: s.fullName,
			Role:     s.role,
			IsActive: true,
		}
		user.CreatedBy = "system"
		user.UpdatedBy = "system"

		if err := user.SetPassword(s.password); err != nil {
			log.Warn("Failed to hash seed password", zap.String("username", s.username), zap.Error(err))
			continue
		}
		if err := userRepo.Create(user); err != nil {
			log.Warn("Failed to seed user", zap.String("username", s.username), zap.Error(err))
			continue
		}
		log.Info("Seeded user", zap.String("username", s.username), zap.String("role", s.role))
	}
}
