package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bazaar/internal/handlers"
	"bazaar/internal/middleware"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"
	"bazaar/pkg/events"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("SQLITE_PATH", "bazaar.db")
	viper.SetDefault("JWT_SECRET", "change_me_in_production")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("ADMIN_EMAILS", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	// PostgreSQL when a DSN is configured, a local SQLite file otherwise.
	var (
		db  *gorm.DB
		err error
	)
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Shopkeeper{},
		&models.Customer{},
		&models.DeliveryPartner{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Event publisher (optional) ---
	var publisher services.EventPublisher
	var mqClient *events.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = events.NewClient(events.Config{URL: mqURL})
		if err != nil {
			log.Printf("Warning: event publishing disabled: %v", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	// --- Repositories ---
	shopkeeperRepo := repositories.NewGORMShopkeeperRepository(db)
	customerRepo := repositories.NewGORMCustomerRepository(db)
	partnerRepo := repositories.NewGORMDeliveryPartnerRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	authService := services.NewAuthService(
		shopkeeperRepo, customerRepo, partnerRepo,
		viper.GetString("JWT_SECRET"),
		viper.GetStringSlice("ADMIN_EMAILS"),
	)
	catalogService := services.NewCatalogService(productRepo)
	checkoutService := services.NewCheckoutService(orderRepo, productRepo, publisher)
	orderService := services.NewOrderService(orderRepo, publisher)
	adminService := services.NewAdminService(shopkeeperRepo, customerRepo, partnerRepo, productRepo, orderRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(checkoutService, orderService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)
	adminHandler.RegisterRoutes(protectedRoutes)

	// --- Health check ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	// Logs the order event stream; downstream consumers (notifications,
	// analytics) would hang off this queue in the same way.
	if mqClient != nil {
		go func() {
			log.Println("Starting order event consumer...")
			consumeErr := mqClient.Consume(func(msg amqp.Delivery) error {
				log.Printf("Order event [%s]: %s", msg.Type, string(msg.Body))
				return nil
			})
			if consumeErr != nil {
				log.Printf("Failed to start order event consumer: %v", consumeErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
