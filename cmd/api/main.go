package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/citywaste/waste-flow-api/internal/config"
	"github.com/citywaste/waste-flow-api/internal/events"
	"github.com/citywaste/waste-flow-api/internal/gateway"
	"github.com/citywaste/waste-flow-api/internal/handler"
	"github.com/citywaste/waste-flow-api/internal/middleware"
	"github.com/citywaste/waste-flow-api/internal/repository"
	"github.com/citywaste/waste-flow-api/internal/service"
	"github.com/citywaste/waste-flow-api/internal/storage"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := events.Setup(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Image storage
	images, err := storage.NewImageStore(cfg.Upload.Dir)
	if err != nil {
		log.Error("init image store", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	paymentRepo := repository.NewPaymentRepository(dbPool)
	collectionRepo := repository.NewCollectionRepository(dbPool)
	complaintRepo := repository.NewComplaintRepository(dbPool)
	locationRepo := repository.NewLocationRepository(dbPool)
	statsRepo := repository.NewStatsRepository(dbPool)

	// Outbound gateway & events
	monetbil := gateway.NewMonetbilClient(cfg.Monetbil)
	publisher := events.NewPublisher(amqpCh, log)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogSvc := service.NewCatalogService(categoryRepo, productRepo, images, redisClient)
	orderSvc := service.NewOrderService(orderRepo, productRepo)
	paymentSvc := service.NewPaymentService(
		paymentRepo, orderRepo, userRepo, monetbil,
		cfg.Monetbil.ReturnURL, cfg.Monetbil.NotifyURL, cfg.Monetbil.LogoURL,
		publisher, log,
	)
	collectionSvc := service.NewCollectionService(collectionRepo, publisher)
	complaintSvc := service.NewComplaintService(complaintRepo)
	adminSvc := service.NewAdminService(userRepo, statsRepo, collectionRepo, complaintRepo)
	locationSvc := service.NewLocationService(locationRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	wasteH := handler.NewWasteHandler(collectionSvc)
	complaintH := handler.NewComplaintHandler(complaintSvc)
	adminH := handler.NewAdminHandler(adminSvc)
	locationH := handler.NewLocationHandler(locationSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)
	router.Static("/images", images.Dir())

	authn := middleware.AuthMiddleware(cfg.JWT.Secret)

	auth := router.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)

	products := router.Group("/products")
	products.GET("", catalogH.ListProducts)
	products.GET("/categories", catalogH.ListCategories)
	products.GET("/:id", catalogH.GetProduct)

	orders := router.Group("/orders", authn)
	orders.POST("", orderH.Create)
	orders.GET("", orderH.List)

	payments := router.Group("/payments")
	payments.POST("/monetbil", authn, paymentH.Initiate)
	payments.POST("/monetbil/quick", authn, paymentH.Initiate)
	payments.POST("/monetbil/webhook", paymentH.Webhook)

	citizens := router.Group("/citizens", authn)
	citizens.POST("/collections", wasteH.RequestCollection)
	citizens.GET("/collections", wasteH.ListOwn)
	citizens.POST("/complaints", complaintH.Create)
	citizens.GET("/complaints", complaintH.ListOwn)
	citizens.GET("/profile", authH.Profile)
	citizens.PUT("/profile", authH.UpdateProfile)

	waste := router.Group("/waste", authn)
	waste.POST("", wasteH.RequestCollection)
	waste.GET("", wasteH.ListAll)

	collectors := router.Group("/collectors", authn, middleware.CollectorOnly())
	collectors.GET("/requests", wasteH.ListAll)
	collectors.PUT("/requests/:id/accept", wasteH.Accept)
	collectors.PUT("/requests/:id/complete", wasteH.Complete)
	collectors.GET("/history", wasteH.History)

	admin := router.Group("/admin", authn, middleware.AdminOnly())
	admin.POST("/collectors", adminH.CreateCollector)
	admin.GET("/collectors", adminH.ListCollectors)
	admin.DELETE("/collectors/:id", adminH.DeleteCollector)
	admin.POST("/categories", catalogH.CreateCategory)
	admin.GET("/categories", catalogH.ListCategories)
	admin.PUT("/categories/:id", catalogH.UpdateCategory)
	admin.DELETE("/categories/:id", catalogH.DeleteCategory)
	admin.POST("/products", catalogH.CreateProduct)
	admin.GET("/products", catalogH.ListProducts)
	admin.PUT("/products/:id", catalogH.UpdateProduct)
	admin.DELETE("/products/:id", catalogH.DeleteProduct)
	admin.GET("/complaints", complaintH.ListAll)
	admin.PUT("/complaints/:id", complaintH.Resolve)
	admin.GET("/orders", adminH.RecentOrders)
	admin.GET("/stats", adminH.Stats)
	admin.GET("/top-collectors", adminH.TopCollectors)
	admin.GET("/users", adminH.ListUsers)

	locations := router.Group("/locations", authn, middleware.AdminOnly())
	locations.POST("", locationH.Create)
	locations.GET("", locationH.List)
	locations.PUT("/:id", locationH.Update)
	locations.DELETE("/:id", locationH.Delete)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	cancel()
	log.Info("server stopped")
}
