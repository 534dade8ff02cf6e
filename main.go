package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/siriwat/tickethub/config"
	"github.com/siriwat/tickethub/internal/handler"
	"github.com/siriwat/tickethub/internal/middleware"
	"github.com/siriwat/tickethub/internal/notifier"
	"github.com/siriwat/tickethub/internal/payment"
	"github.com/siriwat/tickethub/internal/repository"
	"github.com/siriwat/tickethub/internal/service"
	"github.com/siriwat/tickethub/pkg/database"
	"github.com/siriwat/tickethub/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Notification worker: consumes booking.* and emits confirmations
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}
	notifier.New().Start(msgs)

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	discounts := service.NewDiscountResolver(campaignRepo)
	gateway := payment.NewSimulatedGateway(cfg.PaymentSuccessRate, cfg.PaymentMinDelay, cfg.PaymentMaxDelay)
	bookingSvc := service.NewBookingService(bookingRepo, eventRepo, categoryRepo, campaignRepo, ticketRepo, discounts, gateway, publisher)
	eventSvc := service.NewEventService(eventRepo, reportRepo)
	ticketSvc := service.NewTicketService(ticketRepo)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "tickethub"})
	})

	public := e.Group("/api/v1")
	protected := e.Group("/api/v1", middleware.Identity(cfg.JWTSecret))
	booking := e.Group("/api/v1",
		middleware.Identity(cfg.JWTSecret),
		middleware.RateLimit(rdb, cfg.RateLimit, cfg.RateLimitWindow),
	)

	handler.NewEventHandler(eventSvc).RegisterRoutes(public, protected)
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(booking)
	handler.NewCampaignHandler(campaignRepo).RegisterRoutes(protected)
	handler.NewTicketHandler(ticketSvc).RegisterRoutes(protected)

	log.Printf("tickethub starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
