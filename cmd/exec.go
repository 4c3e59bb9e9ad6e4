package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"partner-portal/config"
	"partner-portal/internal/handlers"
	"partner-portal/internal/realtime"
	"partner-portal/internal/services"
	"partner-portal/internal/store"
	_ "partner-portal/migrations"
	"partner-portal/monitoring"
	"partner-portal/security"
	"partner-portal/utils"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// portal bundles the wired services so both the HTTP server and the CLI
// commands share one set.
type portal struct {
	cfg        *config.Config
	partners   *store.PartnerStore
	sessions   *services.SessionService
	tickets    *services.TicketService
	sales      *services.SalesService
	activities *services.ActivityService
	types      *services.TicketTypeService
	profiles   *services.ProfileService
	payments   *services.PaymentService
	feed       *services.NotificationService
	uploads    *services.UploadService
	images     *store.ImageStore
	publisher  realtime.Publisher
}

func newPortal(app core.App, cfg *config.Config, redisClient redis.Cmdable, publisher realtime.Publisher, hub *realtime.Hub) (*portal, error) {
	cash, err := regexp.Compile(cfg.CashPaymentPattern)
	if err != nil {
		return nil, fmt.Errorf("regexp.Compile(CASH_PAYMENT_PATTERN): %w", err)
	}
	loc := cfg.Location()

	// Stores
	ticketStore := store.NewTicketStore(app)
	partnerStore := store.NewPartnerStore(app)
	bookingStore := store.NewBookingStore(app)
	activityStore := store.NewActivityStore(app)
	categoryStore := store.NewCategoryStore(app)
	ticketTypeStore := store.NewTicketTypeStore(app)
	paymentStore := store.NewPaymentStore(app)
	notificationStore := store.NewNotificationStore(app)
	clickStore := store.NewClickStore(app)
	imageStore := store.NewImageStore(app)

	// Services
	sessions := services.NewSessionService(redisClient, partnerStore, cfg.SessionTTL)

	return &portal{
		cfg:        cfg,
		partners:   partnerStore,
		sessions:   sessions,
		tickets:    services.NewTicketService(ticketStore, bookingStore, cash, utils.NewFingerprinter(cfg.FingerprintSecret)),
		sales:      services.NewSalesService(ticketStore, bookingStore, clickStore, activityStore, cash, loc),
		activities: services.NewActivityService(activityStore, categoryStore),
		types:      services.NewTicketTypeService(ticketTypeStore),
		profiles:   services.NewProfileService(partnerStore, sessions),
		payments:   services.NewPaymentService(paymentStore, ticketStore),
		feed:       services.NewNotificationService(notificationStore, hub),
		uploads:    services.NewUploadService(imageStore, cfg.MaxImageBytes, cfg.PublicBaseURL),
		images:     imageStore,
		publisher:  publisher,
	}, nil
}

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient, err := utils.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Realtime fan-out. Without PubNub keys notifications only reach
	// clients connected to this instance.
	hub := realtime.NewHub(16)
	var publisher realtime.Publisher = hub
	if cfg.PubNubEnabled() {
		bridge := realtime.NewPubNubBridge(realtime.NewPubNubTransport(cfg), hub, cfg.PublishTimeout)
		publisher = bridge
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("pubnub bridge stopped", "error", err)
			}
		}()
	} else {
		slog.Info("PubNub keys not set, notifications are delivered in-process only")
	}

	p, err := newPortal(app, cfg, redisClient, publisher, hub)
	if err != nil {
		return err
	}

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.Environment == "development",
	})
	app.RootCmd.AddCommand(newExportCommand(p))

	if cfg.EnableMetrics {
		go monitoring.NewMonitor(p.sessions, 30*time.Second).Run(ctx)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	setupNotificationHooks(app, p.publisher)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		registerRoutes(se, p, redisClient)
		slog.Info("Server routes registered")
		return se.Next()
	})

	return app.Start()
}

func registerRoutes(se *core.ServeEvent, p *portal, redisClient *redis.Client) {
	auth := handlers.NewAuthHandler(p.sessions, p.profiles)
	tickets := handlers.NewTicketHandler(p.tickets)
	reports := handlers.NewReportHandler(p.sales, p.payments)
	catalog := handlers.NewCatalogHandler(p.activities, p.types, p.profiles)
	uploads := handlers.NewUploadHandler(p.uploads, p.images)
	payments := handlers.NewPaymentHandler(p.payments)
	notifications := handlers.NewNotificationHandler(p.feed)

	scanLimit := security.RateLimit(security.NewRedisStore(redisClient, "scan", p.cfg.ScanRateLimit, p.cfg.ScanRateWindow), "scan")
	loginLimit := security.RateLimit(security.NewRedisStore(redisClient, "login", 10, time.Minute), "login")

	se.Router.POST("/api/partner/login", auth.Login).BindFunc(security.AntiBot, loginLimit)

	api := se.Router.Group("/api/partner")
	api.BindFunc(security.AntiBot)
	api.Bind(apis.RequireAuth(store.CollectionPartners))
	api.BindFunc(auth.RequireSession)

	// Session
	api.POST("/logout", auth.Logout)
	api.GET("/me", auth.Me)
	api.POST("/password", auth.ChangePassword)

	// Scanning
	api.POST("/scan/validate", tickets.Validate).BindFunc(scanLimit)
	api.POST("/tickets/{id}/redeem", tickets.Redeem).BindFunc(scanLimit)

	// Reports
	api.GET("/sales", reports.Sales)
	api.GET("/sales/export", reports.SalesExport)
	api.GET("/analytics", reports.Analytics)
	api.GET("/analytics/export", reports.AnalyticsExport)
	api.GET("/summary", reports.Summary)
	api.GET("/summary/export", reports.SummaryExport)

	// Catalog
	api.GET("/activities", catalog.ListActivities)
	api.POST("/activities", catalog.CreateActivity)
	api.PATCH("/activities/{id}", catalog.UpdateActivity)
	api.DELETE("/activities/{id}", catalog.DeleteActivity)
	api.POST("/uploads", uploads.Upload)
	api.GET("/categories", catalog.Categories)
	api.GET("/ticket-types", catalog.ListTicketTypes)
	api.POST("/ticket-types", catalog.CreateTicketType)
	api.PATCH("/ticket-types/{id}", catalog.UpdateTicketType)
	api.POST("/ticket-types/{id}/toggle", catalog.ToggleTicketType)
	api.DELETE("/ticket-types/{id}", catalog.DeleteTicketType)
	api.GET("/profile", catalog.Profile)
	api.PATCH("/profile", catalog.UpdateProfile)

	// Payments
	api.GET("/payments", payments.Overview)
	api.POST("/payments/request", payments.Request)
	api.GET("/payments/export", reports.PaymentsExport)

	// Notifications
	api.GET("/notifications", notifications.List)
	api.POST("/notifications/read-all", notifications.MarkAllRead)
	api.POST("/notifications/{id}/read", notifications.MarkRead)
	api.DELETE("/notifications/{id}", notifications.Delete)
	api.GET("/notifications/stream", notifications.Stream)

	se.Router.GET("/api/public/images/{path...}", uploads.Serve)

	// Health check
	se.Router.GET("/health", func(e *core.RequestEvent) error {
		if err := utils.RedisHealthCheck(e.Request.Context(), redisClient); err != nil {
			return e.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	if p.cfg.EnableMetrics {
		se.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
	}
}

// setupNotificationHooks pushes every stored notification to its partner's
// live feeds, whichever code path inserted it.
func setupNotificationHooks(app core.App, publisher realtime.Publisher) {
	app.OnRecordAfterCreateSuccess(store.CollectionNotifications).BindFunc(func(e *core.RecordEvent) error {
		n := store.NotificationFromRecord(e.Record)
		if err := publisher.Publish(e.Context, n); err != nil {
			slog.Warn("Failed to publish notification",
				"notificationID", n.ID,
				"partnerID", n.PartnerID,
				"error", err,
			)
		}
		return e.Next()
	})
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Shutdown signal received, cleaning up...")
	cancel()
}
