package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"karinderya/internal/auth"
	"karinderya/internal/config"
	"karinderya/internal/database"
	"karinderya/internal/logger"
	"karinderya/internal/messaging"
	"karinderya/internal/messenger"
	"karinderya/internal/parser"
	"karinderya/internal/services/analytics"
	"karinderya/internal/services/menu"
	"karinderya/internal/services/notification"
	"karinderya/internal/services/order"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (api-server, notification-worker, create-staff)")
		configPath = flag.String("config", "config.yaml", "Path to config file")
		port       = flag.Int("port", 0, "HTTP port override (api-server mode)")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count (notification-worker mode)")
		username   = flag.String("username", "", "Staff username (create-staff mode)")
		password   = flag.String("password", "", "Staff password (create-staff mode)")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "api-server":
		httpPort := cfg.HTTP.Port
		if *port != 0 {
			httpPort = *port
		}
		if httpPort == 0 {
			httpPort = 3000
		}
		if err := runAPIServer(ctx, cfg, log, httpPort); err != nil {
			log.Error("service_failed", "API server failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-worker":
		if err := runNotificationWorker(ctx, cfg, log, *prefetch); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("service_failed", "Notification worker failed", requestID, err, nil)
			os.Exit(1)
		}
	case "create-staff":
		if *username == "" || *password == "" {
			log.Error("validation_failed", "username and password are required for create-staff mode", requestID, nil, nil)
			os.Exit(1)
		}
		if err := runCreateStaff(ctx, cfg, log, *username, *password); err != nil {
			log.Error("service_failed", "Staff creation failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runAPIServer runs the HTTP API: messenger webhook, orders, menu,
// analytics and staff auth.
func runAPIServer(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)

	menuRepo := menu.NewRepository(db)
	menuHandler := menu.NewHandler(menuRepo, log)

	orderParser := parser.New(menuRepo, parser.DefaultLexicon())
	orderRepo := order.NewRepository(db)
	orderService := order.NewService(orderRepo, publisher, orderParser, log)
	orderHandler := order.NewHandler(orderService, cfg.Messenger.VerifyToken, log)

	analyticsHandler := analytics.NewHandler(analytics.NewService(db), log)

	authService := auth.NewService(db, cfg, log)
	authHandler := auth.NewHandler(authService, log)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", healthHandler(db))
	router.Get("/webhook", orderHandler.VerifyWebhook)
	router.Post("/webhook", orderHandler.ReceiveWebhook)
	router.Post("/api/auth/login", authHandler.Login)
	router.Get("/api/menu-items", menuHandler.List)

	// Staff dashboard routes
	router.Group(func(r chi.Router) {
		r.Use(authService.Middleware)
		r.Get("/api/orders", orderHandler.List)
		r.Get("/api/orders/{id}", orderHandler.Get)
		r.Patch("/api/orders/{id}/status", orderHandler.UpdateStatus)
		r.Post("/api/menu-items", menuHandler.Create)
		r.Put("/api/menu-items/{id}", menuHandler.Update)
		r.Delete("/api/menu-items/{id}", menuHandler.Delete)
		r.Get("/api/analytics", analyticsHandler.Report)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		log.Info("server_listening", fmt.Sprintf("API server started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runNotificationWorker consumes queued customer notifications and delivers
// them through the Messenger Send API.
func runNotificationWorker(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, "notification-worker", prefetch)
	client := messenger.NewClient(cfg, log)
	worker := notification.NewWorker(consumer, client, log)

	return worker.Run(ctx)
}

// runCreateStaff provisions a staff dashboard user and exits. This is how
// the first user is bootstrapped before anyone can log in.
func runCreateStaff(ctx context.Context, cfg *config.Config, log *logger.Logger, username, password string) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	service := auth.NewService(db, cfg, log)
	id, err := service.CreateStaff(ctx, username, password)
	if err != nil {
		return err
	}

	log.Info("staff_created", fmt.Sprintf("Created staff user %s", username), requestID, map[string]interface{}{
		"id":       id,
		"username": username,
	})
	return nil
}

// healthHandler reports service liveness and database reachability.
func healthHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		fmt.Fprintf(w, `{"status":%q,"timestamp":%q}`, status, time.Now().UTC().Format(time.RFC3339))
	}
}
