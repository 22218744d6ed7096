package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/diagnosis/clinic-bookings/internal/http/handlers"
	imw "github.com/diagnosis/clinic-bookings/internal/http/middleware"
	"github.com/diagnosis/clinic-bookings/internal/platform/auth"
	"github.com/diagnosis/clinic-bookings/internal/platform/cache"
	"github.com/diagnosis/clinic-bookings/internal/platform/mailer"
	"github.com/diagnosis/clinic-bookings/internal/platform/payments"
	"github.com/diagnosis/clinic-bookings/internal/repo/postgres"
	"github.com/diagnosis/clinic-bookings/internal/service"
	"github.com/diagnosis/clinic-bookings/pkg/config"
	"github.com/diagnosis/clinic-bookings/pkg/database"
	"github.com/diagnosis/clinic-bookings/pkg/events"
	"github.com/diagnosis/clinic-bookings/pkg/logger"
	mw "github.com/diagnosis/clinic-bookings/pkg/middleware"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	store, err := cache.NewStore(cfg.Redis.URL)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Repositories
	optionsRepo := postgres.NewOptionsRepo(pool)
	bookingsRepo := postgres.NewBookingsRepo(pool)
	usersRepo := postgres.NewUsersRepo(pool)
	paymentsRepo := postgres.NewPaymentsRepo(pool)

	// Platform
	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	gateway := payments.NewGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency)

	var mail mailer.Service
	if cfg.Email.DevMode {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Services
	bookingSvc := service.NewBookingService(optionsRepo, bookingsRepo, eventBus, mail)
	userSvc := service.NewUserService(usersRepo, eventBus)
	paymentSvc := service.NewPaymentService(paymentsRepo, bookingsRepo, gateway, eventBus)

	// Handlers
	optionsH := handlers.NewOptionsHandler(bookingSvc)
	bookingsH := handlers.NewBookingsHandler(bookingSvc, userSvc)
	authH := handlers.NewAuthHandler(userSvc, tokens)
	usersH := handlers.NewUsersHandler(userSvc)
	paymentsH := handlers.NewPaymentsHandler(paymentSvc)

	// Guards
	requireJWT := imw.RequireJWT(tokens)
	requireAdmin := imw.RequireAdmin(usersRepo)

	jwtLimiter := imw.NewRateLimiter(store, imw.RateLimitConfig{
		Requests: 20,
		Window:   time.Minute,
		Prefix:   "jwt",
	})
	bookingLimiter := imw.NewRateLimiter(store, imw.RateLimitConfig{
		Requests: 30,
		Window:   time.Minute,
		Prefix:   "bookings",
	})

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("clinic-api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("clinic booking server is running"))
	})

	r.Get("/appointmentOptions", optionsH.List)

	r.Route("/bookings", func(r chi.Router) {
		r.With(bookingLimiter.Middleware(), mw.Idempotency(store)).Post("/", bookingsH.Create)
		r.With(requireJWT).Get("/", bookingsH.List)
		r.With(requireJWT).Delete("/{id}", bookingsH.Delete)
	})

	r.With(jwtLimiter.Middleware()).Get("/jwt", authH.IssueToken)

	r.Route("/users", func(r chi.Router) {
		r.With(requireJWT, requireAdmin).Get("/", usersH.List)
		r.Post("/", usersH.Create)
		r.Get("/admin/{email}", usersH.IsAdmin)
		r.With(requireJWT, requireAdmin).Put("/admin/{id}", usersH.Elevate)
	})

	r.Post("/payments", paymentsH.Record)
	r.Post("/create-payment-intent", paymentsH.CreateIntent)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down clinic API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting clinic API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
