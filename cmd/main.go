package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markjakearzadon/mindcare-gobackend/internal/config"
	"github.com/markjakearzadon/mindcare-gobackend/internal/db"
	"github.com/markjakearzadon/mindcare-gobackend/internal/handlers"
	"github.com/markjakearzadon/mindcare-gobackend/internal/mailer"
	"github.com/markjakearzadon/mindcare-gobackend/internal/middleware"
	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/mpesa"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
	"github.com/markjakearzadon/mindcare-gobackend/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	client, err := db.Connect(ctx, cfg.MongoURI, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Disconnect(client); err != nil {
			logger.Warn("error disconnecting from MongoDB", "err", err)
		}
	}()
	database := client.Database(cfg.MongoDatabase)

	txStore, closeStore, err := openTransactionStore(ctx, cfg, database, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	router, err := newRouter(ctx, cfg, database, txStore, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Mpesa.Timeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreBackend)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openTransactionStore picks the M-Pesa transaction backend from STORE_BACKEND.
func openTransactionStore(ctx context.Context, cfg config.Config, database *mongo.Database, logger *slog.Logger) (store.TransactionStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pool.Close()
			return nil, nil, err
		}
		return pg, func() { _ = pool.Close() }, nil
	case config.BackendMemory:
		logger.Warn("using in-memory transaction store; data is lost on restart")
		return store.NewMemory(), func() {}, nil
	default:
		m := store.NewMongo(database)
		if err := m.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		return m, func() {}, nil
	}
}

func newRouter(ctx context.Context, cfg config.Config, database *mongo.Database, txStore store.TransactionStore, logger *slog.Logger) (*mux.Router, error) {
	rs := handlers.NewResponder(logger, cfg.IsDevelopment())

	userService := services.NewUserService(database)
	if err := userService.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	authService := services.NewAuthService(database, userService, cfg.JWTSecret)
	therapistService := services.NewTherapistService(database)
	sessionService := services.NewSessionService(database)
	bookingService := services.NewBookingService(database)
	diagnosticService := services.NewDiagnosticService(database)
	feedbackService := services.NewFeedbackService(database)
	resourceService := services.NewResourceService(database)

	paymentService := services.NewPaymentService(database)
	if err := paymentService.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	stripeService := services.NewStripeService(cfg.Stripe, paymentService, logger)

	mpesaClient := mpesa.NewClient(cfg.Mpesa, logger)
	mpesaService := services.NewMpesaService(mpesaClient, txStore, logger)

	meetLinkService := services.NewMeetLinkService(bookingService, userService, mailer.NewSMTPMailer(cfg.SMTP), logger)

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Recovery(logger), middleware.Logger(logger), middleware.CORS(cfg.CORSOrigin))
	// preflight requests must reach the CORS middleware
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/healthz", handlers.Healthz(logger, map[string]handlers.Pinger{
		"transactions": mpesaService,
	})).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	handlers.NewMpesaHandler(mpesaService, rs).Register(api)
	handlers.NewAuthHandler(authService, rs).Register(api)
	handlers.NewUserHandler(userService, rs).Register(api, middleware.RequireRole(authService, models.RoleAdmin))
	handlers.NewTherapistHandler(therapistService, rs).Register(api)
	handlers.NewSessionHandler(sessionService, rs).Register(api, middleware.RequireRole(authService, models.RoleAdmin, models.RoleTherapist))
	handlers.NewBookingHandler(bookingService, rs).Register(api)
	handlers.NewDiagnosticHandler(diagnosticService, rs).Register(api)
	handlers.NewFeedbackHandler(feedbackService, rs).Register(api)
	handlers.NewResourceHandler(resourceService, rs).Register(api)
	handlers.NewPaymentHandler(paymentService, stripeService, rs).Register(api)
	handlers.NewMeetLinkHandler(meetLinkService, rs).Register(api)

	return router, nil
}
