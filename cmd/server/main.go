package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/SamuelCev/KicksBackend-sub000/internal/cart"
	"github.com/SamuelCev/KicksBackend-sub000/internal/checkout"
	"github.com/SamuelCev/KicksBackend-sub000/internal/config"
	h "github.com/SamuelCev/KicksBackend-sub000/internal/http"
	"github.com/SamuelCev/KicksBackend-sub000/internal/kvstore"
	"github.com/SamuelCev/KicksBackend-sub000/internal/logger"
	"github.com/SamuelCev/KicksBackend-sub000/internal/notify"
	"github.com/SamuelCev/KicksBackend-sub000/internal/receipt"
	"github.com/SamuelCev/KicksBackend-sub000/internal/repository"
)

func main() {
	log := logger.New("kicks-backend")

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	requestTimeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	shutdownTimeout := time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second

	creds := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsDirPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("connected to postgres, migrations applied")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	refStore := kvstore.NewRedisStore(redisClient, "pago:")
	cartGateway := cart.NewGateway(repo.DB(), cart.NewRedisCache(redisClient), log)
	renderer := receipt.NewPDFRenderer(cfg.ReceiptDir)
	dispatcher := notify.NewSMTPDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)

	checkoutService := checkout.NewService(repo, repo, repo, cartGateway, renderer, dispatcher, log)

	orderHandler := h.NewOrderHandler(checkoutService, repo, requestTimeout, log)
	paymentHandler := h.NewPaymentHandler(refStore, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(h.LoggerMiddleware(log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MockAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/ordenes", func(r chi.Router) {
		r.Post("/", orderHandler.PlaceOrder)
		r.Get("/", orderHandler.ListOrders)
		r.Get("/paises", paymentHandler.ListCountries)
		r.Get("/info-transferencia", paymentHandler.TransferInfo)
		r.Get("/oxxo-details", paymentHandler.OxxoDetails)
		r.Post("/validar-cupon", paymentHandler.ValidateCoupon)
		r.Get("/{orden_id}", orderHandler.GetOrder)
	})

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Str("port", cfg.ServerPort).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("server stopped")
}
