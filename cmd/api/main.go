package main

import (
	"net/http"

	"github.com/quickbite/backend/internal/api"
	"github.com/quickbite/backend/internal/auth"
	"github.com/quickbite/backend/internal/config"
	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/events"
	"github.com/quickbite/backend/internal/notify"
	"github.com/quickbite/backend/internal/orders"
	"github.com/quickbite/backend/internal/otp"
	"github.com/quickbite/backend/internal/pricing"
	"github.com/quickbite/backend/internal/store"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("connected to database")

	users := store.NewUsers(db)
	catalog := store.NewCatalog(db)
	addresses := store.NewAddresses(db)
	orderStore := store.NewOrders(db)
	otpStore := store.NewOtps(db)
	stats := store.NewStats(db)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	sender := notify.NewLogSender(logger)

	otpService := otp.NewService(otpStore, users, tokens, sender, cfg.OTP.TTL, logger)

	var googleVerifier auth.IDTokenVerifier
	if cfg.Auth.GoogleClientID != "" {
		googleVerifier = auth.NewGoogleVerifier(cfg.Auth.GoogleClientID)
	}
	authService := auth.NewService(users, hasher, tokens, googleVerifier, cfg.Auth.ResetRequiresOTP, logger)

	policy := pricing.LenientSkip
	if cfg.Orders.StrictItemCodes {
		policy = pricing.StrictReject
	}

	var publisher orders.Publisher
	if cfg.Broker.URL != "" {
		conn, err := amqp.Dial(cfg.Broker.URL)
		if err != nil {
			logger.Fatal("connect to broker", zap.Error(err))
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatal("create publisher", zap.Error(err))
		}
		defer pub.Close()
		publisher = pub

		logger.Info("order events enabled", zap.String("queue", events.OrderCreatedQueue))
	}

	orderService := orders.NewService(catalog, orderStore, publisher, policy, logger)

	handlers := api.NewHandlers(api.Deps{
		Auth:       authService,
		OTP:        otpService,
		Orders:     orderService,
		Tokens:     tokens,
		Users:      users,
		Catalog:    catalog,
		Addresses:  addresses,
		OrderStore: orderStore,
		Stats:      stats,
		Policy:     policy,
		Logger:     logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handlers.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
