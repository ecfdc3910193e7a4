package creatorcredits

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/creator-credits/internal/aiprovider/huggingface"
	"github.com/magabrotheeeer/creator-credits/internal/aiprovider/openai"
	"github.com/magabrotheeeer/creator-credits/internal/billingprovider"
	"github.com/magabrotheeeer/creator-credits/internal/cache"
	"github.com/magabrotheeeer/creator-credits/internal/config"
	"github.com/magabrotheeeer/creator-credits/internal/lib/jwt"
	"github.com/magabrotheeeer/creator-credits/internal/migrations"
	"github.com/magabrotheeeer/creator-credits/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/creator-credits/internal/services/auth"
	billingservice "github.com/magabrotheeeer/creator-credits/internal/services/billing"
	generationservice "github.com/magabrotheeeer/creator-credits/internal/services/generation"
	"github.com/magabrotheeeer/creator-credits/internal/storage/repository"
)

type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	channel, err := rabbitmq.SetupChannel(rabbitConn)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(channel)

	openaiClient := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIAPIURL, cfg.RequestTimeout)
	huggingfaceClient := huggingface.NewClient(cfg.HuggingFaceAPIKey, cfg.HuggingFaceAPIURL, cfg.RequestTimeout)
	billingClient := billingprovider.NewClient(cfg.KeyID, cfg.KeySecret, cfg.APIURL)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	generationService := generationservice.New(db, cacheRedis, openaiClient, huggingfaceClient, logger)
	billingService := billingservice.New(db, billingClient, publisher, cfg.Plans, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, db,
		authService, generationService, billingService, cfg.WebhookSecret)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		a.rabbitConn.Close()
		return err
	}
}
