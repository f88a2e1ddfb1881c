package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/KyubiGames/autoenvios-ml/internal/catalog"
	"github.com/KyubiGames/autoenvios-ml/internal/client/meli"
	"github.com/KyubiGames/autoenvios-ml/internal/config"
	"github.com/KyubiGames/autoenvios-ml/internal/migrations/postgres"
	"github.com/KyubiGames/autoenvios-ml/internal/oauth"
	xredis "github.com/KyubiGames/autoenvios-ml/internal/redis"
	"github.com/KyubiGames/autoenvios-ml/internal/server/handler"
	"github.com/KyubiGames/autoenvios-ml/internal/service/auth"
	"github.com/KyubiGames/autoenvios-ml/internal/service/notification"
	"github.com/KyubiGames/autoenvios-ml/internal/storage"
	"github.com/KyubiGames/autoenvios-ml/internal/token"
	"github.com/KyubiGames/autoenvios-ml/internal/xhttp/middleware"
	"github.com/KyubiGames/autoenvios-ml/internal/xslog"
)

const (
	keyPort    = "port"
	keyEntries = "entries"
	keyBackend = "backend"
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	credStore, dedupStore, err := initStores(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sendLog, closeDB, err := initSendLog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := seedCredentials(ctx, cfg, credStore, logger); err != nil {
		return err
	}

	cat, err := initCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}

	oauthCfg := oauth.NewConfig(cfg)
	refresher := token.NewRefresher(oauthCfg, credStore)
	meliClient := meli.New(token.NewStoreSource(credStore), meli.WithLogger(logger))

	processorOpts := []notification.ProcessorOption{
		notification.WithSendLog(sendLog),
	}
	if cfg.TargetItemID != "" {
		processorOpts = append(processorOpts, notification.WithTargetItem(cfg.TargetItemID))
	}
	if dedupStore != nil {
		processorOpts = append(processorOpts, notification.WithDedup(dedupStore, cfg.DedupTTL))
	}

	notificationService := notification.NewProcessor(
		refresher,
		meliClient.Orders,
		meliClient.Messages,
		cat,
		processorOpts...,
	)

	stateStore := storage.NewMemoryStateStore()
	defer func() { _ = stateStore.Close() }()

	authService := auth.NewOAuth(oauthCfg, credStore, stateStore, meliClient.Users)

	authHandler := handler.NewAuth(authService)
	webhookHandler := handler.NewWebhook(notificationService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handler.HandleRoot)
	mux.HandleFunc("GET /health", handler.HandleHealth)
	mux.HandleFunc("GET /auth", authHandler.HandleAuthStart)
	mux.HandleFunc("GET /callback", authHandler.HandleAuthCallback)
	mux.HandleFunc("POST /webhook", webhookHandler.HandleWebhook)
	mux.HandleFunc("POST /notifications", webhookHandler.HandleWebhook)

	wrapped := middleware.Chain(mux,
		middleware.Recovery,
		middleware.Logging,
		middleware.Logger(logger),
		middleware.RequestID(),
		middleware.SecurityHeaders,
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.InfoContext(ctx, "starting server",
			xslog.Version(),
			slog.String(keyPort, cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "server error", xslog.Error(err))
		}
	}()

	<-done
	logger.InfoContext(ctx, "shutdown signal received, initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}

func initStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.CredentialStore, storage.DedupStore, error) {
	var (
		credStore  storage.CredentialStore
		dedupStore storage.DedupStore
	)

	if cfg.RedisURL != "" {
		logger.InfoContext(ctx, "initializing redis-backed stores", slog.String(keyBackend, "redis"))

		redisClient, err := xredis.New(ctx, xredis.Config{URL: cfg.RedisURL})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis client: %w", err)
		}

		credStore = storage.NewRedisCredentialStore(redisClient)
		if cfg.DedupTTL > 0 {
			dedupStore = storage.NewRedisDedupStore(redisClient)
		}
		return credStore, dedupStore, nil
	}

	logger.InfoContext(ctx, "initializing in-memory stores", slog.String(keyBackend, "memory"))

	credStore = storage.NewMemoryCredentialStore()
	if cfg.DedupTTL > 0 {
		dedupStore = storage.NewMemoryDedupStore(time.Minute)
	}
	return credStore, dedupStore, nil
}

func initSendLog(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.SendLog, func(), error) {
	if cfg.DatabaseURL == "" {
		return storage.NopSendLog{}, func() {}, nil
	}

	logger.InfoContext(ctx, "initializing PostgreSQL send log")

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	if err := postgres.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	return storage.NewPostgresSendLog(pool), pool.Close, nil
}

// seedCredentials bootstraps the credential store from MELI_REFRESH_TOKEN
// so a fresh deployment can serve without re-running the authorization
// flow. An already-populated store wins over the seed.
func seedCredentials(ctx context.Context, cfg config.Config, store storage.CredentialStore, logger *slog.Logger) error {
	if cfg.Meli.RefreshToken == "" {
		return nil
	}

	if _, err := store.Get(ctx); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check credential store: %w", err)
	}

	creds := storage.Credentials{
		RefreshToken: cfg.Meli.RefreshToken,
		ObtainedAt:   time.Now(),
	}
	if err := store.Set(ctx, creds); err != nil {
		return fmt.Errorf("failed to seed credentials: %w", err)
	}

	logger.InfoContext(ctx, "seeded credential store from environment")
	return nil
}

func initCatalog(ctx context.Context, cfg config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	var defaultRule *catalog.Rule
	if cfg.Catalog.DefaultMessage != "" {
		defaultRule = &catalog.Rule{Text: cfg.Catalog.DefaultMessage}
	}

	if cfg.Catalog.Path == "" {
		if defaultRule == nil {
			logger.WarnContext(ctx, "no catalog configured, every notification will be skipped")
		}
		return catalog.New(nil, defaultRule), nil
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if defaultRule != nil {
		cat = cat.WithDefault(*defaultRule)
	}

	logger.InfoContext(ctx, "loaded message catalog", slog.Int(keyEntries, cat.Len()))
	return cat, nil
}
