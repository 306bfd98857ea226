package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Rrens/storefront-assistant/internal/apiclient"
	"github.com/Rrens/storefront-assistant/internal/authstate"
	"github.com/Rrens/storefront-assistant/internal/config"
	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/Rrens/storefront-assistant/internal/logger"
	redisstore "github.com/Rrens/storefront-assistant/internal/repository/redis"
	"github.com/Rrens/storefront-assistant/internal/repository/sqlite"
	"github.com/Rrens/storefront-assistant/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// app holds the services shared by every command
type app struct {
	verbose bool
	output  string

	cfg     *config.Config
	closers []func() error

	session *authstate.Manager
	client  *apiclient.Client
	auth    *service.AuthService
	shop    *service.StoreService
	chat    *service.ChatService
}

func (a *app) init(ctx context.Context) error {
	if a.cfg != nil {
		return nil
	}

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	logger.Setup(cfg.Logging, os.Stderr)

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.session = authstate.NewManager(store, nil)
	a.client = apiclient.New(cfg.API.BaseURL, apiclient.TokenFunc(a.session.Token), apiclient.WithTimeout(cfg.API.Timeout))
	a.auth = service.NewAuthService(a.client, a.session)
	a.shop = service.NewStoreService(a.client)
	a.chat = service.NewChatService(a.client, a.session, a.session.Notifier(), cfg.Chat.RecentSessionWindow)

	log.Debug().
		Str("api", cfg.API.BaseURL).
		Str("store", cfg.Store.Driver).
		Msg("Client initialized")
	return nil
}

func (a *app) openStore(ctx context.Context, cfg *config.Config) (domain.SessionStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return authstate.NewMemoryStore(), nil
	case config.StoreDriverRedis:
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return redisstore.NewSessionStore(client, cfg.Store.KeyPrefix), nil
	default:
		store, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open local store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("Failed to close store")
		}
	}
	a.closers = nil
	a.cfg = nil
}
