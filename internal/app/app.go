package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/auth"
	"github.com/bobmcallan/paisa-buddy/internal/cache"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/config"
	"github.com/bobmcallan/paisa-buddy/internal/content"
	"github.com/bobmcallan/paisa-buddy/internal/fraud"
	"github.com/bobmcallan/paisa-buddy/internal/handlers"
	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
	"github.com/bobmcallan/paisa-buddy/internal/market"
	"github.com/bobmcallan/paisa-buddy/internal/mcp"
	"github.com/bobmcallan/paisa-buddy/internal/seed"
	"github.com/bobmcallan/paisa-buddy/internal/storage"
	"github.com/shopspring/decimal"
)

// devJWTSecret signs sessions in dev mode when no secret is configured.
const devJWTSecret = "paisa-buddy-dev-secret"

const tokenIssuer = "paisa-buddy"

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Storage  interfaces.StorageManager
	Store    *storage.SnapshotStore
	Ledgers  *ledgers.Registry
	Catalog  *market.Catalog
	Feed     *market.CachedFeed
	Sessions *auth.Sessions
	Provider interfaces.IdentityProvider
	Content  *content.Service

	// HTTP handlers
	HealthHandler      *handlers.HealthHandler
	VersionHandler     *handlers.VersionHandler
	AuthHandler        *handlers.AuthHandler
	PortfolioHandler   *handlers.PortfolioHandler
	BudgetHandler      *handlers.BudgetHandler
	LearningHandler    *handlers.LearningHandler
	FraudHandler       *handlers.FraudHandler
	LeaderboardHandler *handlers.LeaderboardHandler
	DashboardHandler   *handlers.DashboardHandler
	ContentHandler     *handlers.ContentHandler
	MCPHandler         *mcp.Handler

	// background work started by the server; Close stops and waits for it
	bg       sync.WaitGroup
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// New initializes the application with all dependencies.
func New(ctx context.Context, cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}
	a.bgCtx, a.bgCancel = context.WithCancel(context.Background())

	// Validate environment setting
	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE: requests without a session act as the dev user, do not use in production")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	mgr, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = mgr
	a.Store = storage.NewSnapshotStore(mgr.KeyValueStorage())

	a.initServices(ctx)
	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initServices builds the ledgers, market feed, sessions and content generator.
func (a *App) initServices(ctx context.Context) {
	cfg := a.Config

	a.Ledgers = ledgers.NewRegistry(a.Store, cfg.StartingCash(), a.Logger)
	a.Catalog = market.NewCatalog(seed.Listings())

	var feed market.Feed = market.NewCatalogFeed(a.Catalog)
	if cfg.Market.QuoteURL != "" {
		feed = market.NewHTTPFeed(cfg.Market.QuoteURL, cfg.Market.PricePath, config.Duration(cfg.Market.Timeout, 10*time.Second))
		a.Logger.Info().Str("quote_url", cfg.Market.QuoteURL).Msg("using HTTP quote feed")
	}
	a.Feed = market.NewCachedFeed(feed, cache.New[decimal.Decimal](config.Duration(cfg.Market.CacheTTL, time.Minute), cfg.Market.CacheEntries))

	secret := cfg.Auth.JWTSecret
	if secret == "" && cfg.IsDevMode() {
		a.Logger.Warn().Msg("auth.jwt_secret not set, signing sessions with the built-in dev secret")
		secret = devJWTSecret
	}
	devUser := ""
	if cfg.IsDevMode() {
		devUser = cfg.Auth.DevUser
	}
	tokens := auth.NewTokens([]byte(secret), config.Duration(cfg.Auth.TokenTTL, 24*time.Hour), tokenIssuer)
	a.Sessions = auth.NewSessions(tokens, devUser, !cfg.IsDevMode())
	a.Provider = auth.NewLocalProvider(a.Storage.KeyValueStorage(), a.Store, a.Logger)

	if cfg.AI.APIKey == "" {
		a.Logger.Warn().Str("provider", cfg.AI.Provider).Msg("ai.api_key not set, content generation disabled")
		return
	}
	gen, err := content.NewGenerator(ctx, cfg.AI)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("content generator unavailable, content generation disabled")
		return
	}
	a.Content = content.NewService(gen, config.Duration(cfg.AI.Timeout, 30*time.Second), a.Logger)
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	currency := a.Config.Ledger.Currency
	quiz := fraud.NewQuiz(seed.Challenges())

	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Store, a.Ledgers)
	a.VersionHandler = handlers.NewVersionHandler(a.Config)
	a.AuthHandler = handlers.NewAuthHandler(a.Logger, a.Provider, a.Store, a.Sessions)
	a.PortfolioHandler = handlers.NewPortfolioHandler(a.Logger, a.Ledgers, a.Catalog, a.Feed, currency)
	a.BudgetHandler = handlers.NewBudgetHandler(a.Logger, a.Ledgers)
	a.LearningHandler = handlers.NewLearningHandler(a.Logger, a.Ledgers)
	a.FraudHandler = handlers.NewFraudHandler(quiz, a.Ledgers)
	a.LeaderboardHandler = handlers.NewLeaderboardHandler(a.Ledgers, a.Store, seed.Peers(), seed.PlayerAvatar)
	a.DashboardHandler = handlers.NewDashboardHandler(a.LeaderboardHandler)
	a.ContentHandler = handlers.NewContentHandler(a.Content)

	a.MCPHandler = mcp.NewHandler(mcp.Deps{
		Ledgers:  a.Ledgers,
		Catalog:  a.Catalog,
		Feed:     a.Feed,
		Content:  a.Content,
		Quiz:     quiz,
		Currency: currency,
	}, a.Sessions, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.bgCancel != nil {
		a.bgCancel()
	}
	a.bg.Wait()
	if a.Storage == nil {
		return nil
	}
	return a.Storage.Close()
}

// SeedDevUsers imports the dev accounts in the background when running in
// dev mode. Only the server calls it; Close waits for the import to stop.
func (a *App) SeedDevUsers() {
	if !a.Config.IsDevMode() {
		return
	}
	a.Go(func(ctx context.Context) {
		seed.DevUsers(ctx, a.Provider, a.Logger)
	})
}

// Go runs fn in the background with a context cancelled by Close.
func (a *App) Go(fn func(ctx context.Context)) {
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		fn(a.bgCtx)
	}()
}
