// ABOUTME: Gateway orchestrator wiring the store, tool packs, widgets, MCP and OAuth servers
// ABOUTME: Owns the HTTP listener and manages graceful shutdown

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/luvya/luvya-gateway/internal/auth"
	"github.com/luvya/luvya-gateway/internal/config"
	"github.com/luvya/luvya-gateway/internal/mcp"
	"github.com/luvya/luvya-gateway/internal/oauth"
	"github.com/luvya/luvya-gateway/internal/store"
	"github.com/luvya/luvya-gateway/internal/tools"
	"github.com/luvya/luvya-gateway/internal/widgets"
)

// Gateway orchestrates the luvya-gateway server components.
// It wires the hosted travel store into the tool packs and fronts them with
// the MCP and OAuth HTTP surfaces on a single listener.
type Gateway struct {
	config      *config.Config
	store       *store.Client
	registry    *tools.Registry
	dispatcher  *tools.Dispatcher
	widgets     *widgets.Catalog
	mcpServer   *mcp.Server
	oauthServer *oauth.Server
	httpServer  *http.Server
	logger      *slog.Logger

	// serverID identifies this gateway instance in logs
	serverID string

	shutdownOnce sync.Once
	shutdownErr  error
}

// initStore creates the hosted rows client from config.
func initStore(cfg *config.Config, logger *slog.Logger) *store.Client {
	return store.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.RequestTimeout, logger)
}

// registerToolPacks registers the builtin tool packs with the registry.
func registerToolPacks(registry *tools.Registry, client *store.Client) error {
	if err := registry.RegisterPack(tools.AccountPack(client)); err != nil {
		return fmt.Errorf("registering account pack: %w", err)
	}
	if err := registry.RegisterPack(tools.TravelPack(client)); err != nil {
		return fmt.Errorf("registering travel pack: %w", err)
	}
	return nil
}

// New creates a new Gateway instance with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	client := initStore(cfg, logger)

	registry := tools.NewRegistry(logger.With("component", "tool-registry"))
	if err := registerToolPacks(registry, client); err != nil {
		return nil, err
	}
	dispatcher := tools.NewDispatcher(tools.DispatcherConfig{
		Registry: registry,
		Logger:   logger.With("component", "dispatcher"),
	})

	catalog, err := widgets.New()
	if err != nil {
		return nil, fmt.Errorf("loading widget catalog: %w", err)
	}

	// One verifier serves both surfaces: the OAuth token endpoint signs with
	// it and the MCP transport verifies with it, so issuer and audience agree.
	baseURL := cfg.PublicBaseURL()
	verifier := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret), baseURL)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Registry:    registry,
		Dispatcher:  dispatcher,
		Widgets:     catalog,
		Logger:      logger.With("component", "mcp"),
		Verifier:    verifier,
		RequireAuth: cfg.Server.RequireAuth,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	oauthServer, err := oauth.NewServer(oauth.Config{
		BaseURL:  baseURL,
		Signer:   verifier,
		Logger:   logger.With("component", "oauth"),
		TokenTTL: cfg.Auth.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating OAuth server: %w", err)
	}

	gw := &Gateway{
		config:      cfg,
		store:       client,
		registry:    registry,
		dispatcher:  dispatcher,
		widgets:     catalog,
		mcpServer:   mcpServer,
		oauthServer: oauthServer,
		logger:      logger.With("component", "gateway"),
		serverID:    generateServerID(),
	}

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           gw.buildRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// buildRouter assembles the HTTP surface. The MCP and OAuth servers register
// on a plain mux mounted at the root; gateway-owned routes are declared on
// the router itself so they win over the mounted wildcard.
func (g *Gateway) buildRouter() http.Handler {
	apiMux := http.NewServeMux()
	g.mcpServer.RegisterRoutes(apiMux)
	g.oauthServer.RegisterRoutes(apiMux)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", g.handleHealth)
	r.Get("/ready", g.handleReady)
	r.Get("/widgets/{name}", g.handleWidgetPreview)

	r.Mount("/", apiMux)
	return r
}

// Run starts the gateway server and blocks until the context is canceled.
// Returns nil on graceful shutdown (context canceled), or an error if the
// server fails.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := g.startServer(ln)
	serverErr := g.waitForShutdownSignal(ctx, errCh)

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// startServer serves HTTP in a goroutine, returning an error channel.
func (g *Gateway) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		g.logger.Info("HTTP server listening",
			"addr", ln.Addr().String(),
			"server_id", g.serverID,
			"base_url", g.config.PublicBaseURL(),
		)
		if err := g.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or a server error.
func (g *Gateway) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		g.logger.Error("server error", "error", err)
		return err
	}
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is
// already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown gracefully stops the HTTP server. Safe to call more than once;
// later calls return the first call's result.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.shutdownOnce.Do(func() {
		g.logger.Info("shutting down gateway")
		if err := g.httpServer.Shutdown(ctx); err != nil {
			g.shutdownErr = fmt.Errorf("HTTP shutdown: %w", err)
		}
	})
	return g.shutdownErr
}

// generateServerID creates a unique identifier for this gateway instance.
func generateServerID() string {
	return fmt.Sprintf("luvya-gateway-%d", time.Now().UnixNano()%1000000)
}
