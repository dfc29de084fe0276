package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-game-gateway/balance"
	"github.com/jrsteele09/go-game-gateway/channel/wschannel"
	"github.com/jrsteele09/go-game-gateway/gateway"
	"github.com/jrsteele09/go-game-gateway/inspector"
	"github.com/jrsteele09/go-game-gateway/internal/config"
	"github.com/jrsteele09/go-game-gateway/sessions"
	"github.com/jrsteele09/go-game-gateway/tenants"
	tenantrepofakes "github.com/jrsteele09/go-game-gateway/tenants/repofakes"
)

// Deps holds the constructed collaborators of the HTTP facade.
type Deps struct {
	Engine    *gateway.Service
	Registry  *sessions.Registry
	Inspector *inspector.BoundedLog
	Tenants   tenants.Repo
	Resolver  balance.Resolver
}

type Server struct {
	env    string // Environment (e.g., "development", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config
	deps   Deps
}

// New constructs the gateway stack: registry, websocket channel, inspector
// log and protocol engine, wired per configuration.
func New(cfg config.Config) (*Server, error) {
	registry := sessions.NewRegistry()
	insp := inspector.NewBoundedLog(cfg.GetInspectorCapacity())
	tenantRepo := tenantrepofakes.NewFakeTenantRepo()

	engine, err := gateway.New(gateway.Repos{
		Registry:  registry,
		Channel:   wschannel.New(),
		Tenants:   tenantRepo,
		Inspector: insp,
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("[server.New] failed to create protocol engine: %w", err)
	}

	resolver := balance.Fixed(0)
	if cfg.GetWalletAPIURL() != "" {
		resolver = balance.NewWalletClient(cfg).Resolve
	}

	return NewWithDeps(cfg, Deps{
		Engine:    engine,
		Registry:  registry,
		Inspector: insp,
		Tenants:   tenantRepo,
		Resolver:  resolver,
	})
}

// NewWithDeps wires the HTTP facade around pre-built collaborators
// (primarily for testing).
func NewWithDeps(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Engine == nil {
		return nil, fmt.Errorf("[server.NewWithDeps] Engine is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("[server.NewWithDeps] Registry is required")
	}
	if deps.Resolver == nil {
		deps.Resolver = balance.Fixed(0)
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		deps:   deps,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
