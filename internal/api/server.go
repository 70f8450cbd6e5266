// Package api provides the HTTP surface of the bookstore demo: token
// issuance, the policy-guarded catalog routes and the operational
// endpoints, all served through a single gin engine.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookvault/go-api/internal/auth"
	"github.com/bookvault/go-api/internal/engine"
	"github.com/bookvault/go-api/internal/metrics"
	"github.com/bookvault/go-api/internal/policy"
	"github.com/bookvault/go-api/internal/store"
)

// Config configures the HTTP server.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	EnableCORS   bool
	CORSOrigins  []string
	Version      string
}

// DefaultConfig returns the default HTTP server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		EnableCORS:   true,
		CORSOrigins:  []string{"*"},
		Version:      "1.0.0",
	}
}

// Deps carries the collaborators the server routes requests into.
type Deps struct {
	Evaluator *engine.Evaluator
	Registry  *policy.Registry
	Issuer    *auth.Issuer
	Validator *auth.Validator
	Users     *auth.Directory
	Store     *store.Store
	Metrics   metrics.Metrics
	Logger    *zap.Logger
}

// Server is the bookstore HTTP server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server

	evaluator *engine.Evaluator
	registry  *policy.Registry
	issuer    *auth.Issuer
	validator *auth.Validator
	users     *auth.Directory
	store     *store.Store
	metrics   metrics.Metrics
	logger    *zap.Logger

	startTime time.Time
}

// New creates the HTTP server and registers all routes.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("policy registry is required")
	}
	if deps.Issuer == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	if deps.Validator == nil {
		return nil, fmt.Errorf("token validator is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNoOpMetrics()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:    cfg,
		router:    gin.New(),
		evaluator: deps.Evaluator,
		registry:  deps.Registry,
		issuer:    deps.Issuer,
		validator: deps.Validator,
		users:     deps.Users,
		store:     deps.Store,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		startTime: time.Now(),
	}

	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}

// registerRoutes wires the middleware chain and all endpoint groups.
func (s *Server) registerRoutes() {
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.recoveryMiddleware())
	if s.config.EnableCORS {
		s.router.Use(s.corsMiddleware())
	}

	// Operational endpoints, no auth required.
	s.router.GET("/healthz", s.healthz)
	s.router.GET("/readyz", s.readyz)
	s.router.GET("/metrics", gin.WrapH(s.metrics.HTTPHandler()))

	// Token issuance is the one unauthenticated API endpoint.
	s.router.POST("/auth/token", s.issueToken)

	authed := s.router.Group("/")
	authed.Use(s.authenticate())
	authed.GET("/auth/me", s.whoAmI)

	// v1 serves plain lists, v2 wraps book listings in a paginated
	// envelope. Both share handlers and policy guards otherwise.
	v1 := s.router.Group("/api/v1")
	v1.Use(s.authenticate())
	s.registerCatalogRoutes(v1, s.listBooks)
	v1.GET("/demo/errors/:kind", s.demoError)

	v2 := s.router.Group("/api/v2")
	v2.Use(s.authenticate())
	s.registerCatalogRoutes(v2, s.listBooksPaged)
}

// registerCatalogRoutes registers the policy-guarded bookstore routes on
// a version group. Each route names the policy that guards it; together
// they exercise every builtin policy.
func (s *Server) registerCatalogRoutes(rg *gin.RouterGroup, listBooks gin.HandlerFunc) {
	books := rg.Group("/books")
	{
		books.GET("", s.requirePolicy("CatalogReader"), listBooks)
		books.GET("/:id", s.requirePolicy("CatalogReader"), s.getBook)
		books.POST("", s.requirePolicy("CatalogEditor"), s.createBook)
		books.PUT("/:id", s.requirePolicy("CatalogEditor"), s.updateBook)
		books.DELETE("/:id", s.requirePolicy("AdminOnly"), s.deleteBook)
	}

	authors := rg.Group("/authors")
	{
		authors.GET("", s.requirePolicy("CatalogReader"), s.listAuthors)
		authors.GET("/:id", s.requirePolicy("CatalogReader"), s.getAuthor)
		authors.POST("", s.requirePolicy("ManagerOrAdmin"), s.createAuthor)
	}

	rg.GET("/categories", s.requirePolicy("CatalogReader"), s.listCategories)
	rg.GET("/categories/:id", s.requirePolicy("CatalogReader"), s.getCategory)

	reports := rg.Group("/reports")
	{
		reports.GET("/sales", s.requirePolicy("SeniorAnalytics"), s.salesReport)
		reports.GET("/regional", s.requirePolicy("NorthAmericaSales"), s.regionalReport)
	}

	admin := rg.Group("/admin")
	{
		admin.GET("/system", s.requirePolicy("SystemAdministrator"), s.systemStatus)
		admin.GET("/config", s.requirePolicy("ITDepartment"), s.configView)
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.config.Addr),
		zap.Bool("cors_enabled", s.config.EnableCORS),
		zap.String("version", s.config.Version),
	)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP implements http.Handler so tests can drive the router
// without opening a socket.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// healthz reports liveness.
func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

// readyz reports readiness: the server can serve decisions only when at
// least one policy is registered.
func (s *Server) readyz(c *gin.Context) {
	books, authors, categories := s.store.Counts()
	resp := ReadyResponse{
		Status:   "ready",
		Policies: s.registry.Len(),
		Catalog: CatalogCounts{
			Books:      books,
			Authors:    authors,
			Categories: categories,
		},
	}
	if resp.Policies == 0 {
		resp.Status = "not ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
