// Package main provides the entry point for the bookstore API server
package main

import (
	"context"
	"crypto/rsa"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bookvault/go-api/internal/api"
	"github.com/bookvault/go-api/internal/audit"
	"github.com/bookvault/go-api/internal/auth"
	"github.com/bookvault/go-api/internal/engine"
	"github.com/bookvault/go-api/internal/metrics"
	"github.com/bookvault/go-api/internal/policy"
	"github.com/bookvault/go-api/internal/store"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse command line flags
	var (
		addr            = flag.String("addr", ":8080", "HTTP listen address")
		logLevel        = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		logFormat       = flag.String("log-format", "json", "Log format (json, console)")
		showVersion     = flag.Bool("version", false, "Show version information")
		policyFile      = flag.String("policy-file", "", "YAML policy file merged over the builtin policies")
		keyFile         = flag.String("key-file", "", "RSA private key PEM for token signing (ephemeral key when empty)")
		tokenIssuer     = flag.String("issuer", "bookvault-api", "JWT issuer claim")
		tokenAudience   = flag.String("audience", "bookvault-clients", "JWT audience claim")
		tokenTTL        = flag.Duration("token-ttl", time.Hour, "Access token lifetime")
		enableCORS      = flag.Bool("cors", true, "Enable CORS")
		corsOrigins     = flag.String("cors-origins", "*", "Comma-separated allowed CORS origins")
		auditMode       = flag.String("audit", "stdout", "Audit trail destination (stdout, file, off)")
		auditFile       = flag.String("audit-file", "bookvault-audit.log", "Audit file path when -audit=file")
		gracefulTimeout = flag.Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("bookvault-server %s\n", Version)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		fmt.Printf("  Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	// Initialize logger
	logger, err := initLogger(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting bookstore API server",
		zap.String("version", Version),
		zap.String("addr", *addr),
	)

	// Build the policy registry: builtins first, then the optional file
	// overlay. Definitions sharing a name replace the builtin.
	definitions := policy.DefaultDefinitions()
	if *policyFile != "" {
		loaded, err := policy.NewLoader(logger).LoadFile(*policyFile)
		if err != nil {
			logger.Fatal("Failed to load policy file", zap.Error(err))
		}
		definitions = policy.Merge(definitions, loaded)
	}

	registry, err := policy.FromDefinitions(definitions)
	if err != nil {
		logger.Fatal("Failed to build policy registry", zap.Error(err))
	}
	logger.Info("Policy registry initialized", zap.Int("policies", registry.Len()))

	// Signing key: loaded from PEM, or ephemeral for demo runs.
	key, err := signingKey(*keyFile, logger)
	if err != nil {
		logger.Fatal("Failed to initialize signing key", zap.Error(err))
	}

	issuer, err := auth.NewIssuer(&auth.IssuerConfig{
		PrivateKey: key,
		Issuer:     *tokenIssuer,
		Audience:   *tokenAudience,
		AccessTTL:  *tokenTTL,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("Failed to create token issuer", zap.Error(err))
	}

	validator, err := auth.NewValidator(&auth.ValidatorConfig{
		PublicKey: &key.PublicKey,
		Issuer:    *tokenIssuer,
		Audience:  *tokenAudience,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("Failed to create token validator", zap.Error(err))
	}

	// Metrics and audit trail
	promMetrics := metrics.NewPrometheusMetrics("bookvault")

	auditCfg := audit.DefaultConfig()
	switch *auditMode {
	case "off":
		auditCfg.Enabled = false
	case "file":
		auditCfg.Type = "file"
		auditCfg.FilePath = *auditFile
	default:
		auditCfg.Type = *auditMode
	}
	auditLogger, err := audit.NewLogger(auditCfg)
	if err != nil {
		logger.Fatal("Failed to create audit logger", zap.Error(err))
	}

	// Decision engine
	evaluator, err := engine.New(engine.Config{
		Logger:  logger,
		Metrics: promMetrics,
		Audit:   auditLogger,
	}, registry)
	if err != nil {
		logger.Fatal("Failed to create evaluator", zap.Error(err))
	}

	// HTTP server
	apiCfg := api.DefaultConfig()
	apiCfg.Addr = *addr
	apiCfg.EnableCORS = *enableCORS
	apiCfg.CORSOrigins = splitOrigins(*corsOrigins)
	apiCfg.Version = Version

	server, err := api.New(apiCfg, api.Deps{
		Evaluator: evaluator,
		Registry:  registry,
		Issuer:    issuer,
		Validator: validator,
		Users:     auth.NewDemoDirectory(logger),
		Store:     store.New(),
		Metrics:   promMetrics,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("Failed to create HTTP server", zap.Error(err))
	}

	// Channels for error handling
	errChan := make(chan error, 1)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		errChan <- server.Start()
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errChan:
		if err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), *gracefulTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("HTTP server shutdown failed", zap.Error(err))
		}
	}

	// Flush the audit trail before exiting.
	if err := auditLogger.Close(); err != nil {
		logger.Error("Audit logger close failed", zap.Error(err))
	}

	logger.Info("Server stopped successfully")
}

// initLogger initializes the zap logger
func initLogger(level, format string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	// Build config
	var config zap.Config
	if format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	return config.Build()
}

// signingKey loads the RSA key from disk or generates an ephemeral one.
// Ephemeral keys invalidate all tokens on restart, which is fine for the
// demo but logged loudly.
func signingKey(path string, logger *zap.Logger) (*rsa.PrivateKey, error) {
	if path != "" {
		key, err := auth.LoadPrivateKey(path)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded signing key", zap.String("file", path))
		return key, nil
	}

	key, err := auth.GenerateKey()
	if err != nil {
		return nil, err
	}
	logger.Warn("Generated ephemeral signing key, tokens will not survive a restart")
	return key, nil
}

// splitOrigins parses the comma-separated origins flag.
func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
