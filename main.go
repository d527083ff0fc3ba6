package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/config"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/discovery"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/llm"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/logging"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/mcp"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/mcp/tools"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/recommend"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/router"
	"github.com/tushar-badhwar/gtm-agent-user-health-analyzer/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const startupConnectTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("default_source", cfg.DefaultSource),
		zap.Bool("enhancement", cfg.Enhancement.Available()))

	engine := discovery.NewEngine(cfg.Discovery, logger)
	rt := router.New(cfg, engine, logger)

	var enhancer *recommend.Enhancer
	if cfg.Enhancement.Available() {
		client, err := llm.NewFromConfig(cfg.Enhancement, logger)
		if err != nil {
			logger.Fatal("failed to create enhancement client", zap.Error(err))
		}
		enhancer = recommend.NewEnhancer(client, cfg.Enhancement.Timeout(), logger)
		logger.Info("recommendation enhancement enabled",
			zap.String("provider", cfg.Enhancement.Provider),
			zap.String("model", client.Model()),
			zap.String("api_key", logging.MaskKey(cfg.Enhancement.APIKey)))
	}

	analyzer := services.NewAnalyzer(rt, enhancer, logger)

	// Connect the default source so the analysis tools work out of the box.
	// A failure here is survivable: set_data_source can connect later.
	ctx, cancel := context.WithTimeout(context.Background(), startupConnectTimeout)
	if _, err := rt.SetSource(ctx, cfg.DefaultSource, ""); err != nil {
		logger.Warn("default source unavailable at startup",
			zap.String("source", cfg.DefaultSource),
			zap.String("error", logging.SanitizeError(err)))
	}
	cancel()

	mcpServer := mcp.NewServer("gtm-agent-user-health-analyzer", cfg.Version, logger)
	tools.RegisterSourceTools(mcpServer.MCP(), &tools.SourceToolDeps{Router: rt, Logger: logger})
	tools.RegisterCustomerTools(mcpServer.MCP(), &tools.CustomerToolDeps{Analyzer: analyzer, Logger: logger})
	tools.RegisterAnalysisTools(mcpServer.MCP(), &tools.AnalysisToolDeps{Analyzer: analyzer, Logger: logger})
	tools.RegisterHealthTool(mcpServer.MCP(), cfg.Version)

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpServer.NewStreamableHTTPServer())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": cfg.Version}) //nolint:errcheck
	})

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting server",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
