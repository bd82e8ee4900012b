// Package splinemcp parses server flags and wires the MCP server runtime.
package splinemcp

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/spline-mcp/spline-mcp/internal/assets"
	"github.com/spline-mcp/spline-mcp/internal/integrations/n8n"
	"github.com/spline-mcp/spline-mcp/internal/platform/config"
	"github.com/spline-mcp/spline-mcp/internal/platform/otel"
	"github.com/spline-mcp/spline-mcp/internal/realtime"
	"github.com/spline-mcp/spline-mcp/internal/services/mcp/service"
	"github.com/spline-mcp/spline-mcp/internal/spline"
)

// Config holds server command configuration.
type Config struct {
	APIBaseURL string        `env:"SPLINE_API_BASE_URL" envDefault:"https://api.spline.design/v1"`
	APIKey     string        `env:"SPLINE_API_KEY"`
	APITimeout time.Duration `env:"SPLINE_API_TIMEOUT"  envDefault:"30s"`

	CacheDir      string        `env:"SPLINE_CACHE_DIR"       envDefault:"cache/scenes"`
	CacheMaxBytes int64         `env:"SPLINE_CACHE_MAX_BYTES" envDefault:"104857600"`
	FetchTimeout  time.Duration `env:"SPLINE_FETCH_TIMEOUT"   envDefault:"30s"`

	RealtimeEndpoint  string        `env:"SPLINE_WS_ENDPOINT"        envDefault:"ws://localhost:8690/ws"`
	BackoffMin        time.Duration `env:"SPLINE_WS_BACKOFF_MIN"     envDefault:"1s"`
	BackoffMax        time.Duration `env:"SPLINE_WS_BACKOFF_MAX"     envDefault:"30s"`
	BackoffJitter     float64       `env:"SPLINE_WS_BACKOFF_JITTER"  envDefault:"0.5"`
	HeartbeatInterval time.Duration `env:"SPLINE_WS_HEARTBEAT"       envDefault:"15s"`
	HeartbeatTimeout  time.Duration `env:"SPLINE_WS_HEARTBEAT_TIMEOUT" envDefault:"45s"`

	N8NBaseURL string `env:"SPLINE_N8N_BASE_URL" envDefault:"http://localhost:3044"`
	N8NAPIKey  string `env:"SPLINE_N8N_API_KEY"`

	Transport string `env:"SPLINE_MCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr  string `env:"SPLINE_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Spline design API base URL")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "Spline design API key")
	fs.StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "scene cache directory")
	fs.Int64Var(&cfg.CacheMaxBytes, "cache-max-bytes", cfg.CacheMaxBytes, "scene cache size budget in bytes")
	fs.StringVar(&cfg.RealtimeEndpoint, "ws-endpoint", cfg.RealtimeEndpoint, "realtime websocket endpoint")
	fs.StringVar(&cfg.N8NBaseURL, "n8n-base-url", cfg.N8NBaseURL, "n8n server base URL")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server with all collaborators wired from cfg. It blocks
// until ctx is cancelled or the transport fails.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "spline-mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	store, err := assets.OpenStore(cfg.CacheDir, cfg.CacheMaxBytes)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("cache store close: %v", err)
		}
	}()

	rtClient := realtime.NewClient(realtime.Config{
		Endpoint:          cfg.RealtimeEndpoint,
		BackoffMin:        cfg.BackoffMin,
		BackoffMax:        cfg.BackoffMax,
		BackoffJitter:     cfg.BackoffJitter,
		HeartbeatInterval: cfg.HeartbeatInterval,
		HeartbeatTimeout:  cfg.HeartbeatTimeout,
	})
	rtClient.Start()
	defer rtClient.Stop()

	deps := service.Deps{
		Spline:   spline.NewClient(cfg.APIBaseURL, cfg.APIKey, cfg.APITimeout),
		Assets:   assets.NewManager(assets.NewHTTPFetcher(cfg.FetchTimeout), store),
		Realtime: rtClient,
		N8N:      n8n.NewClient(cfg.N8NBaseURL, cfg.N8NAPIKey),
	}

	return service.Run(ctx, deps, service.Config{
		Transport: service.TransportKind(cfg.Transport),
		HTTPAddr:  cfg.HTTPAddr,
	})
}
