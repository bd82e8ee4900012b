// Package service hosts the MCP server runtime: tool registration modules,
// transport selection (stdio or streamable HTTP) and lifecycle management.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/assets"
	"github.com/spline-mcp/spline-mcp/internal/integrations/n8n"
	"github.com/spline-mcp/spline-mcp/internal/realtime"
	"github.com/spline-mcp/spline-mcp/internal/spline"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Spline MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Deps carries the collaborators the tool handlers are bound to.
type Deps struct {
	Spline   *spline.Client
	Assets   *assets.Manager
	Realtime *realtime.Client
	N8N      *n8n.Client
}

// Config configures the MCP server runtime.
type Config struct {
	Transport TransportKind
	HTTPAddr  string // HTTP listen address, defaults to localhost:8081 for HTTP transport.
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	deps      Deps
}

// New creates a configured MCP server with every tool module registered
// against the provided collaborators.
func New(deps Deps) (*Server, error) {
	if deps.Spline == nil || deps.Assets == nil || deps.Realtime == nil || deps.N8N == nil {
		return nil, fmt.Errorf("all dependencies must be configured")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{})
	server := &Server{mcpServer: mcpServer, deps: deps}

	for _, module := range newMCPRegistrationModules(deps) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	return server, nil
}

// channelSink logs inbound realtime messages subscribed via the
// subscribe_to_channel tool.
func channelSink(channel string, payload json.RawMessage) {
	log.Printf("realtime: message channel=%s payload=%s", channel, payload)
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// serveHTTP exposes the MCP server over streamable HTTP and blocks until the
// context ends, then shuts the listener down gracefully.
func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	httpServer := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("mcp: http transport listening addr=%q", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP http transport: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP http transport: %w", err)
	}
}

// Run is the service entrypoint for MCP and blocks until context
// cancellation. Startup chooses stdio for local tools and HTTP for remote
// integrations.
func Run(ctx context.Context, deps Deps, cfg Config) error {
	server, err := New(deps)
	if err != nil {
		return err
	}

	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	switch cfg.Transport {
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		addr := cfg.HTTPAddr
		if addr == "" {
			addr = "localhost:8081"
		}
		return server.serveHTTP(ctx, addr)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}
