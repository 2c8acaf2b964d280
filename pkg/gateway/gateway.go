// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/zhaopengme/wxnote/pkg/config"
	"github.com/zhaopengme/wxnote/pkg/logger"
)

// Gateway owns the HTTP server that exposes the webhook and health endpoints.
type Gateway struct {
	config  config.GatewayConfig
	server  *http.Server
	running atomic.Bool
}

func New(cfg config.GatewayConfig, webhook http.Handler) *Gateway {
	g := &Gateway{config: cfg}

	mux := http.NewServeMux()
	mux.Handle(cfg.WebhookPath, webhook)
	mux.HandleFunc("/health", g.handleHealth)

	g.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return g
}

func (g *Gateway) Handler() http.Handler {
	return g.server.Handler
}

func (g *Gateway) IsRunning() bool {
	return g.running.Load()
}

// Start binds the listener and serves in the background.
func (g *Gateway) Start() error {
	ln, err := net.Listen("tcp", g.server.Addr)
	if err != nil {
		return err
	}
	return g.Serve(ln)
}

func (g *Gateway) Serve(ln net.Listener) error {
	g.running.Store(true)
	logger.InfoCF("gateway", "Gateway started", map[string]interface{}{
		"address": ln.Addr().String(),
		"path":    g.config.WebhookPath,
	})

	go func() {
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorCF("gateway", "HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
		g.running.Store(false)
	}()

	return nil
}

func (g *Gateway) Stop(ctx context.Context) error {
	logger.InfoC("gateway", "Stopping gateway...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := g.server.Shutdown(shutdownCtx)

	g.running.Store(false)
	logger.InfoC("gateway", "Gateway stopped")
	return err
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"running": g.IsRunning(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
