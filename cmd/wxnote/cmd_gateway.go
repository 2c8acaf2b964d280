// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zhaopengme/wxnote/pkg/config"
	"github.com/zhaopengme/wxnote/pkg/enrich"
	"github.com/zhaopengme/wxnote/pkg/gateway"
	"github.com/zhaopengme/wxnote/pkg/logger"
	"github.com/zhaopengme/wxnote/pkg/notion"
	"github.com/zhaopengme/wxnote/pkg/relay"
)

func gatewayCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config:\n%v\n", err)
		os.Exit(1)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetFormat(cfg.Log.Format)

	handler := relay.NewHandler(cfg.WeChat, enrich.NewEnricher(newCompleter(cfg.Enrich)), notion.NewStore(cfg.Notion))
	gw := gateway.New(cfg.Gateway, handler)

	if err := gw.Start(); err != nil {
		fmt.Printf("Error starting gateway: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s Gateway listening on %s%s\n", logo, cfg.Gateway.Address(), cfg.Gateway.WebhookPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	if err := gw.Stop(context.Background()); err != nil {
		logger.ErrorCF("gateway", "Shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
	}
	fmt.Println("✓ Gateway stopped")
}

func newCompleter(cfg config.EnrichConfig) enrich.Completer {
	model := cfg.ResolvedModel()
	logger.InfoCF("enrich", "Using completion provider", map[string]interface{}{
		"provider": cfg.Provider,
		"model":    model,
	})

	if cfg.Provider == config.ProviderAnthropic {
		return enrich.NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.ResolvedAPIBase(), model, cfg.MaxTokens)
	}
	return enrich.NewOpenAICompleter(cfg.APIKey, cfg.ResolvedAPIBase(), model)
}
