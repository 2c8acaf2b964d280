// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package main

import (
	"fmt"
	"os"
)

func statusCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	configPath := getConfigPath()

	fmt.Printf("%s wxnote Status\n", logo)
	fmt.Printf("Version: %s\n", versionInfo())
	fmt.Println()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config:", configPath, "✓")
	} else {
		fmt.Println("Config:", configPath, "✗ (using defaults + environment)")
	}

	status := func(enabled bool) string {
		if enabled {
			return "✓"
		}
		return "not set"
	}

	fmt.Printf("Webhook: %s%s\n", cfg.Gateway.Address(), cfg.Gateway.WebhookPath)
	fmt.Println("WeChat token:", status(cfg.WeChat.Token != ""))
	fmt.Println("WeChat account:", status(cfg.WeChat.AccountID != ""))
	fmt.Printf("Provider: %s (%s)\n", cfg.Enrich.Provider, cfg.Enrich.ResolvedModel())
	fmt.Println("DeepSeek key:", status(cfg.Enrich.APIKey != ""))
	fmt.Println("Anthropic key:", status(cfg.Enrich.AnthropicAPIKey != ""))
	fmt.Println("Notion token:", status(cfg.Notion.Token != ""))
	fmt.Println("Notion database:", status(cfg.Notion.DatabaseID != ""))

	if err := cfg.Validate(); err != nil {
		fmt.Printf("\nNot ready:\n%v\n", err)
		return
	}
	fmt.Println("\nReady ✓")
}
