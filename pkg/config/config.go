// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	ProviderDeepSeek  = "deepseek"
	ProviderAnthropic = "anthropic"

	DefaultDeepSeekAPIBase = "https://api.deepseek.com/v1"
	DefaultDeepSeekModel   = "deepseek-chat"
	DefaultAnthropicModel  = "claude-sonnet-4-5"
)

type Config struct {
	WeChat  WeChatConfig  `koanf:"wechat"`
	Enrich  EnrichConfig  `koanf:"enrich"`
	Notion  NotionConfig  `koanf:"notion"`
	Gateway GatewayConfig `koanf:"gateway"`
	Log     LogConfig     `koanf:"log"`
}

type WeChatConfig struct {
	Token        string `koanf:"token" env:"WX_TOKEN"`
	AccountID    string `koanf:"account_id" env:"WX_GHID"`
	VerifyPost   bool   `koanf:"verify_post" env:"WXNOTE_VERIFY_POST"`
	MaxBodyBytes int64  `koanf:"max_body_bytes" env:"WXNOTE_MAX_BODY_BYTES"`
}

type EnrichConfig struct {
	Provider        string `koanf:"provider" env:"WXNOTE_ENRICH_PROVIDER"`
	APIKey          string `koanf:"api_key" env:"DEEPSEEK_KEY"`
	APIBase         string `koanf:"api_base" env:"WXNOTE_ENRICH_API_BASE"`
	AnthropicAPIKey string `koanf:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	Model           string `koanf:"model" env:"WXNOTE_ENRICH_MODEL"`
	MaxTokens       int64  `koanf:"max_tokens" env:"WXNOTE_ENRICH_MAX_TOKENS"`
}

// NotionProperties names the database columns each record field is written to.
type NotionProperties struct {
	Title    string `koanf:"title"`
	Tags     string `koanf:"tags"`
	Category string `koanf:"category"`
	Summary  string `koanf:"summary"`
	Raw      string `koanf:"raw"`
	From     string `koanf:"from"`
}

type NotionConfig struct {
	Token      string           `koanf:"token" env:"NOTION_TOKEN"`
	DatabaseID string           `koanf:"database_id" env:"NOTION_DATABASE_ID"`
	Properties NotionProperties `koanf:"properties"`
}

type GatewayConfig struct {
	Host         string        `koanf:"host" env:"WXNOTE_HOST"`
	Port         int           `koanf:"port" env:"WXNOTE_PORT"`
	WebhookPath  string        `koanf:"webhook_path" env:"WXNOTE_WEBHOOK_PATH"`
	ReadTimeout  time.Duration `koanf:"read_timeout" env:"WXNOTE_READ_TIMEOUT"`
	WriteTimeout time.Duration `koanf:"write_timeout" env:"WXNOTE_WRITE_TIMEOUT"`
}

type LogConfig struct {
	Level  string `koanf:"level" env:"WXNOTE_LOG_LEVEL"`
	Format string `koanf:"format" env:"WXNOTE_LOG_FORMAT"`
}

func DefaultConfig() *Config {
	return &Config{
		WeChat: WeChatConfig{
			MaxBodyBytes: 1 << 20,
		},
		Enrich: EnrichConfig{
			Provider:  ProviderDeepSeek,
			MaxTokens: 1024,
		},
		Notion: NotionConfig{
			Properties: NotionProperties{
				Title:    "Title",
				Tags:     "Tags",
				Category: "Category",
				Summary:  "Summary",
				Raw:      "Raw",
				From:     "From",
			},
		},
		Gateway: GatewayConfig{
			Host:         "0.0.0.0",
			Port:         18790,
			WebhookPath:  "/api/spark-wechat",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig layers defaults, the YAML file at path (skipped when absent) and
// environment variables, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			k := koanf.New(".")
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
			if err := k.Unmarshal("", cfg); err != nil {
				return nil, fmt.Errorf("decoding config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

// Validate reports every missing credential at once.
func (c *Config) Validate() error {
	var errs []error
	if c.WeChat.Token == "" {
		errs = append(errs, errors.New("wechat.token (WX_TOKEN) is required"))
	}
	if c.WeChat.AccountID == "" {
		errs = append(errs, errors.New("wechat.account_id (WX_GHID) is required"))
	}

	switch c.Enrich.Provider {
	case ProviderDeepSeek, "":
		if c.Enrich.APIKey == "" {
			errs = append(errs, errors.New("enrich.api_key (DEEPSEEK_KEY) is required"))
		}
	case ProviderAnthropic:
		if c.Enrich.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("enrich.anthropic_api_key (ANTHROPIC_API_KEY) is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown enrich.provider %q", c.Enrich.Provider))
	}

	if c.Notion.Token == "" {
		errs = append(errs, errors.New("notion.token (NOTION_TOKEN) is required"))
	}
	if c.Notion.DatabaseID == "" {
		errs = append(errs, errors.New("notion.database_id (NOTION_DATABASE_ID) is required"))
	}
	if !strings.HasPrefix(c.Gateway.WebhookPath, "/") {
		errs = append(errs, fmt.Errorf("gateway.webhook_path %q must start with /", c.Gateway.WebhookPath))
	}

	return errors.Join(errs...)
}

// ResolvedModel returns the configured model or the provider's default.
func (e EnrichConfig) ResolvedModel() string {
	if e.Model != "" {
		return e.Model
	}
	if e.Provider == ProviderAnthropic {
		return DefaultAnthropicModel
	}
	return DefaultDeepSeekModel
}

// ResolvedAPIBase returns the configured base URL. Anthropic falls back to the
// SDK default when unset.
func (e EnrichConfig) ResolvedAPIBase() string {
	if e.APIBase != "" || e.Provider == ProviderAnthropic {
		return e.APIBase
	}
	return DefaultDeepSeekAPIBase
}

func (g GatewayConfig) Address() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}
