// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/zhaopengme/wxnote/pkg/logger"
)

type AnthropicCompleter struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicCompleter(apiKey, apiBase, model string, maxTokens int64) *AnthropicCompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if apiBase != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(strings.TrimRight(apiBase, "/"), "/v1")))
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicCompleter{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		logger.ErrorCF("enrich.anthropic", "Messages API call failed", map[string]interface{}{
			"model": c.model,
			"error": err.Error(),
		})
		return "", fmt.Errorf("claude API call: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("claude API returned no text content")
	}

	return sb.String(), nil
}
