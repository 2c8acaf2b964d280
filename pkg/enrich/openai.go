// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/zhaopengme/wxnote/pkg/logger"
)

// OpenAICompleter talks to any OpenAI-compatible chat completions endpoint
// (DeepSeek by default).
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

func NewOpenAICompleter(apiKey, apiBase, model string) *OpenAICompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if apiBase != "" {
		opts = append(opts, option.WithBaseURL(apiBase))
	}
	client := openai.NewClient(opts...)
	return &OpenAICompleter{
		client: &client,
		model:  model,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		fields := map[string]interface{}{
			"model": c.model,
			"error": err.Error(),
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			fields["status_code"] = apiErr.StatusCode
			fields["api_code"] = apiErr.Code
			fields["api_message"] = apiErr.Message
		}
		logger.ErrorCF("enrich.openai", "Completion API call failed", fields)
		return "", fmt.Errorf("completion API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion API returned no choices")
	}

	logger.DebugCF("enrich.openai", "Completion received", map[string]interface{}{
		"model":         resp.Model,
		"finish_reason": resp.Choices[0].FinishReason,
		"total_tokens":  resp.Usage.TotalTokens,
	})

	return resp.Choices[0].Message.Content, nil
}
