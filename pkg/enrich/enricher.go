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

	"github.com/zhaopengme/wxnote/pkg/wechat"
)

// ErrEnrichmentFailed covers every way a completion call can go wrong.
var ErrEnrichmentFailed = errors.New("enrichment failed")

const promptTemplate = "用竖线\"|\"分隔：1.10字内标题 2.3个标签逗号分隔 3.分类 4.50字内摘要\n内容：%s"

// Completer sends one prompt to a language model and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Fields are the four values extracted from the model output.
type Fields struct {
	Title    string
	Tags     []string
	Category string
	Summary  string
}

// Record is one enriched message, ready to be persisted.
type Record struct {
	Fields
	RawContent string
	SenderID   string
}

// Enricher turns raw message content into structured fields through a
// Completer.
type Enricher struct {
	completer Completer
}

func NewEnricher(c Completer) *Enricher {
	return &Enricher{completer: c}
}

func BuildPrompt(raw string) string {
	return fmt.Sprintf(promptTemplate, raw)
}

func (e *Enricher) Enrich(ctx context.Context, msg wechat.InboundMessage) (Record, error) {
	text, err := e.completer.Complete(ctx, BuildPrompt(msg.RawContent))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrEnrichmentFailed, err)
	}

	return Record{
		Fields:     ParseResult(text),
		RawContent: msg.RawContent,
		SenderID:   msg.SenderID,
	}, nil
}

// ParseResult splits "title|tags|category|summary". Missing segments become
// empty strings; anything past the third pipe stays in the summary.
func ParseResult(text string) Fields {
	var segs [4]string
	for i, part := range strings.SplitN(text, "|", 4) {
		segs[i] = strings.TrimSpace(part)
	}

	return Fields{
		Title:    segs[0],
		Tags:     splitTags(segs[1]),
		Category: segs[2],
		Summary:  segs[3],
	}
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
