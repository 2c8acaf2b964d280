// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package notion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/zhaopengme/wxnote/pkg/config"
	"github.com/zhaopengme/wxnote/pkg/enrich"
	"github.com/zhaopengme/wxnote/pkg/logger"
)

// ErrPersistenceFailed marks any error returned while writing a record.
var ErrPersistenceFailed = errors.New("persistence failed")

// Notion caps a single text object at 2000 characters.
const maxTextLen = 2000

// RecordStore creates one record per enriched message and returns its id.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec enrich.Record) (string, error)
}

// pageCreator is the slice of notionapi.PageService the store needs.
type pageCreator interface {
	Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

// Store writes records as pages of a single Notion database.
type Store struct {
	pages      pageCreator
	databaseID notionapi.DatabaseID
	props      config.NotionProperties
}

// NewStore builds a store backed by the Notion API. Rate-limited requests
// fail immediately instead of being retried.
func NewStore(cfg config.NotionConfig) *Store {
	return newClientStore(cfg)
}

func newClientStore(cfg config.NotionConfig, opts ...notionapi.ClientOption) *Store {
	// notionapi counts the first 429 as a failed attempt, so 1 means no retry.
	opts = append([]notionapi.ClientOption{notionapi.WithRetry(1)}, opts...)
	client := notionapi.NewClient(notionapi.Token(cfg.Token), opts...)
	return newStore(client.Page, cfg)
}

func newStore(pages pageCreator, cfg config.NotionConfig) *Store {
	return &Store{
		pages:      pages,
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
		props:      cfg.Properties,
	}
}

// CreateRecord creates one database page for rec and returns the page id.
func (s *Store) CreateRecord(ctx context.Context, rec enrich.Record) (string, error) {
	page, err := s.pages.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.databaseID,
		},
		Properties: s.properties(rec),
	})
	if err != nil {
		logger.ErrorCF("notion", "Failed to create page", map[string]interface{}{
			"database_id": string(s.databaseID),
			"error":       err.Error(),
		})
		return "", fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	if page == nil {
		return "", fmt.Errorf("%w: empty page in response", ErrPersistenceFailed)
	}

	return string(page.ID), nil
}

func (s *Store) properties(rec enrich.Record) notionapi.Properties {
	props := notionapi.Properties{
		s.props.Title:   notionapi.TitleProperty{Title: richText(rec.Title)},
		s.props.Tags:    notionapi.MultiSelectProperty{MultiSelect: options(rec.Tags)},
		s.props.Summary: notionapi.RichTextProperty{RichText: richText(rec.Summary)},
		s.props.Raw:     notionapi.RichTextProperty{RichText: richText(rec.RawContent)},
		s.props.From:    notionapi.RichTextProperty{RichText: richText(rec.SenderID)},
	}
	// select options cannot be blank or contain commas
	if category := optionName(rec.Category); category != "" {
		props[s.props.Category] = notionapi.SelectProperty{Select: notionapi.Option{Name: category}}
	}
	return props
}

func richText(s string) []notionapi.RichText {
	out := []notionapi.RichText{}
	runes := []rune(s)
	for len(runes) > 0 {
		n := min(len(runes), maxTextLen)
		out = append(out, notionapi.RichText{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: string(runes[:n])},
		})
		runes = runes[n:]
	}
	return out
}

func options(tags []string) []notionapi.Option {
	out := make([]notionapi.Option, 0, len(tags))
	for _, t := range tags {
		if name := optionName(t); name != "" {
			out = append(out, notionapi.Option{Name: name})
		}
	}
	return out
}

func optionName(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, ",", " ")), " ")
}
