// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/zhaopengme/wxnote/pkg/config"
	"github.com/zhaopengme/wxnote/pkg/enrich"
	"github.com/zhaopengme/wxnote/pkg/logger"
	"github.com/zhaopengme/wxnote/pkg/notion"
	"github.com/zhaopengme/wxnote/pkg/utils"
	"github.com/zhaopengme/wxnote/pkg/wechat"
)

// Handler serves the WeChat callback URL: GET for server verification, POST
// for message delivery.
type Handler struct {
	config   config.WeChatConfig
	enricher *enrich.Enricher
	store    notion.RecordStore
	now      func() time.Time
}

// NewHandler wires the verification and content paths for one webhook
// endpoint. enricher and store are shared across requests.
func NewHandler(cfg config.WeChatConfig, enricher *enrich.Enricher, store notion.RecordStore) *Handler {
	return &Handler{
		config:   cfg,
		enricher: enricher,
		store:    store,
		now:      time.Now,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleVerification(w, r)
	case http.MethodPost:
		h.handleMessage(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleVerification answers the one-time ownership challenge by echoing echostr.
func (h *Handler) handleVerification(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !wechat.VerifyQuery(h.config.Token, query) {
		logger.WarnCF("relay", "Signature verification failed", map[string]interface{}{
			"timestamp": query.Get("timestamp"),
			"nonce":     query.Get("nonce"),
		})
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(query.Get("echostr")))
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	if h.config.VerifyPost && !wechat.VerifyQuery(h.config.Token, r.URL.Query()) {
		logger.WarnCF("relay", "Message signature verification failed", map[string]interface{}{
			"request_id": requestID,
		})
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if h.config.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	}
	defer r.Body.Close()

	recipient, err := h.process(r.Context(), r.Body, requestID)
	content := wechat.SavedContent
	if err != nil {
		content = wechat.FailedContent
		fields := map[string]interface{}{
			"request_id": requestID,
			"recipient":  recipient,
			"error":      err.Error(),
		}
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			fields["kind"] = string(stageErr.Kind)
		}
		logger.ErrorCF("relay", "Failed to save message", fields)
	}

	h.writeReply(w, recipient, content)
}

// process runs parse, enrich and persist. The returned recipient is whatever
// sender could be decoded, possibly empty.
func (h *Handler) process(ctx context.Context, body io.Reader, requestID string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", &StageError{Kind: KindMalformedInbound, Err: err}
	}

	msg, err := wechat.ParseInbound(data)
	if err != nil {
		return msg.SenderID, &StageError{Kind: KindMalformedInbound, Err: err}
	}

	logger.DebugCF("relay", "Received message", map[string]interface{}{
		"request_id": requestID,
		"sender_id":  msg.SenderID,
		"msg_id":     msg.MsgID,
		"msg_type":   msg.RawType,
		"preview":    utils.Truncate(msg.RawContent, 50),
	})

	rec, err := h.enricher.Enrich(ctx, msg)
	if err != nil {
		return msg.SenderID, &StageError{Kind: KindEnrichment, Err: err}
	}

	recordID, err := h.store.CreateRecord(ctx, rec)
	if err != nil {
		return msg.SenderID, &StageError{Kind: KindPersistence, Err: err}
	}

	logger.InfoCF("relay", "Message saved", map[string]interface{}{
		"request_id": requestID,
		"sender_id":  msg.SenderID,
		"record_id":  recordID,
		"title":      rec.Title,
		"category":   rec.Category,
		"tags":       len(rec.Tags),
	})

	return msg.SenderID, nil
}

func (h *Handler) writeReply(w http.ResponseWriter, recipient, content string) {
	data, err := wechat.NewTextReply(recipient, h.config.AccountID, content, h.now()).Marshal()
	if err != nil {
		logger.ErrorCF("relay", "Failed to build reply", map[string]interface{}{
			"error": err.Error(),
		})
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
