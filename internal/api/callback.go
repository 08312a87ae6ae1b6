package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Fewsrt/webapp-credit-alert-backend/internal/line"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/webhook"
)

// handleCallback ingests LINE platform events. The signature is verified
// over the exact raw body; on mismatch nothing is processed or logged beyond
// the failure itself. Once verified, every event is handled independently
// and best-effort, so the endpoint answers 200 regardless of per-event
// outcomes.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeText(w, http.StatusBadRequest, "failed to read body")
		return
	}

	signature := r.Header.Get(webhook.SignatureHeader)
	if err := s.verifier.Verify(body, signature); err != nil {
		s.logger.Warn("webhook signature validation failed",
			"signature", signature,
			"remoteAddr", r.RemoteAddr,
		)
		writeText(w, http.StatusUnauthorized, "Unauthorized request: Signature validation failed")
		return
	}

	var req line.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.logger.Error("failed to decode webhook body", "error", err)
		writeText(w, http.StatusOK, "OK")
		return
	}

	for _, event := range req.Events {
		if event.Type != "follow" && event.Type != "message" {
			continue
		}
		if event.Source.UserID == "" {
			continue
		}
		// Reconcile failures are already logged with context; one bad event
		// must not fail the batch.
		_ = s.directory.Reconcile(r.Context(), event.Source.UserID)
	}

	writeText(w, http.StatusOK, "OK")
}
