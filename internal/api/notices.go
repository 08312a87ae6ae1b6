package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Fewsrt/webapp-credit-alert-backend/internal/notice"
)

// Localized response texts, kept verbatim from the channel's language.
const (
	sendNoticeSuccessText = "ส่งข้อความและบันทึกข้อมูลสำเร็จ"
	sendNoticeErrorText   = "เกิดข้อผิดพลาด"
)

type sendNoticeRequest struct {
	UserID          string            `json:"userId"`
	StatementMonth  string            `json:"statementMonth"`
	TransactionData []notice.LineItem `json:"transactionData"`
}

// handleSendNotice is the administrative trigger: compose a billing notice
// and push it to one subscriber. Any pipeline failure collapses to a single
// localized 500; diagnostics go to the log sink, and the raw error is
// echoed only outside production.
func (s *Server) handleSendNotice(w http.ResponseWriter, r *http.Request) {
	var req sendNoticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Error("failed to decode send-notice request", "error", err)
		s.writeSendNoticeError(w, err)
		return
	}

	record, err := s.dispatcher.Send(r.Context(), notice.SendRequest{
		UserID:         req.UserID,
		StatementMonth: req.StatementMonth,
		Items:          req.TransactionData,
	})
	if err != nil {
		s.logger.Error("send-notice failed",
			"error", err,
			"userId", req.UserID,
			"statementMonth", req.StatementMonth,
		)
		s.writeSendNoticeError(w, err)
		return
	}

	s.logger.Info("send-notice succeeded",
		"userId", record.UserID,
		"noticeId", record.ID,
		"totalAmount", record.TotalAmount.StringFixed(2),
		"paymentRef", record.PaymentRef,
	)
	writeText(w, http.StatusOK, sendNoticeSuccessText)
}

func (s *Server) writeSendNoticeError(w http.ResponseWriter, err error) {
	message := sendNoticeErrorText
	if !s.production {
		message = fmt.Sprintf("%s: %v", sendNoticeErrorText, err)
	}
	writeText(w, http.StatusInternalServerError, message)
}
