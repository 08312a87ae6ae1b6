package notice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Fewsrt/webapp-credit-alert-backend/internal/database"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/line"
)

// Pusher delivers messages to recipients. Implemented by *line.Client.
type Pusher interface {
	Multicast(ctx context.Context, to []string, messages []line.FlexMessage, retryKey string) error
}

// Uploader stores a generated artifact and returns its public URL.
type Uploader interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// Store persists delivered notices. Implemented by *database.DB.
type Store interface {
	CreateNotice(ctx context.Context, n *database.Notice) error
}

// SendRequest describes one notice to compose and deliver.
type SendRequest struct {
	UserID         string
	StatementMonth string
	Items          []LineItem
}

// Dispatcher runs the notice pipeline: compose, upload, deliver, persist.
type Dispatcher struct {
	pusher      Pusher
	artifacts   Uploader
	store       Store
	logger      *slog.Logger
	promptPayID string
}

// NewDispatcher creates a dispatcher using the fixed payment-collection
// identifier for every notice.
func NewDispatcher(pusher Pusher, artifacts Uploader, store Store, promptPayID string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		pusher:      pusher,
		artifacts:   artifacts,
		store:       store,
		logger:      logger,
		promptPayID: promptPayID,
	}
}

// Send composes the notice and pushes it to the recipient, then persists a
// record of the transaction. Stages run in order: QR render, artifact
// upload, QR push, statement push, persist. The first failure aborts the
// remaining stages; an already-sent message is not compensated for, since
// messages cannot be unsent. Each push carries a fresh retry key so a
// platform-level retry cannot double-deliver.
func (d *Dispatcher) Send(ctx context.Context, req SendRequest) (*database.Notice, error) {
	total := ComputeTotal(req.Items)
	paymentRef := NewPaymentRef()

	d.logger.Info("generating payment QR code",
		"userId", req.UserID,
		"totalAmount", total.StringFixed(2),
		"promptPayId", d.promptPayID,
		"statementMonth", req.StatementMonth,
	)

	png, err := BuildPaymentQR(d.promptPayID, total)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("qr_%s_%d.png", req.UserID, time.Now().UnixMilli())
	qrCodeURL, err := d.artifacts.Put(ctx, name, png)
	if err != nil {
		return nil, fmt.Errorf("failed to upload QR code: %w", err)
	}

	qrMessage, statementMessage := BuildNotice(req.StatementMonth, total, req.Items, paymentRef, qrCodeURL)

	// Two sequential pushes, image first. A failure after the first leaves
	// the recipient with only the QR image; the caller sees one error.
	if err := d.pusher.Multicast(ctx, []string{req.UserID}, []line.FlexMessage{qrMessage}, uuid.NewString()); err != nil {
		return nil, fmt.Errorf("failed to push QR message: %w", err)
	}
	if err := d.pusher.Multicast(ctx, []string{req.UserID}, []line.FlexMessage{statementMessage}, uuid.NewString()); err != nil {
		return nil, fmt.Errorf("failed to push statement message: %w", err)
	}

	d.logger.Info("notice messages delivered",
		"userId", req.UserID,
		"totalAmount", total.StringFixed(2),
		"messageCount", 2,
		"paymentRef", paymentRef,
	)

	record := &database.Notice{
		UserID:         req.UserID,
		StatementMonth: req.StatementMonth,
		LineItems:      toRecordItems(req.Items),
		TotalAmount:    total,
		QRCodeURL:      qrCodeURL,
		PromptPayID:    d.promptPayID,
		PaymentRef:     paymentRef,
	}
	if err := d.store.CreateNotice(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist notice: %w", err)
	}

	d.logger.Info("notice record saved",
		"userId", req.UserID,
		"statementMonth", req.StatementMonth,
		"totalAmount", total.StringFixed(2),
		"transactionCount", len(req.Items),
	)

	return record, nil
}

func toRecordItems(items []LineItem) []database.NoticeLineItem {
	out := make([]database.NoticeLineItem, len(items))
	for i, item := range items {
		out[i] = database.NoticeLineItem{Transaction: item.Transaction, Amount: item.Amount}
	}
	return out
}
