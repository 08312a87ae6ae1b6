package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoticeLineItem is one charge on a notice, as stored in the record.
type NoticeLineItem struct {
	Transaction string          `json:"transaction"`
	Amount      decimal.Decimal `json:"amount"`
}

// Notice is a persisted record of a delivered billing notice. Records are
// append-only; nothing updates a notice after creation.
type Notice struct {
	ID             uuid.UUID
	UserID         string
	StatementMonth string
	LineItems      []NoticeLineItem
	TotalAmount    decimal.Decimal
	QRCodeURL      string
	PromptPayID    string
	PaymentRef     string
	CreatedAt      time.Time
}

// CreateNotice inserts a notice record, assigning its ID and creation time.
func (db *DB) CreateNotice(ctx context.Context, n *Notice) error {
	items, err := json.Marshal(n.LineItems)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}

	n.ID = uuid.New()
	err = db.pool.QueryRow(ctx,
		`INSERT INTO notices (id, user_id, statement_month, line_items, total_amount,
		                      qr_code_url, promptpay_id, payment_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		n.ID, n.UserID, n.StatementMonth, items, n.TotalAmount.String(),
		n.QRCodeURL, n.PromptPayID, n.PaymentRef,
	).Scan(&n.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

// ListNoticesByUser returns a user's notices, newest first.
func (db *DB) ListNoticesByUser(ctx context.Context, userID string) ([]Notice, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, statement_month, line_items, total_amount::text,
		        qr_code_url, promptpay_id, payment_ref, created_at
		 FROM notices WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []Notice
	for rows.Next() {
		var (
			n     Notice
			items []byte
			total string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.StatementMonth, &items, &total,
			&n.QRCodeURL, &n.PromptPayID, &n.PaymentRef, &n.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &n.LineItems); err != nil {
			return nil, fmt.Errorf("failed to decode line items: %w", err)
		}
		if n.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("failed to parse total: %w", err)
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}
