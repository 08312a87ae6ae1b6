// Package notice composes and delivers billing notices: a PromptPay QR
// image plus an itemized statement, both as Flex documents.
package notice

import (
	"fmt"
	"math/rand/v2"

	"github.com/Frontware/promptpay"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Fewsrt/webapp-credit-alert-backend/internal/line"
)

// LineItem is one charge on a statement. Amounts arrive as JSON numbers or
// strings; decimal.Decimal accepts both, keeping full precision either way.
// Negative amounts are accepted as-is and simply reduce the total.
type LineItem struct {
	Transaction string          `json:"transaction"`
	Amount      decimal.Decimal `json:"amount"`
}

// ComputeTotal returns the exact sum of the item amounts. Display rounding
// to two places happens at render time; the stored total keeps the full
// precision of this result.
func ComputeTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// NewPaymentRef generates the display-only payment reference shown on the
// statement. Generated once per notice and carried through the rendered
// document, the log entry, and the persisted record.
func NewPaymentRef() string {
	return fmt.Sprintf("#%d", rand.Int64N(10_000_000_000))
}

// BuildPaymentQR encodes a PromptPay merchant payload for the given amount
// and renders it as a PNG.
func BuildPaymentQR(promptPayID string, total decimal.Decimal) ([]byte, error) {
	payment := promptpay.PromptPay{
		PromptPayID: promptPayID,
		Amount:      total.InexactFloat64(),
		OneTime:     true,
	}
	payload, err := payment.Gen()
	if err != nil {
		return nil, fmt.Errorf("failed to build payment payload: %w", err)
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}

// BuildNotice constructs the two Flex documents for a notice: the QR image
// panel and the itemized statement panel. Construction is deterministic for
// a fixed input, including the payment reference.
func BuildNotice(statementMonth string, total decimal.Decimal, items []LineItem, paymentRef, qrCodeURL string) (qr, statement line.FlexMessage) {
	qr = line.NewFlexMessage("QR Code PromptPay", line.Bubble{
		Type: "bubble",
		Body: &line.Box{
			Type:   "box",
			Layout: "vertical",
			Contents: []line.Component{
				line.Image{
					Type:        "image",
					URL:         qrCodeURL,
					Size:        "full",
					AspectMode:  "cover",
					AspectRatio: "1:1",
					Gravity:     "center",
				},
			},
			PaddingAll: "0px",
		},
	})

	itemRows := make([]line.Component, 0, len(items))
	for _, item := range items {
		itemRows = append(itemRows, line.Box{
			Type:   "box",
			Layout: "horizontal",
			Contents: []line.Component{
				line.Text{Type: "text", Text: item.Transaction, Size: "sm", Color: "#555555", Flex: line.IntPtr(0)},
				line.Text{Type: "text", Text: fmt.Sprintf("%s บาท", item.Amount), Size: "sm", Color: "#111111", Align: "end"},
			},
		})
	}

	statement = line.NewFlexMessage(
		fmt.Sprintf("บิลใบแจ้งยอดประจำเดือน %s", statementMonth),
		line.Bubble{
			Type: "bubble",
			Body: &line.Box{
				Type:   "box",
				Layout: "vertical",
				Contents: []line.Component{
					line.Text{Type: "text", Text: "บิลค่าใช้จ่าย", Weight: "bold", Color: "#1DB446", Size: "lg"},
					line.Text{Type: "text", Text: fmt.Sprintf("ยอด : %s บาท", total.StringFixed(2)), Weight: "bold", Size: "xxl", Margin: "md"},
					line.Text{Type: "text", Text: fmt.Sprintf("ประจำเดือน %s", statementMonth), Size: "md", Color: "#aaaaaa", Wrap: true},
					line.Separator{Type: "separator", Margin: "xxl"},
					line.Box{Type: "box", Layout: "vertical", Margin: "xxl", Spacing: "sm", Contents: itemRows},
					line.Separator{Type: "separator", Margin: "xxl"},
					line.Box{
						Type:   "box",
						Layout: "horizontal",
						Contents: []line.Component{
							line.Text{Type: "text", Text: "รวม", Size: "sm", Color: "#555555"},
							line.Text{Type: "text", Text: fmt.Sprintf("%s บาท", total.StringFixed(2)), Size: "sm", Color: "#111111", Align: "end"},
						},
					},
					line.Separator{Type: "separator", Margin: "xxl"},
					line.Box{
						Type:   "box",
						Layout: "horizontal",
						Margin: "md",
						Contents: []line.Component{
							line.Text{Type: "text", Text: "PAYMENT ID", Size: "xs", Color: "#aaaaaa", Flex: line.IntPtr(0)},
							line.Text{Type: "text", Text: paymentRef, Size: "xs", Color: "#aaaaaa", Align: "end"},
						},
					},
				},
			},
			Styles: &line.BubbleStyles{
				Footer: &line.BlockStyle{Separator: true},
			},
		},
	)

	return qr, statement
}
