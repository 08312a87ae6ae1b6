package notice

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal_MixedStringAndNumberAmounts(t *testing.T) {
	var items []LineItem
	payload := `[{"transaction":"Coffee","amount":"100.50"},{"transaction":"Taxi","amount":49.5}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &items))

	total := ComputeTotal(items)
	assert.Equal(t, "150.00", total.StringFixed(2))
	assert.True(t, total.Equal(decimal.RequireFromString("150")))
}

func TestComputeTotal_ExactDecimalSum(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not a float approximation.
	items := []LineItem{
		{Transaction: "a", Amount: decimal.RequireFromString("0.1")},
		{Transaction: "b", Amount: decimal.RequireFromString("0.2")},
	}
	assert.True(t, ComputeTotal(items).Equal(decimal.RequireFromString("0.3")))
}

func TestComputeTotal_Empty(t *testing.T) {
	assert.True(t, ComputeTotal(nil).IsZero())
}

func TestComputeTotal_NegativeAmountAccepted(t *testing.T) {
	// Refund-style negatives are not rejected; they reduce the total.
	items := []LineItem{
		{Transaction: "charge", Amount: decimal.RequireFromString("100")},
		{Transaction: "refund", Amount: decimal.RequireFromString("-30")},
	}
	assert.Equal(t, "70.00", ComputeTotal(items).StringFixed(2))
}

func TestNewPaymentRef_Format(t *testing.T) {
	ref := NewPaymentRef()
	assert.True(t, strings.HasPrefix(ref, "#"))
	assert.LessOrEqual(t, len(ref), 12)
}

func TestBuildPaymentQR_ProducesPNG(t *testing.T) {
	png, err := BuildPaymentQR("0909944974", decimal.RequireFromString("200.00"))
	require.NoError(t, err)
	// PNG magic bytes.
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestBuildNotice_Deterministic(t *testing.T) {
	items := []LineItem{
		{Transaction: "Coffee", Amount: decimal.RequireFromString("120")},
		{Transaction: "Taxi", Amount: decimal.RequireFromString("80")},
	}
	total := ComputeTotal(items)

	qr1, stmt1 := BuildNotice("มกราคม 2569", total, items, "#1234567890", "https://example.com/qr.png")
	qr2, stmt2 := BuildNotice("มกราคม 2569", total, items, "#1234567890", "https://example.com/qr.png")

	json1, err := json.Marshal([]any{qr1, stmt1})
	require.NoError(t, err)
	json2, err := json.Marshal([]any{qr2, stmt2})
	require.NoError(t, err)
	assert.Equal(t, json1, json2)
}

func TestBuildNotice_Contents(t *testing.T) {
	items := []LineItem{
		{Transaction: "Coffee", Amount: decimal.RequireFromString("120")},
		{Transaction: "Taxi", Amount: decimal.RequireFromString("80")},
	}
	total := ComputeTotal(items)

	qr, stmt := BuildNotice("มกราคม 2569", total, items, "#9876543210", "https://example.com/qr.png")

	assert.Equal(t, "QR Code PromptPay", qr.AltText)
	qrJSON, err := json.Marshal(qr)
	require.NoError(t, err)
	assert.Contains(t, string(qrJSON), "https://example.com/qr.png")

	assert.Equal(t, "บิลใบแจ้งยอดประจำเดือน มกราคม 2569", stmt.AltText)
	stmtJSON, err := json.Marshal(stmt)
	require.NoError(t, err)
	body := string(stmtJSON)
	assert.Contains(t, body, "ยอด : 200.00 บาท")
	assert.Contains(t, body, "Coffee")
	assert.Contains(t, body, "Taxi")
	// The reference shown on the document is the one the caller supplied,
	// not a fresh random value.
	assert.Contains(t, body, "#9876543210")
}
