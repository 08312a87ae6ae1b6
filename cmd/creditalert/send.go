package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	sendServer string
	sendUser   string
	sendMonth  string
	sendItems  []string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Trigger a billing notice for one subscriber",
	Long: `Posts a send-notice request to a running relay server.

Each --item is label=amount, for example:
  creditalert send --user U123 --month "มกราคม 2569" \
    --item "ค่ากาแฟ=120" --item "ค่าแท็กซี่=80.50"`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendServer, "server", "http://localhost:4001", "Relay server base URL")
	sendCmd.Flags().StringVarP(&sendUser, "user", "u", "", "Recipient platform user ID")
	sendCmd.Flags().StringVarP(&sendMonth, "month", "m", "", "Statement month label")
	sendCmd.Flags().StringArrayVarP(&sendItems, "item", "i", nil, "Line item as label=amount (repeatable)")
	_ = sendCmd.MarkFlagRequired("user")
	_ = sendCmd.MarkFlagRequired("month")
	_ = sendCmd.MarkFlagRequired("item")
}

type sendItem struct {
	Transaction string `json:"transaction"`
	Amount      string `json:"amount"`
}

func runSend(cmd *cobra.Command, args []string) error {
	items := make([]sendItem, 0, len(sendItems))
	for _, raw := range sendItems {
		label, amount, ok := strings.Cut(raw, "=")
		if !ok || label == "" || amount == "" {
			return fmt.Errorf("invalid item %q, expected label=amount", raw)
		}
		// Amounts go through as strings; the server sums them exactly.
		items = append(items, sendItem{Transaction: label, Amount: amount})
	}

	body := map[string]any{
		"userId":          sendUser,
		"statementMonth":  sendMonth,
		"transactionData": items,
	}

	client := resty.New().SetBaseURL(sendServer).SetTimeout(30 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/send-notice")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if !resp.IsSuccess() {
		color.Red("send failed (%d): %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
		return fmt.Errorf("server returned %d", resp.StatusCode())
	}

	color.Green("notice sent to %s (%d items)", sendUser, len(items))
	fmt.Println(strings.TrimSpace(string(resp.Body())))
	return nil
}
