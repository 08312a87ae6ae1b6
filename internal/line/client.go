// Package line is a minimal client for the LINE Messaging API, covering
// profile lookup and multicast message delivery.
package line

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// ErrRecipientBlocked reports that the platform refused a profile lookup
// because the user blocked or unfollowed the channel. Callers treat this as
// an expected lifecycle transition, not a failure.
var ErrRecipientBlocked = errors.New("recipient has blocked or unfollowed the channel")

const retryKeyHeader = "X-Line-Retry-Key"

// Config holds client settings.
type Config struct {
	AccessToken string
	BaseURL     string
	// Timeout bounds every API call. The platform client used to rely on
	// transport defaults; an explicit bound is safer.
	Timeout time.Duration
}

// Profile is the platform's view of a user.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

// Client talks to the LINE Messaging API.
type Client struct {
	http *resty.Client
	// LINE rate-limits message endpoints; pushes wait here instead of
	// burning the quota and eating 429s.
	limiter *rate.Limiter
}

// NewClient creates a client for the given channel access token.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.line.me"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

// GetProfile fetches a user's profile. A 403 from the platform means the
// user blocked or unfollowed the channel and is reported as
// ErrRecipientBlocked; any other non-2xx status is a generic error.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&profile).
		Get("/v2/bot/profile/" + userID)
	if err != nil {
		return nil, fmt.Errorf("profile request: %w", err)
	}

	switch {
	case resp.IsSuccess():
		return &profile, nil
	case resp.StatusCode() == 403:
		return nil, ErrRecipientBlocked
	default:
		return nil, fmt.Errorf("profile request: unexpected status %d", resp.StatusCode())
	}
}

type multicastRequest struct {
	To       []string      `json:"to"`
	Messages []FlexMessage `json:"messages"`
}

// Multicast pushes messages to the given recipients. The retry key makes the
// call idempotent on the platform side, so a transient retry cannot deliver
// the same messages twice.
func (c *Client) Multicast(ctx context.Context, to []string, messages []FlexMessage, retryKey string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(retryKeyHeader, retryKey).
		SetBody(multicastRequest{To: to, Messages: messages}).
		Post("/v2/bot/message/multicast")
	if err != nil {
		return fmt.Errorf("multicast request: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("multicast request: unexpected status %d", resp.StatusCode())
	}
	return nil
}
