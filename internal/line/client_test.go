package line

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{AccessToken: "token", BaseURL: srv.URL})
}

func TestGetProfile_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/profile/U123", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Profile{UserID: "U123", DisplayName: "Alice"})
	})

	profile, err := client.GetProfile(context.Background(), "U123")
	require.NoError(t, err)
	assert.Equal(t, "U123", profile.UserID)
	assert.Equal(t, "Alice", profile.DisplayName)
}

func TestGetProfile_Blocked(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.GetProfile(context.Background(), "U123")
	assert.ErrorIs(t, err, ErrRecipientBlocked)
}

func TestGetProfile_TransientFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetProfile(context.Background(), "U123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRecipientBlocked)
}

func TestMulticast_SendsRetryKeyAndBody(t *testing.T) {
	var gotRetryKey string
	var gotBody multicastRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/multicast", r.URL.Path)
		gotRetryKey = r.Header.Get("X-Line-Retry-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	msg := NewFlexMessage("alt", Bubble{Type: "bubble"})
	err := client.Multicast(context.Background(), []string{"U123"}, []FlexMessage{msg}, "retry-key-1")
	require.NoError(t, err)

	assert.Equal(t, "retry-key-1", gotRetryKey)
	assert.Equal(t, []string{"U123"}, gotBody.To)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "flex", gotBody.Messages[0].Type)
	assert.Equal(t, "alt", gotBody.Messages[0].AltText)
}

func TestMulticast_NonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := client.Multicast(context.Background(), []string{"U123"}, nil, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
