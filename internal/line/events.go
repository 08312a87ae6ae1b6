package line

// WebhookRequest is the body LINE posts to the webhook endpoint.
type WebhookRequest struct {
	Destination string  `json:"destination,omitempty"`
	Events      []Event `json:"events"`
}

// Event is a single platform event. Only the fields this service reads are
// modeled; the platform sends more.
type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Source    Source `json:"source"`
}

// Source identifies who triggered an event.
type Source struct {
	Type   string `json:"type,omitempty"`
	UserID string `json:"userId"`
}
