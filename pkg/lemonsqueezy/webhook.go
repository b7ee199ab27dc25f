package lemonsqueezy

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Provider is the value stored on webhook event rows.
const Provider = "lemonsqueezy"

// Event names the backend acts on. Anything else is acknowledged and ignored.
const (
	EventSubscriptionCreated        = "subscription_created"
	EventSubscriptionUpdated        = "subscription_updated"
	EventSubscriptionResumed        = "subscription_resumed"
	EventSubscriptionCancelled      = "subscription_cancelled"
	EventSubscriptionExpired        = "subscription_expired"
	EventSubscriptionPaymentSuccess = "subscription_payment_success"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// VerifySignature checks the X-Signature header against the raw request body.
// LemonSqueezy signs the exact bytes with HMAC-SHA256, hex encoded, so the body
// must not be parsed or re-serialized before this runs.
func VerifySignature(payload []byte, signature, secret string) error {
	if signature == "" {
		return ErrInvalidSignature
	}
	if !hmac.Equal([]byte(Sign(payload, secret)), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 of payload with the shared secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// WebhookEvent is the provider's envelope: the event name lives in meta, the
// subscription object in data.
type WebhookEvent struct {
	Meta Meta            `json:"meta"`
	Data json.RawMessage `json:"data"`
}

type Meta struct {
	EventName  string            `json:"event_name"`
	WebhookID  string            `json:"webhook_id"`
	CustomData map[string]string `json:"custom_data"`
}

type SubscriptionData struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Attributes SubscriptionAttributes `json:"attributes"`
}

type SubscriptionAttributes struct {
	CustomerID int        `json:"customer_id"`
	VariantID  int        `json:"variant_id"`
	Status     string     `json:"status"`
	RenewsAt   *time.Time `json:"renews_at"`
	EndsAt     *time.Time `json:"ends_at"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// ParseEvent decodes a verified body into the envelope.
func ParseEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}
	return &event, nil
}

// Subscription decodes the data portion of a subscription_* event.
func (e *WebhookEvent) Subscription() (*SubscriptionData, error) {
	if len(e.Data) == 0 {
		return nil, errors.New("webhook event has no data object")
	}
	var data SubscriptionData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, fmt.Errorf("malformed subscription data: %w", err)
	}
	return &data, nil
}
