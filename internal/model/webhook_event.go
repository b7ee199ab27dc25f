package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEvent stores billing-provider webhook deliveries with deduplication
// metadata. A replayed provider event id is acknowledged without reprocessing.
type WebhookEvent struct {
	gorm.Model
	Provider        string         `json:"provider" gorm:"not null;index:ux_webhook_events_provider_event,unique,priority:1"`
	ProviderEventID string         `json:"provider_event_id" gorm:"not null;default:'';index:ux_webhook_events_provider_event,unique,priority:2"`
	EventType       string         `json:"event_type" gorm:"index"`
	Payload         datatypes.JSON `json:"payload"`
	ProcessedAt     *time.Time     `json:"processed_at"`
	ProcessingError string         `json:"processing_error" gorm:"type:text"`
}
