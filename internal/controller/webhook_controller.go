package controller

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ventapos_backend/internal/model"
	"ventapos_backend/pkg/database"
	"ventapos_backend/pkg/lemonsqueezy"
	"ventapos_backend/pkg/subscription"
)

var webhookSigningSecret string

// InitWebhookController injects the shared signing secret at startup so the
// handler never reaches into the environment.
func InitWebhookController(signingSecret string) {
	webhookSigningSecret = signingSecret
}

// HandleLemonSqueezyWebhook receives billing-provider push events.
//
// The raw body is verified before parsing because the signature covers the
// exact bytes. Response codes drive the provider's retry queue: 401/400 mean
// do not retry, 500 means re-deliver later.
func HandleLemonSqueezyWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	if err := lemonsqueezy.VerifySignature(payload, c.Get("X-Signature"), webhookSigningSecret); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	event, err := lemonsqueezy.ParseEvent(payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Malformed webhook payload",
		})
	}

	if event.Meta.EventName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing event name",
		})
	}

	db := database.GetDB()

	record := model.WebhookEvent{
		Provider:        lemonsqueezy.Provider,
		ProviderEventID: event.Meta.WebhookID,
		EventType:       event.Meta.EventName,
		Payload:         datatypes.JSON(payload),
	}

	// A replayed provider event id that already processed is acknowledged
	// without re-running the handler.
	if event.Meta.WebhookID != "" {
		var existing model.WebhookEvent
		err := db.Where("provider = ? AND provider_event_id = ?",
			lemonsqueezy.Provider, event.Meta.WebhookID).
			First(&existing).Error
		if err == nil {
			if existing.ProcessedAt != nil {
				return c.JSON(fiber.Map{"received": true, "duplicate": true})
			}
			record = existing
		}
	}

	// No provider event id means nothing to dedupe on, and an empty string
	// would collide under the unique (provider, provider_event_id) index.
	if record.ID == 0 && event.Meta.WebhookID != "" {
		if err := db.Create(&record).Error; err != nil {
			// Audit trail is best effort; the event itself still processes.
			log.Printf("Could not record webhook event: %v", err)
		}
	}

	log.Printf("Processing LemonSqueezy webhook event: %s", event.Meta.EventName)

	if err := dispatchWebhookEvent(db, event); err != nil {
		if record.ID != 0 {
			db.Model(&record).Update("processing_error", err.Error())
		}
		if subscription.IsPermanentFailure(err) {
			// Retrying cannot fix an unknown store/customer mapping.
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not process webhook event",
		})
	}

	if record.ID != 0 {
		now := time.Now()
		db.Model(&record).Update("processed_at", now)
	}

	return c.JSON(fiber.Map{"received": true})
}

// dispatchWebhookEvent routes the closed set of known event names. Unknown
// events are logged and acknowledged so the provider does not retry them
// forever.
func dispatchWebhookEvent(db *gorm.DB, event *lemonsqueezy.WebhookEvent) error {
	switch event.Meta.EventName {
	case lemonsqueezy.EventSubscriptionCreated,
		lemonsqueezy.EventSubscriptionUpdated,
		lemonsqueezy.EventSubscriptionResumed,
		lemonsqueezy.EventSubscriptionPaymentSuccess:
		return applySubscriptionState(db, event, false)

	case lemonsqueezy.EventSubscriptionCancelled,
		lemonsqueezy.EventSubscriptionExpired:
		return applySubscriptionState(db, event, true)

	default:
		log.Printf("Ignoring unhandled webhook event type: %s", event.Meta.EventName)
		return nil
	}
}

// applySubscriptionState maps provider fields onto the store row and re-derives
// local status. It only overwrites fields with externally-sourced values, so
// re-delivery of the same event is idempotent.
func applySubscriptionState(db *gorm.DB, event *lemonsqueezy.WebhookEvent, ending bool) error {
	data, err := event.Subscription()
	if err != nil {
		return err
	}

	store, err := resolveStore(db, event, data)
	if err != nil {
		return err
	}

	updates := subscriptionUpdates(store, data, ending, time.Now())

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&model.Store{}).Where("id = ?", store.ID).Updates(updates).Error
	})
}

// subscriptionUpdates builds the column map for one provider event.
func subscriptionUpdates(store *model.Store, data *lemonsqueezy.SubscriptionData, ending bool, now time.Time) map[string]interface{} {
	variantID := strconv.Itoa(data.Attributes.VariantID)
	plan := subscription.DeterminePlan(variantID)

	// While the subscription runs, the next renewal date bounds the period.
	// Once cancelled or expired the provider's ends_at takes over.
	endDate := data.Attributes.RenewsAt
	if ending || endDate == nil {
		if data.Attributes.EndsAt != nil {
			endDate = data.Attributes.EndsAt
		}
	}

	// Checkout activation converts the default FREE/permanent store onto a
	// paid plan, so permanence clears. Ending events leave the flag alone:
	// only an admin toggle or plan change moves a store out of PERMANENT.
	isPermanent := false
	if ending {
		isPermanent = store.IsPermanent
	}

	status := subscription.CalculateStatus(plan, endDate, isPermanent, now)

	updates := map[string]interface{}{
		"subscription_plan":     string(plan),
		"subscription_status":   string(status),
		"subscription_end_date": endDate,
		"is_permanent":          isPermanent,
		"ls_customer_id":        strconv.Itoa(data.Attributes.CustomerID),
		"ls_subscription_id":    data.ID,
		"ls_variant_id":         variantID,
		"ls_status":             data.Attributes.Status,
	}
	if store.SubscriptionStartDate == nil && data.Attributes.CreatedAt != nil {
		updates["subscription_start_date"] = data.Attributes.CreatedAt
	}
	return updates
}

// resolveStore maps the event to a tenant: the checkout flow puts our store id
// in meta.custom_data, and already-linked subscriptions match on the provider
// subscription id.
func resolveStore(db *gorm.DB, event *lemonsqueezy.WebhookEvent, data *lemonsqueezy.SubscriptionData) (*model.Store, error) {
	if raw, ok := event.Meta.CustomData["store_id"]; ok && raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, &subscription.ValidationError{
				Field:   "store_id",
				Message: fmt.Sprintf("invalid value in webhook custom data: %q", raw),
			}
		}
		var store model.Store
		if err := db.First(&store, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &subscription.NotFoundError{Entity: "store", ID: uint(id)}
			}
			return nil, err
		}
		return &store, nil
	}

	if data.ID != "" {
		var store model.Store
		err := db.Where("ls_subscription_id = ?", data.ID).First(&store).Error
		if err == nil {
			return &store, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("store mapping missing for subscription %s", data.ID)
}
