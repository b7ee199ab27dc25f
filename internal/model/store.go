package model

import (
	"time"

	"gorm.io/gorm"
)

// Store is a tenant. Every product, user and payment hangs off a store, and the
// subscription fields below decide what the store is allowed to do.
type Store struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	Slug     string `json:"slug" gorm:"uniqueIndex;not null"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"` // contact address for billing notices
	IsActive bool   `json:"is_active" gorm:"default:true"`

	// Subscription state. SubscriptionStatus is derived from the other three
	// fields plus the clock; nothing writes it except the subscription service
	// and the webhook handler, both of which recompute it.
	SubscriptionPlan      string     `json:"subscription_plan" gorm:"default:'FREE'"`
	SubscriptionStatus    string     `json:"subscription_status" gorm:"default:'PERMANENT'"`
	SubscriptionStartDate *time.Time `json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date"`
	IsPermanent           bool       `json:"is_permanent" gorm:"default:true"`

	// LemonSqueezy identifiers so webhook events can be reconciled back to a
	// store. LSStatus is the provider's own status string, stored opaque.
	LSCustomerID     string `json:"ls_customer_id"`
	LSSubscriptionID string `json:"ls_subscription_id" gorm:"index"`
	LSVariantID      string `json:"ls_variant_id"`
	LSStatus         string `json:"ls_status"`

	Users    []User                `json:"-"`
	Products []Product             `json:"-"`
	Payments []SubscriptionPayment `json:"-"`
}
