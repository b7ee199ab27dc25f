package model

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPayment is an append-only ledger row. Payments are never updated
// or deleted; a correction is a new row. Recording a payment does not touch the
// store's subscription fields, renewals are a separate explicit step.
type SubscriptionPayment struct {
	gorm.Model
	StoreID uint `json:"store_id" gorm:"index;not null"`

	Amount      float64   `json:"amount" gorm:"not null"`
	Currency    string    `json:"currency" gorm:"default:'USD'"`
	Method      string    `json:"method" gorm:"not null"` // cash, transfer, card
	Reference   string    `json:"reference"`
	PaymentDate time.Time `json:"payment_date" gorm:"not null"`

	DurationMonths int  `json:"duration_months"`
	DurationYears  int  `json:"duration_years"`
	IsPermanent    bool `json:"is_permanent"`

	PeriodStartDate *time.Time `json:"period_start_date"`
	PeriodEndDate   *time.Time `json:"period_end_date"`

	Notes string `json:"notes" gorm:"type:text"`

	RecordedByID uint `json:"recorded_by_id"`
	RecordedBy   User `json:"recorded_by" gorm:"foreignKey:RecordedByID"`

	Store Store `json:"-"`
}
