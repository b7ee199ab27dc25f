package subscription

import (
	"fmt"
	"time"

	"ventapos_backend/internal/model"
)

// SweepResult summarizes one pass of the batch status sweep.
type SweepResult struct {
	Checked      int      `json:"checked"`
	Updated      int      `json:"updated"`
	Expired      int      `json:"expired"`
	ExpiringSoon int      `json:"expiring_soon"`
	Errors       []string `json:"errors"`
}

// Alert is a store that currently needs attention.
type Alert struct {
	StoreID       uint       `json:"store_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email,omitempty"`
	Plan          Plan       `json:"plan"`
	Status        Status     `json:"status"`
	EndDate       *time.Time `json:"end_date"`
	DaysRemaining *int       `json:"days_remaining"`
}

// UpdateAllSubscriptionStatuses re-derives status for every store on a paid
// plan and persists only actual changes. Permanent stores derive PERMANENT, so
// including them costs nothing and corrects any stale stored status. This is a
// consistency sweep, not a transactional unit: a store that fails is recorded
// in the summary and the sweep moves on.
func (s *Service) UpdateAllSubscriptionStatuses(now time.Time) (*SweepResult, error) {
	var stores []model.Store
	err := s.db.
		Where("subscription_plan <> ?", string(PlanFree)).
		Find(&stores).Error
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Errors: []string{}}
	for i := range stores {
		store := &stores[i]
		result.Checked++

		status := CalculateStatus(Plan(store.SubscriptionPlan), store.SubscriptionEndDate, store.IsPermanent, now)
		if string(status) == store.SubscriptionStatus {
			continue
		}

		err := s.db.Model(&model.Store{}).
			Where("id = ?", store.ID).
			Update("subscription_status", string(status)).Error
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("store %d: %v", store.ID, err))
			continue
		}

		result.Updated++
		switch status {
		case StatusExpired:
			result.Expired++
		case StatusExpiringSoon:
			result.ExpiringSoon++
		}
	}

	return result, nil
}

// GetSubscriptionAlerts lists stores currently EXPIRED or EXPIRING_SOON.
// Read-only; used for the cron response and warning emails.
func (s *Service) GetSubscriptionAlerts(now time.Time) ([]Alert, error) {
	var stores []model.Store
	err := s.db.
		Where("subscription_status IN ?", []string{string(StatusExpired), string(StatusExpiringSoon)}).
		Order("subscription_end_date ASC").
		Find(&stores).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(stores))
	for i := range stores {
		store := &stores[i]
		alerts = append(alerts, Alert{
			StoreID:       store.ID,
			Name:          store.Name,
			Email:         store.Email,
			Plan:          Plan(store.SubscriptionPlan),
			Status:        Status(store.SubscriptionStatus),
			EndDate:       store.SubscriptionEndDate,
			DaysRemaining: CalculateDaysRemaining(store.SubscriptionEndDate, now),
		})
	}
	return alerts, nil
}
