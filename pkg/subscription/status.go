package subscription

import (
	"math"
	"time"
)

// ExpiryWarningDays is the window before the end date during which a store is
// EXPIRING_SOON instead of ACTIVE.
const ExpiryWarningDays = 7

// CalculateStatus derives a store's subscription status. This is the single
// source of truth: every mutation path, the sweep and the webhook handler all
// recompute status here instead of writing it directly.
func CalculateStatus(plan Plan, endDate *time.Time, isPermanent bool, now time.Time) Status {
	if isPermanent {
		return StatusPermanent
	}
	if plan == PlanFree {
		// FREE stores never expire by policy.
		return StatusPermanent
	}
	if endDate == nil {
		// Paid plan without an end date is misconfigured. Fail closed.
		return StatusExpired
	}

	days := daysUntil(*endDate, now)
	switch {
	case days < 0:
		return StatusExpired
	case days <= ExpiryWarningDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// CalculateDaysRemaining returns nil when the store has no end date (free or
// permanent). The count is signed; negative means already expired.
func CalculateDaysRemaining(endDate *time.Time, now time.Time) *int {
	if endDate == nil {
		return nil
	}
	days := daysUntil(*endDate, now)
	return &days
}

// NextEndDate computes the end date after renewing for the given number of
// months. A store renewed before its period is over keeps the remaining days;
// an expired or dateless store starts counting from now, so renewals are never
// backdated.
func NextEndDate(current *time.Time, now time.Time, months int) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.AddDate(0, months, 0)
}

func daysUntil(endDate, now time.Time) int {
	return int(math.Ceil(endDate.Sub(now).Hours() / 24))
}
