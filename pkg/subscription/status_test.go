package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func days(n int) *time.Time {
	t := now.Add(time.Duration(n) * 24 * time.Hour)
	return &t
}

func TestCalculateStatus(t *testing.T) {
	tests := []struct {
		name        string
		plan        Plan
		endDate     *time.Time
		isPermanent bool
		want        Status
	}{
		{"permanent overrides everything", PlanPro, days(-30), true, StatusPermanent},
		{"permanent with no end date", PlanBasico, nil, true, StatusPermanent},
		{"free is always permanent", PlanFree, nil, false, StatusPermanent},
		{"free with stale end date is still permanent", PlanFree, days(-10), false, StatusPermanent},
		{"paid plan without end date fails closed", PlanPro, nil, false, StatusExpired},
		{"ended yesterday", PlanBasico, days(-1), false, StatusExpired},
		{"ends in three days", PlanBasico, days(3), false, StatusExpiringSoon},
		{"ends today", PlanPro, days(0), false, StatusExpiringSoon},
		{"boundary: exactly seven days", PlanPro, days(7), false, StatusExpiringSoon},
		{"boundary: eight days", PlanPro, days(8), false, StatusActive},
		{"ends in thirty days", PlanBasico, days(30), false, StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStatus(tt.plan, tt.endDate, tt.isPermanent, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateStatus_PartialDayRoundsUp(t *testing.T) {
	// 7 days and a few hours out is still more than a week away.
	endDate := now.Add(7*24*time.Hour + 6*time.Hour)
	assert.Equal(t, StatusActive, CalculateStatus(PlanPro, &endDate, false, now))

	// 6 days and change rounds up to 7, inside the warning window.
	endDate = now.Add(6*24*time.Hour + 6*time.Hour)
	assert.Equal(t, StatusExpiringSoon, CalculateStatus(PlanPro, &endDate, false, now))
}

func TestCalculateDaysRemaining(t *testing.T) {
	assert.Nil(t, CalculateDaysRemaining(nil, now))

	d := CalculateDaysRemaining(days(10), now)
	require.NotNil(t, d)
	assert.Equal(t, 10, *d)

	d = CalculateDaysRemaining(days(-3), now)
	require.NotNil(t, d)
	assert.Equal(t, -3, *d)
}

func TestNextEndDate_ExtendsFromFutureEndDate(t *testing.T) {
	current := now.Add(10 * 24 * time.Hour)
	got := NextEndDate(&current, now, 1)
	assert.True(t, got.Equal(current.AddDate(0, 1, 0)), "renewal should stack on the remaining period")
}

func TestNextEndDate_ExpiredStartsFromNow(t *testing.T) {
	current := now.Add(-10 * 24 * time.Hour)
	got := NextEndDate(&current, now, 1)
	assert.True(t, got.Equal(now.AddDate(0, 1, 0)), "expired renewals must not be backdated")
}

func TestNextEndDate_NoCurrentDate(t *testing.T) {
	got := NextEndDate(nil, now, 12)
	assert.True(t, got.Equal(now.AddDate(0, 12, 0)))
}
