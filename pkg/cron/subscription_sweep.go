package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"ventapos_backend/pkg/database"
	"ventapos_backend/pkg/email"
	"ventapos_backend/pkg/subscription"
)

// InitSubscriptionSweepCron schedules the daily consistency sweep. The same
// sweep is also reachable over HTTP for hosted cron providers.
func InitSubscriptionSweepCron() {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		runSubscriptionSweep()
	})

	if err != nil {
		log.Printf("Could not initialize subscription sweep cron: %v", err)
		return
	}

	c.Start()
}

func runSubscriptionSweep() {
	log.Println("Running subscription status sweep...")

	now := time.Now()
	svc := subscription.NewService(database.GetDB())

	result, err := svc.UpdateAllSubscriptionStatuses(now)
	if err != nil {
		log.Printf("Subscription sweep failed: %v", err)
		return
	}

	log.Printf("Sweep done: checked=%d updated=%d expired=%d expiring_soon=%d errors=%d",
		result.Checked, result.Updated, result.Expired, result.ExpiringSoon, len(result.Errors))
	for _, e := range result.Errors {
		log.Printf("Sweep error: %s", e)
	}

	sendExpiryWarnings(svc, now)
}

func sendExpiryWarnings(svc *subscription.Service, now time.Time) {
	if email.GlobalEmailService == nil {
		return
	}

	alerts, err := svc.GetSubscriptionAlerts(now)
	if err != nil {
		log.Printf("Could not fetch subscription alerts: %v", err)
		return
	}

	for _, alert := range alerts {
		if alert.Email == "" {
			continue
		}

		var err error
		switch alert.Status {
		case subscription.StatusExpiringSoon:
			days := 0
			if alert.DaysRemaining != nil {
				days = *alert.DaysRemaining
			}
			endDate := now
			if alert.EndDate != nil {
				endDate = *alert.EndDate
			}
			err = email.GlobalEmailService.SendSubscriptionExpiryWarning(
				alert.Email, alert.Name, string(alert.Plan), days, endDate)
		case subscription.StatusExpired:
			err = email.GlobalEmailService.SendSubscriptionExpiredEmail(
				alert.Email, alert.Name, string(alert.Plan))
		}

		if err != nil {
			log.Printf("Could not send expiry notice to %s: %v", alert.Email, err)
		}
	}
}
