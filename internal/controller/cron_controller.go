package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ventapos_backend/pkg/database"
	"ventapos_backend/pkg/subscription"
)

var cronSecret string

// InitCronController injects the bearer secret guarding the sweep trigger.
func InitCronController(secret string) {
	cronSecret = secret
}

// HandleSubscriptionStatusCron runs the batch status sweep on demand. Accepts
// GET or POST identically; hosted cron providers differ on which they send.
func HandleSubscriptionStatusCron(c *fiber.Ctx) error {
	auth := c.Get("Authorization")
	if cronSecret == "" || auth != "Bearer "+cronSecret {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	start := time.Now()
	svc := subscription.NewService(database.GetDB())

	results, err := svc.UpdateAllSubscriptionStatuses(start)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Sweep failed: " + err.Error(),
		})
	}

	alerts, err := svc.GetSubscriptionAlerts(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch alerts: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"timestamp": time.Now().Format(time.RFC3339),
		"duration":  time.Since(start).String(),
		"results":   results,
		"alerts":    alerts,
	})
}
