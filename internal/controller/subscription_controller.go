package controller

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ventapos_backend/internal/model"
	"ventapos_backend/pkg/database"
	"ventapos_backend/pkg/email"
	"ventapos_backend/pkg/subscription"
	"ventapos_backend/pkg/utils/jwt"
)

type SetPlanInput struct {
	Plan string `json:"plan" validate:"required"`
}

type TogglePermanentInput struct {
	IsPermanent *bool `json:"is_permanent" validate:"required"`
}

// RenewStoreSubscription extends a store's paid period by months or years.
func RenewStoreSubscription(c *fiber.Ctx) error {
	storeID, err := parseStoreID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	input := new(subscription.RenewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	svc := subscription.NewService(database.GetDB())
	snapshot, err := svc.RenewSubscription(storeID, *input)
	if err != nil {
		return subscriptionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Subscription renewed successfully",
		"store":   snapshot,
	})
}

func SetStorePlan(c *fiber.Ctx) error {
	storeID, err := parseStoreID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	input := new(SetPlanInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	svc := subscription.NewService(database.GetDB())
	snapshot, err := svc.SetPlan(storeID, subscription.Plan(input.Plan))
	if err != nil {
		return subscriptionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Plan updated successfully",
		"store":   snapshot,
	})
}

func ToggleStorePermanent(c *fiber.Ctx) error {
	storeID, err := parseStoreID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	input := new(TogglePermanentInput)
	if err := c.BodyParser(input); err != nil || input.IsPermanent == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "is_permanent is required",
		})
	}

	svc := subscription.NewService(database.GetDB())
	snapshot, err := svc.TogglePermanent(storeID, *input.IsPermanent)
	if err != nil {
		return subscriptionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Permanence updated successfully",
		"store":   snapshot,
	})
}

// RecordStorePayment appends to the payment ledger. It does not renew; the
// admin calls renew or set-plan separately.
func RecordStorePayment(c *fiber.Ctx) error {
	storeID, err := parseStoreID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	input := new(subscription.PaymentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	svc := subscription.NewService(database.GetDB())
	payment, err := svc.RecordPayment(storeID, *input, claims.UserID)
	if err != nil {
		return subscriptionErrorResponse(c, err)
	}

	// Receipt email is best effort; the ledger row is the source of truth.
	if email.GlobalEmailService != nil {
		var store model.Store
		if err := database.GetDB().Select("name", "email").First(&store, storeID).Error; err == nil && store.Email != "" {
			if err := email.GlobalEmailService.SendPaymentReceipt(
				store.Email, store.Name,
				payment.Amount, payment.Currency, payment.Method, payment.Reference,
				payment.PaymentDate, payment.PeriodEndDate,
			); err != nil {
				log.Printf("Could not send payment receipt to %s: %v", store.Email, err)
			}
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"payment": payment,
	})
}

func GetStorePaymentHistory(c *fiber.Ctx) error {
	storeID, err := parseStoreID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	svc := subscription.NewService(database.GetDB())
	payments, err := svc.GetPaymentHistory(storeID)
	if err != nil {
		return subscriptionErrorResponse(c, err)
	}

	return c.JSON(payments)
}

func GetSubscriptionStats(c *fiber.Ctx) error {
	includeInactive := c.Query("include_inactive") == "true"

	svc := subscription.NewService(database.GetDB())
	stats, err := svc.GetSubscriptionStats(includeInactive)
	if err != nil {
		return subscriptionErrorResponse(c, err)
	}

	return c.JSON(stats)
}

func parseStoreID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func subscriptionErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case subscription.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case subscription.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
