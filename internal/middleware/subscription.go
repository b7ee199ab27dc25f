package middleware

import (
	"github.com/gofiber/fiber/v2"

	"ventapos_backend/internal/model"
	"ventapos_backend/pkg/database"
	"ventapos_backend/pkg/subscription"
	"ventapos_backend/pkg/utils/jwt"
)

// RequireActiveSubscription blocks store-scoped routes when the subscription
// has lapsed. PERMANENT and ACTIVE pass; EXPIRING_SOON still works, the store
// just gets warnings.
func RequireActiveSubscription() fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, resp := currentStore(c)
		if store == nil {
			return resp
		}

		if store.SubscriptionStatus == string(subscription.StatusExpired) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Your subscription has expired. Please renew to continue.",
			})
		}

		c.Locals("store", store)
		return c.Next()
	}
}

// CheckFeatureAccess gates plan-restricted features.
func CheckFeatureAccess(feature subscription.Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, resp := currentStore(c)
		if store == nil {
			return resp
		}

		plan := subscription.Plan(store.SubscriptionPlan)
		if !subscription.CanUseFeature(plan, feature) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This feature requires a higher subscription plan",
			})
		}

		return c.Next()
	}
}

// CheckProductLimit enforces the plan's catalog size before a product create.
func CheckProductLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, resp := currentStore(c)
		if store == nil {
			return resp
		}

		limits := subscription.GetPlanLimits(subscription.Plan(store.SubscriptionPlan))

		var productCount int64
		database.GetDB().Model(&model.Product{}).
			Where("store_id = ?", store.ID).
			Count(&productCount)

		if int(productCount) >= limits.MaxProducts {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "You have reached your product limit. Please upgrade your plan.",
				"current_count": productCount,
				"max_limit":     limits.MaxProducts,
			})
		}

		return c.Next()
	}
}

// currentStore resolves the caller's store. On failure it writes the error
// response and returns a nil store; callers return the second value as-is.
func currentStore(c *fiber.Ctx) (*model.Store, error) {
	claims := c.Locals("user").(*jwt.Claims)

	if claims.StoreID == nil {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "User is not assigned to a store",
		})
	}

	var store model.Store
	if err := database.GetDB().First(&store, *claims.StoreID).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Store not found",
		})
	}

	return &store, nil
}
