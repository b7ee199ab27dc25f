package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"ventapos_backend/internal/model"
	"ventapos_backend/pkg/database"
	"ventapos_backend/pkg/subscription"
)

type CreateStoreInput struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CreateStore provisions a new tenant. New stores start on the permanent FREE
// tier; paid periods come later via renew/set-plan.
func CreateStore(c *fiber.Ctx) error {
	input := new(CreateStoreInput)
	if err := c.BodyParser(input); err != nil || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Store name is required",
		})
	}

	store := model.Store{
		Name:               input.Name,
		Slug:               slug.Make(input.Name),
		Address:            input.Address,
		Phone:              input.Phone,
		IsActive:           true,
		SubscriptionPlan:   string(subscription.PlanFree),
		SubscriptionStatus: string(subscription.StatusPermanent),
		IsPermanent:        true,
	}

	var existing model.Store
	if err := database.GetDB().Where("slug = ?", store.Slug).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A store with this name already exists",
		})
	}

	if err := database.GetDB().Create(&store).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create store",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(store)
}

func ListStores(c *fiber.Ctx) error {
	query := database.GetDB().Order("name ASC")
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var stores []model.Store
	if err := query.Find(&stores).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch stores",
		})
	}

	return c.JSON(stores)
}

func GetStore(c *fiber.Ctx) error {
	storeID, err := parseStoreID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	var store model.Store
	if err := database.GetDB().First(&store, storeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Store not found",
		})
	}

	return c.JSON(fiber.Map{
		"store":          store,
		"days_remaining": subscription.CalculateDaysRemaining(store.SubscriptionEndDate, time.Now()),
	})
}
