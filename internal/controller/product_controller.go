package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"

	"ventapos_backend/internal/model"
	"ventapos_backend/pkg/database"
	"ventapos_backend/pkg/utils/cloudflare"
	imageutil "ventapos_backend/pkg/utils/image"
	"ventapos_backend/pkg/utils/validation"
)

type ProductInput struct {
	Name        string         `json:"name" validate:"required"`
	SKU         string         `json:"sku"`
	Barcode     string         `json:"barcode"`
	Price       float64        `json:"price" validate:"required"`
	Cost        float64        `json:"cost"`
	TaxRate     float64        `json:"tax_rate"`
	Stock       int            `json:"stock"`
	MinStock    int            `json:"min_stock"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Attributes  datatypes.JSON `json:"attributes"`
}

func CreateProduct(c *fiber.Ctx) error {
	store := c.Locals("store").(*model.Store)

	input := new(ProductInput)
	if err := c.BodyParser(input); err != nil || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	product := model.Product{
		StoreID:     store.ID,
		Name:        input.Name,
		Slug:        slug.Make(input.Name),
		SKU:         input.SKU,
		Barcode:     input.Barcode,
		Price:       input.Price,
		Cost:        input.Cost,
		TaxRate:     input.TaxRate,
		Stock:       input.Stock,
		MinStock:    input.MinStock,
		Category:    input.Category,
		Description: input.Description,
		Attributes:  input.Attributes,
		IsActive:    true,
	}

	if err := database.GetDB().Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func ListMyProducts(c *fiber.Ctx) error {
	store := c.Locals("store").(*model.Store)

	query := database.GetDB().Where("store_id = ?", store.ID).Preload("Images")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("low_stock") == "true" {
		query = query.Where("stock <= min_stock")
	}

	var products []model.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch products",
		})
	}

	return c.JSON(products)
}

func UpdateProduct(c *fiber.Ctx) error {
	store := c.Locals("store").(*model.Store)

	product, errResp := loadStoreProduct(c, store)
	if product == nil {
		return errResp
	}

	input := new(ProductInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	updates := map[string]interface{}{
		"name":        input.Name,
		"slug":        slug.Make(input.Name),
		"sku":         input.SKU,
		"barcode":     input.Barcode,
		"price":       input.Price,
		"cost":        input.Cost,
		"tax_rate":    input.TaxRate,
		"stock":       input.Stock,
		"min_stock":   input.MinStock,
		"category":    input.Category,
		"description": input.Description,
	}
	if input.Attributes != nil {
		updates["attributes"] = input.Attributes
	}

	if err := database.GetDB().Model(product).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update product",
		})
	}

	return c.JSON(product)
}

func DeleteProduct(c *fiber.Ctx) error {
	store := c.Locals("store").(*model.Store)

	product, errResp := loadStoreProduct(c, store)
	if product == nil {
		return errResp
	}

	if err := database.GetDB().Delete(product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete product",
		})
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func UploadProductImage(c *fiber.Ctx) error {
	store := c.Locals("store").(*model.Store)

	product, errResp := loadStoreProduct(c, store)
	if product == nil {
		return errResp
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No image provided",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	buf, contentType, err := imageutil.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := cloudflare.UploadImage(cloudflare.UploadImageConfig{
		Body:        buf,
		ContentType: contentType,
		Filename:    file.Filename,
		StoreSlug:   store.Slug,
		ProductSlug: product.Slug,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload image",
		})
	}

	var imageCount int64
	database.GetDB().Model(&model.ProductImage{}).
		Where("product_id = ?", product.ID).
		Count(&imageCount)

	image := model.ProductImage{
		ProductID: product.ID,
		URL:       result.URL,
		StorageID: result.StorageID,
		IsCover:   imageCount == 0, // first image becomes the cover
	}

	if err := database.GetDB().Create(&image).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save image record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(image)
}

func DeleteProductImage(c *fiber.Ctx) error {
	store := c.Locals("store").(*model.Store)

	imageID, err := strconv.ParseUint(c.Params("image_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid image ID",
		})
	}

	var image model.ProductImage
	err = database.GetDB().
		Joins("JOIN products ON products.id = product_images.product_id").
		Where("product_images.id = ? AND products.store_id = ?", imageID, store.ID).
		First(&image).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	}

	if err := cloudflare.DeleteImage(image.URL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete image from storage",
		})
	}

	if err := database.GetDB().Delete(&image).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete image record",
		})
	}

	return c.JSON(fiber.Map{"message": "Image deleted"})
}

// loadStoreProduct fetches the :id product scoped to the caller's store. On
// failure it writes the response and returns a nil product.
func loadStoreProduct(c *fiber.Ctx, store *model.Store) (*model.Product, error) {
	productID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product ID",
		})
	}

	var product model.Product
	err = database.GetDB().
		Where("id = ? AND store_id = ?", productID, store.ID).
		First(&product).Error
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	return &product, nil
}
