package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	StoreID uint `json:"store_id" gorm:"uniqueIndex:idx_store_product_slug"`

	Name    string `json:"name" gorm:"not null"`
	Slug    string `json:"slug" gorm:"uniqueIndex:idx_store_product_slug;not null"`
	SKU     string `json:"sku"`
	Barcode string `json:"barcode" gorm:"index"`

	Price   float64 `json:"price" gorm:"not null"`
	Cost    float64 `json:"cost"`
	TaxRate float64 `json:"tax_rate"`

	Stock    int `json:"stock" gorm:"default:0"`
	MinStock int `json:"min_stock" gorm:"default:0"`

	Category    string `json:"category" gorm:"index"`
	Description string `json:"description" gorm:"type:text"`

	// Attributes holds variable product data (sizes, colors, units) without a
	// column per field.
	Attributes datatypes.JSON `json:"attributes"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	Store  Store          `json:"-"`
	Images []ProductImage `json:"images"`
}

type ProductImage struct {
	gorm.Model
	ProductID uint   `json:"product_id" gorm:"index"`
	URL       string `json:"url" gorm:"not null"`
	StorageID string `json:"storage_id"`
	IsCover   bool   `json:"is_cover" gorm:"default:false"`

	Product Product `json:"-"`
}
