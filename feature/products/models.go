package products

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no product matches the lookup.
	ErrNotFound = errors.New("product not found")

	// ErrInvalidProduct is returned when a product violates a field invariant.
	ErrInvalidProduct = errors.New("invalid product")
)

// Currency is the currency a price is expressed in.
type Currency string

const (
	CurrencyLocal   Currency = "local"
	CurrencyForeign Currency = "foreign"
)

// StockStatus is derived from the stock quantity and the upstream hint.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockBackorder  StockStatus = "backorder"
	StockOutOfStock StockStatus = "out_of_stock"
)

// Product is the canonical product. SKU carries the ownership prefix.
type Product struct {
	ID               uint            `gorm:"primaryKey;column:id" json:"id"`
	SKU              string          `gorm:"column:sku;type:varchar(191);uniqueIndex;not null" json:"sku"`
	Name             string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	ShortDescription string          `gorm:"column:short_description;type:text" json:"short_description"`
	Description      string          `gorm:"column:description;type:text" json:"description"`
	Price            decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Currency         Currency        `gorm:"column:currency;type:varchar(16);not null" json:"currency"`
	StockQuantity    int             `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	StockStatus      StockStatus     `gorm:"column:stock_status;type:varchar(16);not null" json:"stock_status"`
	Categories       []string        `gorm:"column:categories;serializer:json;type:text" json:"categories"`
	Images           []string        `gorm:"column:images;serializer:json;type:text" json:"images"`
	Weight           string          `gorm:"column:weight;type:varchar(32)" json:"weight,omitempty"`
	Brand            string          `gorm:"column:brand;type:varchar(128)" json:"brand,omitempty"`
	EAN              string          `gorm:"column:ean;type:varchar(32)" json:"ean,omitempty"`
	Warranty         string          `gorm:"column:warranty;type:varchar(64)" json:"warranty,omitempty"`
	ExternalID       string          `gorm:"column:external_id;type:varchar(64)" json:"external_id,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Validate checks the field invariants of a canonical product.
func (p *Product) Validate() error {
	if p.SKU == "" {
		return fmt.Errorf("%w: empty sku", ErrInvalidProduct)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: negative price %s", ErrInvalidProduct, p.Price.String())
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("%w: negative stock %d", ErrInvalidProduct, p.StockQuantity)
	}
	return nil
}

// BeforeCreate validates the row before gorm inserts it.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	return p.Validate()
}

// UpdateMode selects which columns an in-place update overwrites.
type UpdateMode int

const (
	// UpdateFull overwrites every content column.
	UpdateFull UpdateMode = iota
	// UpdatePreserveDescription overwrites everything except description.
	UpdatePreserveDescription
	// UpdateDescriptionsOnly touches description and short_description only.
	UpdateDescriptionsOnly
)

// Columns returns the columns written by an update in this mode.
func (m UpdateMode) Columns() []string {
	switch m {
	case UpdateDescriptionsOnly:
		return []string{"description", "short_description", "updated_at"}
	case UpdatePreserveDescription:
		return contentColumns(false)
	default:
		return contentColumns(true)
	}
}

func contentColumns(withDescription bool) []string {
	cols := []string{
		"name", "short_description", "price", "currency",
		"stock_quantity", "stock_status", "categories", "images",
		"weight", "brand", "ean", "warranty", "external_id", "updated_at",
	}
	if withDescription {
		cols = append(cols, "description")
	}
	return cols
}
