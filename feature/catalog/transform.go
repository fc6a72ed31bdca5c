package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"catalog-sync/feature/products"

	"github.com/shopspring/decimal"
)

const (
	// GamingTag is appended to categories and the short description of
	// records flagged as gaming products.
	GamingTag = "Gaming"

	// LowStockMarker is appended to the short description when the
	// upstream reports a low stock level.
	LowStockMarker = "Low stock"

	shortDescriptionSeparator = " | "
)

var hundred = decimal.NewFromInt(100)

// Transform maps one upstream record to a canonical product.
// Records without an external code or name fail with ErrMissingIdentity.
func Transform(raw RawRecord, cfg PricingConfig) (products.Product, error) {
	code := strings.TrimSpace(raw.Code)
	name := strings.TrimSpace(raw.Name)
	if code == "" || name == "" {
		return products.Product{}, fmt.Errorf("%w: code=%q name=%q", ErrMissingIdentity, code, name)
	}

	price, currency := SelectPrice(raw, cfg.UseForeignCurrency)
	price = ApplyMarkup(price, MarkupPercent(cfg))

	quantity := raw.Quantity
	if quantity < 0 {
		quantity = 0
	}
	status := DeriveStockStatus(quantity, raw.StockLevel)

	brand := strings.TrimSpace(raw.Brand)
	p := products.Product{
		SKU:           cfg.SkuPrefix + code,
		Name:          name,
		Description:   strings.TrimSpace(raw.Description),
		Price:         price,
		Currency:      currency,
		StockQuantity: quantity,
		StockStatus:   status,
		Categories:    Categories(raw.Category, raw.SubCategory, brand, raw.Gaming),
		Images:        Images(raw.Images, raw.Thumbnails),
		Weight:        strings.TrimSpace(raw.Weight),
		Brand:         brand,
		EAN:           strings.TrimSpace(raw.EAN),
		Warranty:      strings.TrimSpace(raw.Warranty),
		ExternalID:    strings.TrimSpace(raw.ExternalID),
	}
	p.ShortDescription = ShortDescription(raw, isLowStock(raw.StockLevel))

	return p, nil
}

// SelectPrice picks the local or foreign price. When the selected price is
// not positive it falls back to base price plus tax.
func SelectPrice(raw RawRecord, useForeign bool) (decimal.Decimal, products.Currency) {
	selected, currency := raw.PriceLocal, products.CurrencyLocal
	if useForeign {
		selected, currency = raw.PriceForeign, products.CurrencyForeign
	}

	if !selected.IsPositive() && raw.BasePrice.IsPositive() {
		selected = raw.BasePrice.Add(raw.Tax)
	}
	if selected.IsNegative() {
		selected = decimal.Zero
	}
	return selected, currency
}

// MarkupPercent returns the markup override, then the legacy override, then 0.
// Unparsable values count as unset.
func MarkupPercent(cfg PricingConfig) decimal.Decimal {
	for _, raw := range []string{cfg.MarkupPercent, cfg.LegacyMarkupPercent} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if d, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// ApplyMarkup returns round(price * (1 + percent/100), 2).
func ApplyMarkup(price, percent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(percent.Div(hundred))
	return price.Mul(factor).Round(2)
}

// DeriveStockStatus maps quantity and the upstream stock hint to a status.
func DeriveStockStatus(quantity int, hint string) products.StockStatus {
	switch {
	case quantity > 0:
		return products.StockInStock
	case isLowStock(hint):
		return products.StockBackorder
	default:
		return products.StockOutOfStock
	}
}

func isLowStock(hint string) bool {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "low", "bajo":
		return true
	}
	return false
}

// Categories builds the category set. Category and sub-category are dropped
// when they equal the brand name, ignoring case.
func Categories(category, subCategory, brand string, gaming bool) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" {
			return
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	for _, c := range []string{category, subCategory} {
		if brand != "" && strings.EqualFold(strings.TrimSpace(c), brand) {
			continue
		}
		add(c)
	}
	if brand != "" {
		add("Brand: " + brand)
	}
	if gaming {
		add(GamingTag)
	}
	return out
}

// Images prefers the full-size list over thumbnails and keeps only
// absolute http(s) URLs, deduplicated in first-seen order.
func Images(full, thumbnails []string) []string {
	source := full
	if len(source) == 0 {
		source = thumbnails
	}

	var out []string
	seen := make(map[string]struct{})
	for _, raw := range source {
		raw = strings.TrimSpace(raw)
		if !isAbsoluteURL(raw) {
			continue
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	return out
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ShortDescription joins brand, category, warranty, gaming and low-stock
// segments with " | ", skipping empty ones.
func ShortDescription(raw RawRecord, lowStock bool) string {
	category := strings.TrimSpace(raw.Category)
	if sub := strings.TrimSpace(raw.SubCategory); category != "" && sub != "" {
		category += " - " + sub
	}

	var warranty string
	if w := strings.TrimSpace(raw.Warranty); w != "" {
		warranty = "Warranty: " + w
	}

	var gaming string
	if raw.Gaming {
		gaming = GamingTag
	}

	var low string
	if lowStock {
		low = LowStockMarker
	}

	var parts []string
	for _, s := range []string{strings.TrimSpace(raw.Brand), category, warranty, gaming, low} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, shortDescriptionSeparator)
}
