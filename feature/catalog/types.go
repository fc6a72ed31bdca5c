package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"catalog-sync/core/utils"

	"github.com/shopspring/decimal"
)

// RawRecord is one upstream catalog item before transformation.
// Upstream payloads mix numbers and numeric strings, so decoding is lenient.
type RawRecord struct {
	ExternalID   string          `json:"id,omitempty"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	PriceLocal   decimal.Decimal `json:"price_local"`
	PriceForeign decimal.Decimal `json:"price_foreign"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Tax          decimal.Decimal `json:"tax"`
	Quantity     int             `json:"quantity"`
	StockLevel   string          `json:"stock_level,omitempty"`
	Category     string          `json:"category,omitempty"`
	SubCategory  string          `json:"subcategory,omitempty"`
	Brand        string          `json:"brand,omitempty"`
	Images       []string        `json:"images,omitempty"`
	Thumbnails   []string        `json:"thumbnails,omitempty"`
	Gaming       bool            `json:"gaming"`
	Weight       string          `json:"weight,omitempty"`
	EAN          string          `json:"ean,omitempty"`
	Warranty     string          `json:"warranty,omitempty"`
}

// UnmarshalJSON decodes a record, accepting numbers as strings and the
// flag values "1", "true", "yes" and "si".
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if m == nil {
		return fmt.Errorf("%w: null record", ErrInvalidRecord)
	}

	var bad []string
	price := func(key string) decimal.Decimal {
		d, err := utils.ParseDecimal(m[key])
		if err != nil {
			bad = append(bad, key+": "+err.Error())
		}
		return d
	}

	*r = RawRecord{
		ExternalID:   utils.ToString(m["id"]),
		Code:         utils.ToString(m["code"]),
		Name:         utils.ToString(m["name"]),
		Description:  utils.ToString(m["description"]),
		PriceLocal:   price("price_local"),
		PriceForeign: price("price_foreign"),
		BasePrice:    price("base_price"),
		Tax:          price("tax"),
		Quantity:     utils.ToInt(m["quantity"]),
		StockLevel:   utils.ToString(m["stock_level"]),
		Category:     utils.ToString(m["category"]),
		SubCategory:  utils.ToString(m["subcategory"]),
		Brand:        utils.ToString(m["brand"]),
		Images:       utils.ToStrings(m["images"]),
		Thumbnails:   utils.ToStrings(m["thumbnails"]),
		Gaming:       utils.ToBool(m["gaming"]),
		Weight:       utils.ToString(m["weight"]),
		EAN:          utils.ToString(m["ean"]),
		Warranty:     utils.ToString(m["warranty"]),
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(bad, "; "))
	}
	return nil
}

// decodePage accepts either {"items":[...],"total":N} or a bare array.
// Items are decoded one by one; a bad item is reported in Rejected and
// does not affect its neighbours.
func decodePage(body []byte) (SourcePage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return SourcePage{}, nil
	}

	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return SourcePage{}, wrapMalformed(err)
		}
		return decodeItems(items), nil

	case '{':
		var envelope struct {
			Items []json.RawMessage `json:"items"`
			Total *json.Number      `json:"total"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return SourcePage{}, wrapMalformed(err)
		}
		page := decodeItems(envelope.Items)
		if envelope.Total != nil {
			page.Total = utils.ToInt(*envelope.Total)
			page.TotalKnown = true
		}
		return page, nil

	default:
		return SourcePage{}, fmt.Errorf("%w: unexpected payload", ErrMalformedResponse)
	}
}

func decodeItems(items []json.RawMessage) SourcePage {
	var page SourcePage
	for i, item := range items {
		var rec RawRecord
		if err := rec.UnmarshalJSON(item); err != nil {
			page.Rejected = append(page.Rejected, RejectedRecord{
				Position: i,
				Code:     rec.Code,
				Reason:   err.Error(),
			})
			continue
		}
		page.Records = append(page.Records, rec)
	}
	return page
}

func wrapMalformed(err error) error {
	if errors.Is(err, ErrMalformedResponse) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
}
