package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// GeneratorSource is a fixed, deterministic local catalog.
// It keeps the pipeline exercisable when the upstream is unreachable.
type GeneratorSource struct {
	size int
}

// NewGeneratorSource creates a generator with size records.
func NewGeneratorSource(size int) *GeneratorSource {
	if size <= 0 {
		size = 25
	}
	return &GeneratorSource{size: size}
}

// Name returns the name of the source.
func (g *GeneratorSource) Name() string {
	return "generator"
}

// FetchPage implements Source. The generated catalog ignores the upstream
// offset and always serves its first limit records.
func (g *GeneratorSource) FetchPage(_ context.Context, _ int, limit int) (SourcePage, error) {
	n := g.size
	if limit < n {
		n = limit
	}

	brands := []string{"Acme", "Globex", "Initech"}
	categories := []string{"Peripherals", "Storage", "Networking"}

	records := make([]RawRecord, n)
	for i := 0; i < n; i++ {
		records[i] = RawRecord{
			ExternalID:  fmt.Sprintf("%d", 900000+i),
			Code:        fmt.Sprintf("DEMO-%03d", i+1),
			Name:        fmt.Sprintf("Demo product %d", i+1),
			Description: "Generated while the upstream catalog is unavailable.",
			PriceLocal:  decimal.NewFromInt(int64(10 + i)),
			Quantity:    i % 4,
			StockLevel:  "low",
			Category:    categories[i%len(categories)],
			Brand:       brands[i%len(brands)],
			Gaming:      i%5 == 0,
		}
	}

	return SourcePage{Records: records, Total: g.size, TotalKnown: true}, nil
}
