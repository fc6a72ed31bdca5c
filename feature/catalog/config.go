package catalog

// Fallback source names.
const (
	FallbackGenerator = "generator"
	FallbackSnapshot  = "snapshot"
	FallbackNone      = "none"
)

// Config holds configuration for the upstream catalog.
type Config struct {
	// BaseURL is the upstream API root, e.g. https://api.supplier.test/v1.
	BaseURL string `mapstructure:"base_url" default:""`
	// APIKey is sent as X-Api-Key.
	APIKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds every upstream request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// MaxPageSize is the largest page the upstream accepts.
	MaxPageSize int `mapstructure:"max_page_size" default:"100"`
	// Fallback selects the secondary source: generator, snapshot or none.
	// generator writes demo records and is meant for local development.
	Fallback string `mapstructure:"fallback" default:"snapshot"`
	// GeneratorSize is the number of records in the generated catalog.
	GeneratorSize int `mapstructure:"generator_size" default:"25"`
	// SnapshotPrefix is the object key prefix for archived pages.
	SnapshotPrefix string `mapstructure:"snapshot_prefix" default:"snapshots/catalog"`
	// ArchivePages stores every primary page for the snapshot fallback.
	ArchivePages bool `mapstructure:"archive_pages" default:"true"`
}

// PricingConfig holds the settings the transformer reads.
type PricingConfig struct {
	// SkuPrefix marks products owned by this sync source.
	SkuPrefix string `mapstructure:"sku_prefix" default:"P_"`
	// UseForeignCurrency selects the foreign price instead of the local one.
	UseForeignCurrency bool `mapstructure:"use_foreign_currency" default:"false"`
	// MarkupPercent is the primary markup override, e.g. "35".
	MarkupPercent string `mapstructure:"markup_percent" default:""`
	// LegacyMarkupPercent applies when MarkupPercent is unset.
	LegacyMarkupPercent string `mapstructure:"legacy_markup_percent" default:""`
}
