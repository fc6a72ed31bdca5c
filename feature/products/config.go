package products

// Config holds configuration for the product listing surface.
type Config struct {
	// CacheTTLSeconds is the listing cache lifetime. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
	// MaxListLimit caps the page size accepted by GET /products.
	MaxListLimit int `mapstructure:"max_list_limit" default:"200"`
}
