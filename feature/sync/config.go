package sync

// Config holds configuration for sync runs.
type Config struct {
	// PageSize is the number of upstream records fetched per run.
	PageSize int `mapstructure:"page_size" default:"100"`
	// BatchSize is the upsert and delete sub-batch size.
	BatchSize int `mapstructure:"batch_size" default:"50"`
	// TimeCeilingMs is the wall-clock ceiling of one run.
	TimeCeilingMs int `mapstructure:"time_ceiling_ms" default:"25000"`
	// ReconcileMinRemainingMs skips reconciliation when less budget remains.
	ReconcileMinRemainingMs int `mapstructure:"reconcile_min_remaining_ms" default:"3000"`
	// MaxReportedErrors caps Result.Errors.
	MaxReportedErrors int `mapstructure:"max_reported_errors" default:"10"`
	// LockTTLSeconds is how long a running status blocks other runs before
	// it is treated as abandoned.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds" default:"900"`
	// PreserveDescriptions keeps stored descriptions on full-mode updates.
	PreserveDescriptions bool `mapstructure:"preserve_descriptions" default:"false"`
}
