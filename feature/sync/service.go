package sync

import (
	"context"
	"time"

	"catalog-sync/core/ratelimit"

	"go.uber.org/zap"
)

// TriggerAction is the rate-limited action name for manual triggers.
const TriggerAction = "sync.trigger"

// Service exposes sync runs to the HTTP surface.
type Service struct {
	orchestrator *Orchestrator
	limiter      *ratelimit.Limiter
	logger       *zap.Logger
}

// NewService creates a new sync service. limiter may be nil.
func NewService(orchestrator *Orchestrator, limiter *ratelimit.Limiter, logger *zap.Logger) *Service {
	return &Service{
		orchestrator: orchestrator,
		limiter:      limiter,
		logger:       logger,
	}
}

// AllowTrigger reports whether actor may trigger a run now and, if not,
// how long until the window resets.
func (s *Service) AllowTrigger(actor string) (bool, time.Duration) {
	if s.limiter == nil {
		return true, 0
	}
	if s.limiter.Allow(actor, TriggerAction) {
		return true, 0
	}
	return false, s.limiter.RetryAfter(actor, TriggerAction)
}

// Run executes one synchronous run.
func (s *Service) Run(ctx context.Context, mode Mode) (*Result, error) {
	return s.orchestrator.RunSync(ctx, mode)
}

// Status returns the current status report.
func (s *Service) Status(ctx context.Context) (StatusReport, error) {
	return s.orchestrator.GetStatus(ctx)
}
