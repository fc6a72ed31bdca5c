package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"catalog-sync/core/budget"
	"catalog-sync/core/clock"
	"catalog-sync/core/events"
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/products"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fetcher returns one catalog page for a cursor.
type Fetcher interface {
	FetchPage(ctx context.Context, c catalog.Cursor) (catalog.Page, error)
}

// Upserter writes a transformed batch.
type Upserter interface {
	Upsert(ctx context.Context, batch []products.Product, opts products.UpsertOptions) (products.UpsertResult, error)
}

// Reconciler deletes stale records.
type Reconciler interface {
	DeleteStale(ctx context.Context, preserve []string, prefix string, b *budget.Budget) (reconcile.Result, error)
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Fetcher    Fetcher
	Upserter   Upserter
	Reconciler Reconciler
	State      StateStore
	// Invalidator is notified once per run when reconciliation deleted rows.
	Invalidator products.Invalidator
	Pricing     catalog.PricingConfig
	Config      Config
	Clock       clock.Clock
	Events      events.Sink
	Logger      *zap.Logger
}

// Orchestrator sequences Fetch, Transform, Upsert and Reconcile for one
// page per run and persists the cursor between runs.
type Orchestrator struct {
	deps  Deps
	phase atomic.Value
}

// NewOrchestrator creates an orchestrator. Nil Clock, Events and Logger
// get working defaults.
func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config.MaxReportedErrors <= 0 {
		deps.Config.MaxReportedErrors = 10
	}

	o := &Orchestrator{deps: deps}
	o.phase.Store(PhaseIdle)
	return o
}

// Phase returns the state-machine phase of the current or last run.
func (o *Orchestrator) Phase() Phase {
	return o.phase.Load().(Phase)
}

func (o *Orchestrator) setPhase(p Phase) {
	o.phase.Store(p)
}

// run holds the mutable state of one RunSync call.
type run struct {
	result *Result
	errors []products.RecordError
	start  time.Time
	budget *budget.Budget
}

func (r *run) addError(sku, reason string) {
	r.errors = append(r.errors, products.RecordError{SKU: sku, Reason: reason})
}

// RunSync executes one run. It refuses to start while another run holds
// the status lock and returns ErrAlreadyRunning. Fatal input and config
// errors leave the status at error and the cursor unchanged; everything
// else completes, possibly with per-record errors or Truncated set.
func (o *Orchestrator) RunSync(ctx context.Context, mode Mode) (*Result, error) {
	if mode == "" {
		mode = ModeFull
	}
	if mode != ModeFull && mode != ModeDescriptions {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	cfg := o.deps.Config
	l := o.deps.Logger
	now := o.deps.Clock.Now()

	r := &run{
		result: &Result{RunID: uuid.NewString(), Mode: mode},
		start:  now,
		budget: budget.NewFromMillis(o.deps.Clock, cfg.TimeCeilingMs),
	}
	l = l.With(zap.String("run_id", r.result.RunID), zap.String("mode", string(mode)))

	lease := time.Duration(cfg.LockTTLSeconds) * time.Second
	st, err := o.deps.State.Acquire(ctx, r.result.RunID, now.UTC(), lease)
	if err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			o.deps.Events.Warn("Sync refused: already in progress", zap.String("mode", string(mode)))
		}
		return nil, err
	}

	cursor := catalog.Cursor{Offset: st.Offset, PageSize: cfg.PageSize}
	if mode == ModeFull && o.deps.Pricing.SkuPrefix == "" {
		// Without an ownership prefix reconciliation would be unscoped.
		return o.fail(ctx, r, cursor, fmt.Errorf("%w: empty sku prefix", reconcile.ErrInvalidReconciliationInput))
	}
	o.deps.Events.Info("Sync run started",
		zap.String("run_id", r.result.RunID),
		zap.String("mode", string(mode)),
		zap.Int("offset", cursor.Offset),
		zap.Int("page_size", cursor.PageSize))

	// Fetching
	o.setPhase(PhaseFetching)
	page, err := o.deps.Fetcher.FetchPage(ctx, cursor)
	if err != nil {
		if errors.Is(err, catalog.ErrUpstreamUnavailable) {
			l.Warn("No catalog data available", zap.Error(err))
			r.result.Source = catalog.SourceNone
			r.result.Message = "no data: upstream and fallback unavailable"
			return o.finish(ctx, r, cursor, StatusCompleted, "")
		}
		return o.fail(ctx, r, cursor, err)
	}
	r.result.Source = page.Source
	r.result.SourceName = page.SourceName
	r.result.CycleComplete = page.Exhausted
	if page.Malformed {
		r.addError("", fmt.Sprintf("malformed upstream page at offset %d skipped", cursor.Offset))
	}
	if page.Source == catalog.SourceNone {
		r.result.Message = "no data"
	}
	for _, rej := range page.Rejected {
		sku := ""
		if rej.Code != "" {
			sku = o.deps.Pricing.SkuPrefix + rej.Code
		}
		r.addError(sku, fmt.Sprintf("item %d at offset %d skipped: %s", rej.Position, cursor.Offset, rej.Reason))
	}

	// Transforming
	o.setPhase(PhaseTransforming)
	batch := make([]products.Product, 0, len(page.Records))
	for _, raw := range page.Records {
		p, err := catalog.Transform(raw, o.deps.Pricing)
		if err != nil {
			sku := ""
			if raw.Code != "" {
				sku = o.deps.Pricing.SkuPrefix + raw.Code
			}
			r.addError(sku, err.Error())
			continue
		}
		batch = append(batch, p)
	}
	r.result.Processed = len(page.Records) + len(page.Rejected)

	// Upserting
	o.setPhase(PhaseUpserting)
	if len(batch) > 0 {
		ur, err := o.deps.Upserter.Upsert(ctx, batch, products.UpsertOptions{
			Mode:   updateMode(mode, cfg.PreserveDescriptions),
			Budget: r.budget,
		})
		if err != nil {
			r.addError("", fmt.Sprintf("upsert failed: %v", err))
		}
		r.result.Created = ur.Created
		r.result.Updated = ur.Updated
		r.result.Truncated = ur.Truncated
		r.errors = append(r.errors, ur.Errors...)
	}

	// Reconciling
	if o.shouldReconcile(mode, page, batch, r, l) {
		o.setPhase(PhaseReconciling)

		preserve := make([]string, len(batch))
		for i := range batch {
			preserve[i] = batch[i].SKU
		}

		rr, err := o.deps.Reconciler.DeleteStale(ctx, preserve, o.deps.Pricing.SkuPrefix, r.budget)
		switch {
		case errors.Is(err, reconcile.ErrInvalidReconciliationInput):
			return o.fail(ctx, r, cursor, err)
		case err != nil:
			r.addError("", fmt.Sprintf("reconciliation failed: %v", err))
		default:
			r.result.Reconciled = true
			r.result.Deleted = rr.Deleted
			r.result.Truncated = r.result.Truncated || rr.Truncated
			for _, f := range rr.Failures {
				r.addError("", f)
			}
			if rr.Deleted > 0 && o.deps.Invalidator != nil {
				o.deps.Invalidator.InvalidateAll()
			}
		}
	}

	return o.finish(ctx, r, page.Next, StatusCompleted, "")
}

// shouldReconcile applies the reconciliation gates: full mode, a primary
// page with records, and enough budget left.
func (o *Orchestrator) shouldReconcile(mode Mode, page catalog.Page, batch []products.Product, r *run, l *zap.Logger) bool {
	if mode != ModeFull || len(batch) == 0 {
		return false
	}
	if page.Source != catalog.SourcePrimary {
		l.Info("Reconciliation skipped for fallback page", zap.String("source", page.SourceName))
		return false
	}
	if r.result.Truncated {
		return false
	}

	minRemaining := time.Duration(o.deps.Config.ReconcileMinRemainingMs) * time.Millisecond
	if r.budget.Remaining() < minRemaining {
		r.result.Truncated = true
		l.Warn("Reconciliation skipped: time budget nearly exhausted",
			zap.Int64("remaining_ms", r.budget.RemainingMs()))
		return false
	}
	return true
}

func updateMode(mode Mode, preserveDescriptions bool) products.UpdateMode {
	switch {
	case mode == ModeDescriptions:
		return products.UpdateDescriptionsOnly
	case preserveDescriptions:
		return products.UpdatePreserveDescription
	default:
		return products.UpdateFull
	}
}

// finish persists the next cursor and final status and returns the result.
func (o *Orchestrator) finish(ctx context.Context, r *run, next catalog.Cursor, status Status, lastErr string) (*Result, error) {
	res := r.result
	res.NextCursor = next
	res.ErrorsTotal = len(r.errors)
	res.Errors = r.errors
	if limit := o.deps.Config.MaxReportedErrors; len(res.Errors) > limit {
		res.Errors = res.Errors[:limit]
	}
	if res.Errors == nil {
		res.Errors = []products.RecordError{}
	}

	now := o.deps.Clock.Now()
	res.DurationMs = now.Sub(r.start).Milliseconds()

	// The lock must be released even when the caller's context is gone.
	relErr := o.deps.State.Release(context.WithoutCancel(ctx), res.RunID, status, next, lastErr, now.UTC())

	for _, e := range r.errors {
		o.deps.Events.Warn("Sync record error", zap.String("run_id", res.RunID), zap.String("sku", e.SKU), zap.String("reason", e.Reason))
	}

	if status == StatusError {
		o.setPhase(PhaseError)
	} else {
		o.setPhase(PhaseCompleted)
	}

	o.deps.Events.Info("Sync run finished",
		zap.String("run_id", res.RunID),
		zap.String("status", string(status)),
		zap.String("source", res.Source),
		zap.Int("processed", res.Processed),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("deleted", res.Deleted),
		zap.Int("errors", res.ErrorsTotal),
		zap.Bool("truncated", res.Truncated),
		zap.Bool("cycle_complete", res.CycleComplete),
		zap.Int64("duration_ms", res.DurationMs))

	if relErr != nil {
		return res, relErr
	}
	return res, nil
}

// fail ends a run on a fatal error: status error, cursor unchanged.
func (o *Orchestrator) fail(ctx context.Context, r *run, cursor catalog.Cursor, cause error) (*Result, error) {
	o.deps.Events.Error("Sync run failed", zap.String("run_id", r.result.RunID), zap.Error(cause))
	r.result.Message = cause.Error()

	res, relErr := o.finish(ctx, r, cursor, StatusError, cause.Error())
	if relErr != nil {
		o.deps.Logger.Error("Failed to release sync lock", zap.Error(relErr))
	}
	return res, cause
}

// GetStatus returns the persisted status, the current phase and the cursor.
func (o *Orchestrator) GetStatus(ctx context.Context) (StatusReport, error) {
	st, err := o.deps.State.Load(ctx)
	if err != nil {
		return StatusReport{}, err
	}

	cursor := st.Cursor()
	if cursor.PageSize <= 0 {
		cursor.PageSize = o.deps.Config.PageSize
	}

	return StatusReport{
		Status:     st.Status,
		Phase:      o.Phase(),
		Cursor:     cursor,
		RunID:      st.RunID,
		StartedAt:  st.StartedAt,
		FinishedAt: st.FinishedAt,
		LastError:  st.LastError,
	}, nil
}
