package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Page origins.
const (
	SourcePrimary  = "primary"
	SourceFallback = "fallback"
	SourceNone     = "none"
)

// Page is one fetched page plus what the caller should do next.
type Page struct {
	Records []RawRecord

	// Rejected lists items on the page that could not be decoded.
	Rejected []RejectedRecord

	// Exhausted is set when the primary source has no records past this page.
	Exhausted bool

	// Source is SourcePrimary, SourceFallback or SourceNone.
	Source string

	// SourceName is the Name() of the source that served the records.
	SourceName string

	// Next is the cursor to persist for the next run.
	Next Cursor

	// Malformed is set when the primary payload could not be decoded.
	// Such a page carries no records and is skipped.
	Malformed bool
}

// Archiver stores successful primary pages.
type Archiver interface {
	Archive(ctx context.Context, offset int, page SourcePage) error
}

// Fetcher fetches one catalog page with fallback substitution.
type Fetcher struct {
	primary     Source
	fallback    Source
	archiver    Archiver
	maxPageSize int
	logger      *zap.Logger
}

// NewFetcher creates a fetcher. fallback and archiver may be nil.
func NewFetcher(primary, fallback Source, archiver Archiver, maxPageSize int, logger *zap.Logger) *Fetcher {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		primary:     primary,
		fallback:    fallback,
		archiver:    archiver,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// MaxPageSize returns the upstream page-size limit.
func (f *Fetcher) MaxPageSize() int {
	return f.maxPageSize
}

// FetchPage fetches the page at c.
//
// Cursor errors and credential errors are fatal. A malformed payload yields
// an empty page that is skipped. On transport failure or an empty result the
// fallback source is tried exactly once; if it cannot serve either, the
// transport failure is returned as ErrUpstreamUnavailable with a
// SourceNone page so the caller can finish the run without data.
func (f *Fetcher) FetchPage(ctx context.Context, c Cursor) (Page, error) {
	if c.Offset < 0 || c.PageSize <= 0 || c.PageSize > f.maxPageSize {
		return Page{}, fmt.Errorf("%w: offset=%d page_size=%d max=%d", ErrInvalidCursor, c.Offset, c.PageSize, f.maxPageSize)
	}

	sp, err := f.primary.FetchPage(ctx, c.Offset, c.PageSize)
	switch {
	case err == nil && sp.Len() > 0:
		if f.archiver != nil {
			if aerr := f.archiver.Archive(ctx, c.Offset, sp); aerr != nil {
				f.logger.Warn("Failed to archive catalog page", zap.Int("offset", c.Offset), zap.Error(aerr))
			}
		}

		if len(sp.Rejected) > 0 {
			f.logger.Warn("Catalog page has undecodable items",
				zap.Int("offset", c.Offset),
				zap.Int("rejected", len(sp.Rejected)),
				zap.Int("records", len(sp.Records)))
		}

		n := sp.Len()
		exhausted := n < c.PageSize || (sp.TotalKnown && c.Offset+n >= sp.Total)
		return Page{
			Records:    sp.Records,
			Rejected:   sp.Rejected,
			Exhausted:  exhausted,
			Source:     SourcePrimary,
			SourceName: f.primary.Name(),
			Next:       advance(c, exhausted),
		}, nil

	case err == nil:
		// Empty result: the scan is over. Try the fallback before saying so.
		return f.useFallback(ctx, c, true, nil), nil

	case errors.Is(err, ErrMalformedResponse):
		f.logger.Warn("Malformed catalog page skipped", zap.Int("offset", c.Offset), zap.Error(err))
		return Page{
			Source:     SourcePrimary,
			SourceName: f.primary.Name(),
			Next:       advance(c, false),
			Malformed:  true,
		}, nil

	case errors.Is(err, ErrMissingCredentials), errors.Is(err, ErrInvalidCredentials):
		return Page{}, err

	default:
		f.logger.Warn("Upstream catalog unavailable", zap.Int("offset", c.Offset), zap.Error(err))
		page := f.useFallback(ctx, c, false, err)
		if page.Source == SourceNone {
			if !errors.Is(err, ErrUpstreamUnavailable) {
				err = fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
			}
			return page, err
		}
		return page, nil
	}
}

// useFallback tries the fallback source once. When the primary is down the
// cursor stays put so the same page is retried on the next run.
func (f *Fetcher) useFallback(ctx context.Context, c Cursor, exhausted bool, cause error) Page {
	next := c
	if exhausted {
		next = advance(c, true)
	}
	none := Page{Exhausted: exhausted, Source: SourceNone, Next: next}

	if f.fallback == nil {
		return none
	}

	sp, err := f.fallback.FetchPage(ctx, c.Offset, c.PageSize)
	if err != nil {
		f.logger.Warn("Fallback catalog source failed",
			zap.String("fallback", f.fallback.Name()),
			zap.NamedError("cause", cause),
			zap.Error(err))
		return none
	}
	if len(sp.Records) == 0 {
		return none
	}
	if len(sp.Records) > c.PageSize {
		sp.Records = sp.Records[:c.PageSize]
	}

	f.logger.Info("Serving catalog page from fallback",
		zap.String("fallback", f.fallback.Name()),
		zap.Int("records", len(sp.Records)),
		zap.Bool("primary_exhausted", exhausted))

	return Page{
		Records:    sp.Records,
		Rejected:   sp.Rejected,
		Exhausted:  exhausted,
		Source:     SourceFallback,
		SourceName: f.fallback.Name(),
		Next:       next,
	}
}

func advance(c Cursor, exhausted bool) Cursor {
	if exhausted {
		return Cursor{Offset: 0, PageSize: c.PageSize}
	}
	return Cursor{Offset: c.Offset + c.PageSize, PageSize: c.PageSize}
}
