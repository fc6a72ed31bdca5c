package catalog

import (
	"context"
	"errors"
)

var (
	// ErrUpstreamUnavailable is a transient transport or server failure.
	ErrUpstreamUnavailable = errors.New("upstream catalog unavailable")

	// ErrMalformedResponse means the payload could not be decoded.
	ErrMalformedResponse = errors.New("malformed catalog response")

	// ErrMissingCredentials means the upstream endpoint or key is not configured.
	ErrMissingCredentials = errors.New("missing catalog credentials")

	// ErrInvalidCredentials means the upstream rejected the configured key.
	ErrInvalidCredentials = errors.New("catalog credentials rejected")

	// ErrInvalidCursor means the cursor is out of range.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrMissingIdentity means a record has no external code or name.
	ErrMissingIdentity = errors.New("record missing identity")

	// ErrInvalidRecord means a single item on a page could not be decoded.
	ErrInvalidRecord = errors.New("invalid catalog record")
)

// SourcePage is one page of raw records as returned by a Source.
type SourcePage struct {
	Records []RawRecord `json:"items"`

	// Total is the upstream catalog size when the source reports it.
	Total int `json:"total"`

	// TotalKnown is false when the source did not report a total.
	TotalKnown bool `json:"-"`

	// Rejected lists items that were present on the page but failed to decode.
	Rejected []RejectedRecord `json:"-"`
}

// Len is the number of items the upstream returned, decoded or not.
func (p SourcePage) Len() int {
	return len(p.Records) + len(p.Rejected)
}

// RejectedRecord describes an item dropped while decoding a page.
type RejectedRecord struct {
	// Position is the zero-based index of the item within its page.
	Position int
	// Code is the external code when it could still be read.
	Code   string
	Reason string
}

// Source returns pages of raw catalog records.
type Source interface {
	// Name identifies the source in logs and results.
	Name() string

	// FetchPage returns up to limit records starting at offset.
	FetchPage(ctx context.Context, offset, limit int) (SourcePage, error)
}

// Cursor is the resumable position of a catalog scan.
type Cursor struct {
	Offset   int `json:"offset"`
	PageSize int `json:"page_size"`
}
