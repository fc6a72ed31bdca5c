package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxBodyBytes bounds a single upstream page.
const maxBodyBytes = 16 << 20

// HTTPSource reads pages from the upstream catalog API:
// GET {base}/products?offset=N&limit=M with the X-Api-Key header.
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPSource creates an upstream source from configuration.
func NewHTTPSource(cfg Config) *HTTPSource {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Name returns the name of the source.
func (s *HTTPSource) Name() string {
	return "upstream"
}

// Validate reports ErrMissingCredentials when the endpoint or key is unset.
func (s *HTTPSource) Validate() error {
	if s.baseURL == "" || s.apiKey == "" {
		return ErrMissingCredentials
	}
	if _, err := url.ParseRequestURI(s.baseURL); err != nil {
		return fmt.Errorf("%w: invalid base url: %v", ErrMissingCredentials, err)
	}
	return nil
}

// FetchPage implements Source.
func (s *HTTPSource) FetchPage(ctx context.Context, offset, limit int) (SourcePage, error) {
	if err := s.Validate(); err != nil {
		return SourcePage{}, err
	}

	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	endpoint := s.baseURL + "/products?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return SourcePage{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return SourcePage{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return SourcePage{}, fmt.Errorf("%w: status %d", ErrInvalidCredentials, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		// Some upstreams answer past-the-end offsets with 404.
		return SourcePage{}, nil
	case resp.StatusCode >= 300:
		return SourcePage{}, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return SourcePage{}, fmt.Errorf("%w: reading body: %v", ErrUpstreamUnavailable, err)
	}

	return decodePage(body)
}
