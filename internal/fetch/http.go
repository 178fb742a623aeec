package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// HTTPConfig configures HTTP sessions.
type HTTPConfig struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// withDefaults fills zero values.
func (c HTTPConfig) withDefaults() HTTPConfig {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// HTTPSession fetches static pages over plain HTTP.
type HTTPSession struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPSession creates an HTTP session.
func NewHTTPSession(cfg HTTPConfig) *HTTPSession {
	cfg = cfg.withDefaults()

	return &HTTPSession{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// Fetch performs an HTTP GET and parses the response body.
func (s *HTTPSession) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected http status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return doc, nil
}

// Close releases the session. HTTP sessions hold no process resources.
func (s *HTTPSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// HTTPFactory builds HTTP sessions.
type HTTPFactory struct {
	cfg HTTPConfig
}

// NewHTTPFactory creates a factory for HTTP sessions.
func NewHTTPFactory(cfg HTTPConfig) *HTTPFactory {
	return &HTTPFactory{cfg: cfg}
}

// New constructs a fresh HTTP session. It never fails.
func (f *HTTPFactory) New(_ context.Context) (Session, error) {
	return NewHTTPSession(f.cfg), nil
}
