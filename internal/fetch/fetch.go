// Package fetch provides page-fetch sessions for the harvest loop. A
// session turns a URL into a parsed document; callers choose the HTTP
// session for static pages and the browser session for script-rendered
// pages.
package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotFound marks a page that does not exist (HTTP 404). Not-found
// failures are terminal: the harvest loop does not waste a retry on a page
// that is permanently absent.
var ErrNotFound = errors.New("page not found")

// ErrMarkerNotFound means the page loaded but the structural marker never
// appeared within the wait budget.
var ErrMarkerNotFound = errors.New("structural marker not found")

// Session fetches pages and must be closed when the owner is done with it.
// A session is owned by exactly one worker at a time; sessions are never
// shared across goroutines.
type Session interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
	Close() error
}

// Factory constructs isolated sessions. Construction may fail (e.g. the
// browser process does not start); callers retry a bounded number of times.
type Factory interface {
	New(ctx context.Context) (Session, error)
}

// Default session limits.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 10 * 1024 * 1024 // 10 MB
)
