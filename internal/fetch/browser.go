package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserConfig configures headless browser sessions.
type BrowserConfig struct {
	// WaitSelector is the structural marker that must appear before a page
	// counts as loaded. Empty means no wait.
	WaitSelector string
	// ActivateSelector, when set, is clicked after load to reveal
	// script-toggled content (e.g. a tracking-data tab). Its absence on a
	// page is not an error.
	ActivateSelector string
	// ActivateWaitSelector is the marker awaited after activation.
	ActivateWaitSelector string
	// WaitTimeout bounds the wait for WaitSelector.
	WaitTimeout time.Duration
	// ActivateTimeout bounds the wait after activation.
	ActivateTimeout time.Duration
}

// Default browser wait budgets.
const (
	DefaultWaitTimeout     = 10 * time.Second
	DefaultActivateTimeout = 3 * time.Second
)

// withDefaults fills zero values.
func (c BrowserConfig) withDefaults() BrowserConfig {
	if c.WaitTimeout == 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.ActivateTimeout == 0 {
		c.ActivateTimeout = DefaultActivateTimeout
	}
	return c
}

// BrowserSession fetches script-rendered pages through a headless browser.
// Each session owns its own browser process; sessions are never shared.
type BrowserSession struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      BrowserConfig
}

// NewBrowserSession launches a headless browser and connects to it.
func NewBrowserSession(cfg BrowserConfig) (*BrowserSession, error) {
	cfg = cfg.withDefaults()

	l := launcher.New().Headless(true)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if connectErr := browser.Connect(); connectErr != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", connectErr)
	}

	return &BrowserSession{browser: browser, launcher: l, cfg: cfg}, nil
}

// Fetch navigates to the URL, waits for the structural marker, optionally
// activates hidden content, and returns the rendered document.
func (s *BrowserSession) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if s.cfg.WaitSelector != "" {
		if _, waitErr := page.Timeout(s.cfg.WaitTimeout).Element(s.cfg.WaitSelector); waitErr != nil {
			if errors.Is(waitErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s on %s: %w", s.cfg.WaitSelector, url, ErrMarkerNotFound)
			}
			return nil, fmt.Errorf("wait for %s: %w", s.cfg.WaitSelector, waitErr)
		}
	}

	s.activate(page)

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read page html: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return doc, nil
}

// activate clicks the activation element when configured. Pages without the
// element (older matches without tracking data) are left as they are.
func (s *BrowserSession) activate(page *rod.Page) {
	if s.cfg.ActivateSelector == "" {
		return
	}

	el, err := page.Timeout(s.cfg.ActivateTimeout).Element(s.cfg.ActivateSelector)
	if err != nil {
		return
	}

	if clickErr := el.Click(proto.InputMouseButtonLeft, 1); clickErr != nil {
		return
	}

	if s.cfg.ActivateWaitSelector != "" {
		_, _ = page.Timeout(s.cfg.ActivateTimeout).Element(s.cfg.ActivateWaitSelector)
	}
}

// Close shuts the browser process down on every exit path.
func (s *BrowserSession) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()

	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}

	return nil
}

// BrowserFactory builds browser sessions. Construction can fail when the
// browser process does not start; callers retry with a bound.
type BrowserFactory struct {
	cfg BrowserConfig
}

// NewBrowserFactory creates a factory for browser sessions.
func NewBrowserFactory(cfg BrowserConfig) *BrowserFactory {
	return &BrowserFactory{cfg: cfg}
}

// New launches a fresh browser session.
func (f *BrowserFactory) New(_ context.Context) (Session, error) {
	return NewBrowserSession(f.cfg)
}
