// Package browser implements page.Session on a Chrome instance driven by
// chromedp.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/jonathan/connexion/internal/page"
)

// Site URLs used by Login.
const (
	LoginURL = "https://www.linkedin.com/login"
	FeedURL  = "https://www.linkedin.com/feed/"
)

// DefaultUserAgent is a desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultPageTimeout bounds each navigation or action.
const DefaultPageTimeout = 30 * time.Second

// Config controls the browser.
type Config struct {
	Headless    bool
	UserAgent   string
	PageTimeout time.Duration
	// LoginURL and FeedURL override the site URLs, for tests.
	LoginURL string
	FeedURL  string
	Verbose  bool
}

// Session is a single browser tab. It keeps a snapshot of the current page
// for field reads and refreshes it after every navigation or action.
type Session struct {
	cfg Config

	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	browserCtx    context.Context

	snap *page.Snapshot
}

// New launches Chrome. The browser lives until Close or until ctx is done.
func New(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = DefaultPageTimeout
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = LoginURL
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = FeedURL
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(cfg.UserAgent),
			chromedp.WindowSize(1366, 900),
		)...,
	)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// an empty Run starts the browser
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, &page.FaultError{Op: "start", Message: "failed to launch browser", Fatal: true, Cause: err}
	}

	if cfg.Verbose {
		log.Printf("[browser] Started (headless=%v)", cfg.Headless)
	}

	return &Session{
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
		browserCtx:    browserCtx,
	}, nil
}

// call runs actions with the per-call timeout. Cancelling ctx cancels the
// call but never the browser.
func (s *Session) call(ctx context.Context, op string, actions ...chromedp.Action) error {
	callCtx, cancel := context.WithTimeout(s.browserCtx, s.cfg.PageTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(callCtx, actions...); err != nil {
		return s.fault(op, err)
	}
	return nil
}

// fault classifies err. The session is dead once the browser context is.
func (s *Session) fault(op string, err error) error {
	if s.browserCtx.Err() != nil {
		return &page.FaultError{Op: op, Message: "browser is gone", Fatal: true, Cause: err}
	}
	msg := "call failed"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "timed out"
	}
	return &page.FaultError{Op: op, Message: msg, Cause: err}
}

// Login signs in and reports whether the browser reached the feed. A
// challenge page (e.g. a captcha) leaves the browser elsewhere and yields
// false.
func (s *Session) Login(ctx context.Context, username, password string) (bool, error) {
	var location string
	err := s.call(ctx, "login",
		chromedp.Navigate(s.cfg.LoginURL),
		chromedp.WaitVisible("#username", chromedp.ByQuery),
		chromedp.SendKeys("#username", username, chromedp.ByQuery),
		chromedp.SendKeys("#password", password+kb.Enter, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			location = waitForLocation(ctx, s.cfg.FeedURL)
			return nil
		}),
	)
	if err != nil {
		return false, err
	}

	ok := SameURL(location, s.cfg.FeedURL)
	if !ok {
		log.Printf("[browser] Login landed on %s", location)
	}
	return ok, nil
}

// waitForLocation polls the tab's URL until it matches want or ctx ends, and
// returns the last URL seen.
func waitForLocation(ctx context.Context, want string) string {
	var location string
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		if err := chromedp.Location(&location).Do(ctx); err == nil && SameURL(location, want) {
			return location
		}
		select {
		case <-ctx.Done():
			return location
		case <-ticker.C:
		}
	}
}

// SameURL compares URLs ignoring scheme, a leading "www." and a trailing
// slash.
func SameURL(a, b string) bool {
	return normalizeURL(a) == normalizeURL(b)
}

func normalizeURL(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimSuffix(u, "/")
}

// Load navigates to url and snapshots the rendered page.
func (s *Session) Load(ctx context.Context, url string) error {
	if s.cfg.Verbose {
		log.Printf("[browser] Loading %s", url)
	}
	var html string
	err := s.call(ctx, "load",
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		s.snap = nil
		return err
	}
	return s.setSnapshot("load", html)
}

func (s *Session) setSnapshot(op, html string) error {
	snap, err := page.NewSnapshot(html)
	if err != nil {
		return &page.FaultError{Op: op, Message: "unreadable page", Cause: err}
	}
	s.snap = snap
	return nil
}

func (s *Session) refresh(ctx context.Context, op string) error {
	var html string
	if err := s.call(ctx, op, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return err
	}
	return s.setSnapshot(op, html)
}

// ReadText answers from the current snapshot.
func (s *Session) ReadText(_ context.Context, field page.Field) (string, bool, error) {
	if s.snap == nil {
		return "", false, nil
	}
	text, ok := s.snap.Text(field)
	return text, ok, nil
}

// Perform finds the action's element and clicks it, or types text into it
// for page.ActionWriteNote. A missing element yields false.
func (s *Session) Perform(ctx context.Context, action page.Action, text string) (bool, error) {
	selector, ok := page.ActionSelectors[action]
	if !ok {
		return false, fmt.Errorf("unknown action %q", action)
	}
	op := "perform " + string(action)

	var nodes []*cdp.Node
	if err := s.call(ctx, op, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return false, err
	}
	target := targetIndex(action)
	if len(nodes) <= target {
		if s.cfg.Verbose {
			log.Printf("[browser] %s: no element for %s", action, selector)
		}
		return false, nil
	}
	node := nodes[target]

	var act chromedp.Action
	switch action {
	case page.ActionWriteNote:
		act = chromedp.SendKeys([]cdp.NodeID{node.NodeID}, text, chromedp.ByNodeID)
	case page.ActionMenuConnect:
		// dropdown items are not hit-testable while the menu animates
		act = chromedp.Evaluate(fmt.Sprintf("document.querySelector(%q).click()", selector), nil)
	default:
		act = chromedp.MouseClickNode(node)
	}
	if err := s.call(ctx, op, act); err != nil {
		return false, err
	}
	if err := s.refresh(ctx, op); err != nil {
		return false, err
	}
	return true, nil
}

func targetIndex(action page.Action) int {
	if action == page.ActionOpenMenu {
		return page.MoreButtonIndex
	}
	return 0
}

// Close shuts the browser down.
func (s *Session) Close() error {
	s.browserCancel()
	s.allocCancel()
	if s.cfg.Verbose {
		log.Printf("[browser] Closed")
	}
	return nil
}

var _ page.Session = (*Session)(nil)
