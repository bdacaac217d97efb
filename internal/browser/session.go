// Package browser owns the single Chrome instance used for a scrape run and
// hands out isolated page contexts with resource blocking applied.
package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Heavy resource types are aborted to cut page load time and bandwidth.
var blockedURLPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg", "*.ico",
	"*.css", "*.woff", "*.woff2", "*.ttf", "*.otf",
	"*.mp4", "*.mp3", "*.avi", "*.mov",
}

var fallbackBrowsers = []string{
	"chromium", "chromium-browser", "google-chrome", "google-chrome-stable",
}

// SessionError reports a browser that could not be launched.
type SessionError struct {
	Err error
}

// Error implements the error interface.
func (e SessionError) Error() string {
	return fmt.Sprintf("browser session: %v", e.Err)
}

// Unwrap exposes the underlying launch failure.
func (e SessionError) Unwrap() error { return e.Err }

// Session wraps one running browser. All page contexts created from it share
// the process but are otherwise isolated tabs.
type Session struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
}

// Launch starts the browser. A failed launch triggers exactly one
// remediation attempt, retrying with an explicitly located browser binary,
// before giving up with a SessionError.
func Launch(ctx context.Context, headless bool) (*Session, error) {
	s, err := launch(ctx, headless, "")
	if err == nil {
		return s, nil
	}

	if path := findFallbackBrowser(); path != "" {
		if s, retryErr := launch(ctx, headless, path); retryErr == nil {
			return s, nil
		}
	}
	return nil, SessionError{Err: err}
}

func launch(ctx context.Context, headless bool, execPath string) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Startup probe: surfaces a missing or broken binary immediately.
	probeCtx, probeCancel := context.WithTimeout(browserCtx, 30*time.Second)
	defer probeCancel()
	if err := chromedp.Run(probeCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Session{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{browserCancel, allocCancel},
	}, nil
}

// NewPage opens an isolated tab with request blocking enabled and a deadline
// applied. The returned cancel must be called on every exit path.
func (s *Session) NewPage(timeout time.Duration) (context.Context, context.CancelFunc, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	timedCtx, timedCancel := context.WithTimeout(tabCtx, timeout)
	cancel := func() {
		timedCancel()
		tabCancel()
	}

	err := chromedp.Run(timedCtx,
		network.Enable(),
		network.SetBlockedURLS(blockedURLPatterns),
	)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("configure page context: %w", err)
	}
	return timedCtx, cancel, nil
}

// Close tears down the browser and its allocator.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

func findFallbackBrowser() string {
	if path := os.Getenv("CHROME_PATH"); path != "" {
		return path
	}
	for _, name := range fallbackBrowsers {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
