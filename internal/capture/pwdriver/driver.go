// Package pwdriver drives headless Chromium through playwright-go.
package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"emaktab-snapshot/internal/capture"
	pkgLog "emaktab-snapshot/pkg/log"
)

// Config controls the browsers the driver launches.
type Config struct {
	InstallBrowsers   bool
	NavigationTimeout time.Duration
	ViewportWidth     int
	ViewportHeight    int
}

// Driver owns one Playwright server process. Every Launch starts a fresh
// Chromium with an empty context, so no cookies carry over between accounts.
type Driver struct {
	cfg Config
	l   pkgLog.Logger

	mu sync.Mutex
	pw *playwright.Playwright
}

// New starts the Playwright driver, installing Chromium first when asked.
func New(ctx context.Context, cfg Config, l pkgLog.Logger) (*Driver, error) {
	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if cfg.InstallBrowsers {
		l.Infof(ctx, "capture/playwright: installing chromium")
		if err := playwright.Install(opts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	return &Driver{cfg: cfg, l: l, pw: pw}, nil
}

func (d *Driver) Name() string { return "playwright" }

// Launch starts a headless Chromium with a single page.
func (d *Driver) Launch(ctx context.Context) (capture.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	pw := d.pw
	d.mu.Unlock()
	if pw == nil {
		return nil, errors.New("playwright driver is shut down")
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args:     []string{"--no-sandbox", "--disable-setuid-sandbox"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  d.cfg.ViewportWidth,
			Height: d.cfg.ViewportHeight,
		},
	})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if d.cfg.NavigationTimeout > 0 {
		page.SetDefaultTimeout(float64(d.cfg.NavigationTimeout.Milliseconds()))
	}

	return &session{browser: browser, context: bctx, page: page}, nil
}

// Shutdown stops the Playwright server. Launch fails afterwards.
func (d *Driver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pw == nil {
		return nil
	}
	err := d.pw.Stop()
	d.pw = nil
	return err
}

type session struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

func (s *session) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (s *session) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.page.Fill(selector, value); err != nil {
		return fmt.Errorf("fill %s failed: %w", selector, err)
	}
	return nil
}

// Submit clicks the first element matching selector, or a button labelled label.
func (s *session) Submit(ctx context.Context, selector, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := selector
	if label != "" {
		target = fmt.Sprintf("%s, button:has-text(%q)", selector, label)
	}
	if err := s.page.Locator(target).First().Click(); err != nil {
		return fmt.Errorf("click submit failed: %w", err)
	}
	return nil
}

func (s *session) WaitVisible(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State: playwright.WaitForSelectorStateVisible,
	})
	if err != nil {
		return fmt.Errorf("wait for %s failed: %w", selector, err)
	}
	return nil
}

func (s *session) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return img, nil
}

func (s *session) Close() error {
	return errors.Join(
		s.page.Close(),
		s.context.Close(),
		s.browser.Close(),
	)
}
