// Package roddriver drives headless Chromium through go-rod, an alternative to
// Playwright that needs no Node.js server process.
package roddriver

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"emaktab-snapshot/internal/capture"
	pkgLog "emaktab-snapshot/pkg/log"
)

// Config controls the browsers the driver launches.
type Config struct {
	// Bin is the Chromium binary. Empty lets rod find or download one.
	Bin               string
	NavigationTimeout time.Duration
	ViewportWidth     int
	ViewportHeight    int
}

// Driver launches one Chromium process per capture.
type Driver struct {
	cfg Config
	l   pkgLog.Logger
}

// New returns a Driver. Nothing is started until Launch.
func New(cfg Config, l pkgLog.Logger) *Driver {
	return &Driver{cfg: cfg, l: l}
}

func (d *Driver) Name() string { return "rod" }

// Launch starts a dedicated Chromium process so that each account gets a
// clean profile directory.
func (d *Driver) Launch(ctx context.Context) (capture.Browser, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Context(ctx)
	if d.cfg.Bin != "" {
		l = l.Bin(d.cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	s := &session{launcher: l, browser: browser, timeout: d.cfg.NavigationTimeout}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	s.page = page

	if d.cfg.ViewportWidth > 0 && d.cfg.ViewportHeight > 0 {
		if err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             d.cfg.ViewportWidth,
			Height:            d.cfg.ViewportHeight,
			DeviceScaleFactor: 1.0,
		}).Call(page); err != nil {
			d.l.Warnf(ctx, "capture/rod: set viewport: %v", err)
		}
	}

	return s, nil
}

type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
}

// p scopes the page to ctx and the navigation timeout. Callers must call
// the returned release when the step is done.
func (s *session) p(ctx context.Context) (*rod.Page, func()) {
	page := s.page.Context(ctx)
	if s.timeout <= 0 {
		return page, func() {}
	}
	page = page.Timeout(s.timeout)
	return page, func() { page.CancelTimeout() }
}

func (s *session) Goto(ctx context.Context, url string) error {
	page, release := s.p(ctx)
	defer release()
	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	wait()
	return nil
}

func (s *session) Fill(ctx context.Context, selector, value string) error {
	page, release := s.p(ctx)
	defer release()
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("element %s not found: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %s failed: %w", selector, err)
	}
	return nil
}

// Submit clicks the element matching selector, or a button whose text is label.
func (s *session) Submit(ctx context.Context, selector, label string) error {
	page, release := s.p(ctx)
	defer release()

	has, el, err := page.Has(selector)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", selector, err)
	}
	if !has {
		if label == "" {
			return fmt.Errorf("submit element %s not found", selector)
		}
		el, err = page.ElementR("button", regexp.QuoteMeta(label))
		if err != nil {
			return fmt.Errorf("submit button %q not found: %w", label, err)
		}
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click submit failed: %w", err)
	}
	return nil
}

func (s *session) WaitVisible(ctx context.Context, selector string) error {
	page, release := s.p(ctx)
	defer release()
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("wait for %s failed: %w", selector, err)
	}
	return el.WaitVisible()
}

func (s *session) Screenshot(ctx context.Context) ([]byte, error) {
	page, release := s.p(ctx)
	defer release()
	img, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return img, nil
}

func (s *session) Close() error {
	var errs []error
	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
	return errors.Join(errs...)
}
