package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"emaktab-snapshot/internal/account"
	pkgLog "emaktab-snapshot/pkg/log"
)

const instrumentationName = "emaktab-snapshot/internal/capture"

type pipeline struct {
	driver Driver
	ready  ReadyStrategy
	opts   Options
	l      pkgLog.Logger

	tracer   trace.Tracer
	outcomes metric.Int64Counter
	duration metric.Float64Histogram
}

// New returns the Capturer that drives one browser per account through
// login and screenshot. Traces and metrics go to the global OTel providers.
func New(driver Driver, ready ReadyStrategy, opts Options, l pkgLog.Logger) (Capturer, error) {
	if driver == nil {
		return nil, errors.New("capture: driver is required")
	}
	if ready == nil {
		ready = FixedDelay{}
	}

	meter := otel.Meter(instrumentationName)
	outcomes, err := meter.Int64Counter("capture_outcomes_total",
		metric.WithDescription("Dashboard captures by result"))
	if err != nil {
		return nil, fmt.Errorf("capture: create counter: %w", err)
	}
	duration, err := meter.Float64Histogram("capture_duration_seconds",
		metric.WithDescription("Wall time of one dashboard capture"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("capture: create histogram: %w", err)
	}

	return &pipeline{
		driver:   driver,
		ready:    ready,
		opts:     opts,
		l:        l,
		tracer:   otel.Tracer(instrumentationName),
		outcomes: outcomes,
		duration: duration,
	}, nil
}

// Capture never panics: errors and panics from the driver become Outcome.Err.
func (p *pipeline) Capture(ctx context.Context, acc account.Account) (out Outcome) {
	ctx, span := p.tracer.Start(ctx, "capture_dashboard", trace.WithAttributes(
		attribute.String("account.name", acc.Name),
		attribute.String("account.login", acc.Login),
		attribute.String("capture.driver", p.driver.Name()),
	))
	start := time.Now()
	out = Outcome{Account: acc}

	defer func() {
		if r := recover(); r != nil {
			out.Image = nil
			out.Err = fmt.Errorf("%w: panic: %v", ErrAutomationFailure, r)
		}
		out.Duration = time.Since(start)

		result := "success"
		if out.Failed() {
			result = "failure"
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Err.Error())
			p.l.Errorf(ctx, "capture failed for %s (%s): %v", acc.Name, acc.Login, out.Err)
		} else {
			p.l.Infof(ctx, "captured %s (%s): %d bytes in %s", acc.Name, acc.Login, len(out.Image), out.Duration)
		}
		attrs := metric.WithAttributes(attribute.String("result", result))
		p.outcomes.Add(ctx, 1, attrs)
		p.duration.Record(ctx, out.Duration.Seconds(), attrs)
		span.End()
	}()

	img, err := p.run(ctx, acc)
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrAutomationFailure, err)
		return out
	}
	out.Image = img
	return out
}

// run performs the login steps. The browser is closed on every return,
// including panics unwinding through it.
func (p *pipeline) run(ctx context.Context, acc account.Account) ([]byte, error) {
	b, err := p.driver.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			p.l.Warnf(ctx, "capture: close browser for %s: %v", acc.Login, cerr)
		}
	}()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"navigate", func() error { return b.Goto(ctx, p.opts.LoginURL) }},
		{"fill login", func() error { return b.Fill(ctx, p.opts.LoginSelector, acc.Login) }},
		{"fill password", func() error { return b.Fill(ctx, p.opts.PasswordSelector, acc.Password) }},
		{"submit", func() error { return b.Submit(ctx, p.opts.SubmitSelector, p.opts.SubmitLabel) }},
		{"wait ready", func() error { return p.ready.Wait(ctx, b) }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	img, err := b.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	if len(img) == 0 {
		return nil, errEmptyScreenshot
	}
	return img, nil
}
