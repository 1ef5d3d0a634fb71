package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"emaktab-snapshot/config"
	_ "emaktab-snapshot/docs" // Swagger docs
	accountUseCase "emaktab-snapshot/internal/account/usecase"
	"emaktab-snapshot/internal/capture"
	"emaktab-snapshot/internal/conversation"
	tgDelivery "emaktab-snapshot/internal/conversation/delivery/telegram"
	convUseCase "emaktab-snapshot/internal/conversation/usecase"
	"emaktab-snapshot/internal/httpserver"
	"emaktab-snapshot/internal/scheduler"
	"emaktab-snapshot/internal/snapshot"
	snapshotUseCase "emaktab-snapshot/internal/snapshot/usecase"
	"emaktab-snapshot/pkg/log"
	"emaktab-snapshot/pkg/telegram"
	"emaktab-snapshot/pkg/telemetry"
)

// @title       eMaktab Snapshot Bot API
// @description Health probes and the Telegram webhook of the daily eMaktab screenshot bot.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
		FilePath:     cfg.Logger.FilePath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "Bot stopped with error: ", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Bot stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	logger.Info(ctx, "Starting eMaktab snapshot bot...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Telemetry
	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Dir:            cfg.Telemetry.Dir,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: httpserver.HealthVersion,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warnf(ctx, "Telemetry shutdown: %v", err)
		}
	}()

	// 4. Credential store
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()
	accountUC := accountUseCase.New(store.repo, logger)

	// 5. Capture pipeline
	driver, err := openCaptureDriver(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer driver.close()

	capturer, err := capture.New(
		driver.driver,
		capture.NewReadyStrategy(cfg.Capture.ReadySelector, cfg.Capture.SettleDelay),
		capture.Options{
			LoginURL:         cfg.Capture.LoginURL,
			LoginSelector:    cfg.Capture.LoginSelector,
			PasswordSelector: cfg.Capture.PasswordSelector,
			SubmitSelector:   cfg.Capture.SubmitSelector,
			SubmitLabel:      cfg.Capture.SubmitLabel,
		},
		logger,
	)
	if err != nil {
		return fmt.Errorf("init capture pipeline: %w", err)
	}

	// 6. Telegram + batch runner
	bot := telegram.NewBot(cfg.Telegram.BotToken)
	runner := snapshotUseCase.New(accountUC, capturer, bot, cfg.Operators.IDs, logger)

	// 7. Scheduler
	sched, err := scheduler.New(scheduler.Config{
		Spec:     cfg.Schedule.Cron,
		Timezone: cfg.Schedule.Timezone,
	}, dailyJob(runner), logger)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	sched.Start()
	logger.Infof(ctx, "Daily snapshot scheduled (%s %s), next run at %s",
		cfg.Schedule.Cron, cfg.Schedule.Timezone, sched.Next().Format(time.RFC3339))
	defer func() {
		<-sched.Stop().Done()
		logger.Info(ctx, "Scheduler stopped")
	}()

	// 8. Conversation
	sessions := conversation.NewSessionStore(cfg.Session.Capacity, cfg.Session.TTL)
	convUC := convUseCase.New(accountUC, sessions, cfg.Operators.IDs, logger)
	telegramHandler := tgDelivery.New(logger, bot, convUC, runner, tgDelivery.Config{
		WebhookSecret:   cfg.Telegram.WebhookSecret,
		AllowedIPs:      cfg.Telegram.AllowedIPs,
		RateLimitPerMin: cfg.Telegram.RateLimitPerMin,
		PollTimeout:     cfg.Telegram.PollTimeout,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		telegramHandler.Run(ctx)
	}()
	defer wg.Wait()

	// 9. Update source
	httpCfg := httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		ReadyCheck:  store.ping,
	}

	switch cfg.Telegram.Mode {
	case config.TelegramModeWebhook:
		httpCfg.TelegramHandler = telegramHandler
		registerWebhook(ctx, cfg, bot, logger)
	default:
		if err := bot.DeleteWebhook(ctx); err != nil {
			logger.Warnf(ctx, "Failed to delete Telegram webhook: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := telegramHandler.Poll(ctx); err != nil {
				logger.Errorf(ctx, "Telegram poller stopped: %v", err)
			}
		}()
	}

	// 10. HTTP Server
	httpServer, err := httpserver.New(logger, httpCfg)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}
	return httpServer.Run(ctx)
}

// dailyJob runs the batch on a tick. A batch already started by /run makes
// the tick a skip rather than a failure.
func dailyJob(runner snapshot.UseCase) scheduler.Job {
	return func(ctx context.Context) error {
		_, err := runner.RunAll(ctx)
		if errors.Is(err, snapshot.ErrRunInProgress) {
			return fmt.Errorf("%w: %w", scheduler.ErrSkipped, err)
		}
		return err
	}
}

// registerWebhook points Telegram at this process: the configured URL, or the
// ngrok tunnel when none is set.
func registerWebhook(ctx context.Context, cfg *config.Config, bot *telegram.Bot, logger log.Logger) {
	webhookURL := cfg.Telegram.WebhookURL
	if webhookURL == "" {
		ngrokURL, err := detectNgrokURL(ctx, cfg.Telegram.NgrokAPIURL)
		if err != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", err)
			return
		}
		webhookURL = ngrokURL + "/webhook/telegram"
		logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
	}

	if err := bot.SetWebhook(ctx, webhookURL, cfg.Telegram.WebhookSecret); err != nil {
		logger.Warnf(ctx, "Failed to set Telegram webhook: %v", err)
		return
	}
	logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
}
