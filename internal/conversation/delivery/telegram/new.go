package telegram

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"emaktab-snapshot/internal/conversation"
	"emaktab-snapshot/internal/snapshot"
	pkgLog "emaktab-snapshot/pkg/log"
	pkgTelegram "emaktab-snapshot/pkg/telegram"
)

// Handler receives Telegram updates over a webhook or long polling and feeds
// them, one at a time, into the conversation.
type Handler interface {
	HandleWebhook(c *gin.Context)
	// Run drains queued updates until ctx is done. Exactly one Run may be active.
	Run(ctx context.Context)
	// Poll fetches updates with getUpdates until ctx is done.
	Poll(ctx context.Context) error
}

// Bot is the subset of the Bot API client the handler talks to.
type Bot interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, kb *pkgTelegram.ReplyKeyboardMarkup) error
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]pkgTelegram.Update, error)
}

// Config tunes transport behaviour.
type Config struct {
	WebhookSecret   string
	AllowedIPs      []string
	RateLimitPerMin int
	PollTimeout     time.Duration
	QueueSize       int
}

type handler struct {
	l        pkgLog.Logger
	bot      Bot
	conv     conversation.UseCase
	runner   snapshot.UseCase
	security *SecurityValidator
	cfg      Config

	queue chan pkgTelegram.Update
	// runs holds a token while a /run batch is in flight.
	runs chan struct{}
}

// New creates a new Telegram delivery handler.
func New(
	l pkgLog.Logger,
	bot Bot,
	conv conversation.UseCase,
	runner snapshot.UseCase,
	cfg Config,
) Handler {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	return &handler{
		l:      l,
		bot:    bot,
		conv:   conv,
		runner: runner,
		security: NewSecurityValidator(SecurityConfig{
			Secret:          cfg.WebhookSecret,
			AllowedIPs:      cfg.AllowedIPs,
			RateLimitPerMin: cfg.RateLimitPerMin,
		}),
		cfg:   cfg,
		queue: make(chan pkgTelegram.Update, cfg.QueueSize),
		runs:  make(chan struct{}, 1),
	}
}

func mainKeyboard() *pkgTelegram.ReplyKeyboardMarkup {
	return pkgTelegram.NewReplyKeyboard(
		[]string{conversation.ButtonAdd, conversation.ButtonDelete},
		[]string{conversation.ButtonList, conversation.ButtonRun},
	)
}
