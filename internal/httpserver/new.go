package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"emaktab-snapshot/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Telegram webhook; nil when the bot long-polls.
	telegramHandler TelegramHandler

	// readiness probe, e.g. a store ping
	readyCheck func(ctx context.Context) error
}

// TelegramHandler receives Bot API webhook calls.
type TelegramHandler interface {
	HandleWebhook(c *gin.Context)
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	TelegramHandler TelegramHandler
	ReadyCheck      func(ctx context.Context) error
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		telegramHandler: cfg.TelegramHandler,
		readyCheck:      cfg.ReadyCheck,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
