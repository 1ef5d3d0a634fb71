package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"emaktab-snapshot/internal/conversation"
	"emaktab-snapshot/internal/snapshot"
	pkgLog "emaktab-snapshot/pkg/log"
	pkgResponse "emaktab-snapshot/pkg/response"
	pkgTelegram "emaktab-snapshot/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It only validates and queues the update; Run processes it.
//
// @Summary Telegram webhook
// @Description Receives Bot API updates. Requires the X-Telegram-Bot-Api-Secret-Token header when a secret is configured.
// @Tags telegram
// @Accept json
// @Produce json
// @Param update body pkgTelegram.Update true "Telegram update"
// @Success 200 {object} pkgResponse.Resp
// @Failure 400 {object} pkgResponse.Resp
// @Failure 401 {object} pkgResponse.Resp
// @Failure 403 {object} pkgResponse.Resp
// @Failure 503 {object} pkgResponse.Resp
// @Router /webhook/telegram [post]
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateSecretToken(c.GetHeader(pkgTelegram.SecretTokenHeader)); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}
	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "telegram handler: %v", err)
		pkgResponse.Forbidden(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates (edited messages, callbacks, etc.)
	if update.Message == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	if err := h.enqueue(update); err != nil {
		h.l.Errorf(ctx, "telegram handler: update %d dropped: %v", update.UpdateID, err)
		pkgResponse.ServiceUnavailable(c, err)
		return
	}

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

func (h *handler) enqueue(update pkgTelegram.Update) error {
	select {
	case h.queue <- update:
		return nil
	default:
		return errQueueFull
	}
}

// Run processes queued updates in arrival order. Only one message is ever
// being handled at a time, so a sender's session never sees concurrent writes.
func (h *handler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-h.queue:
			h.process(ctx, update)
		}
	}
}

func (h *handler) process(ctx context.Context, update pkgTelegram.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	ctx = pkgLog.WithFields(ctx,
		pkgLog.Field{Key: "update_id", Value: update.UpdateID},
		pkgLog.Field{Key: "chat_id", Value: msg.Chat.ID},
	)

	// Operators are trusted; a dropped step would strand their flow.
	if !h.conv.IsOperator(msg.From.ID) {
		if err := h.security.CheckRateLimit(msg.From.ID); err != nil {
			h.l.Warnf(ctx, "telegram handler: %v", err)
			return
		}
	}

	defer func() {
		if r := recover(); r != nil {
			h.l.Errorf(ctx, "telegram handler: panic while processing update: %v", r)
		}
	}()

	if err := h.processMessage(ctx, msg); err != nil {
		h.l.Errorf(ctx, "telegram handler: processMessage failed: %v", err)
	}
}

// processMessage feeds text to a flow in progress first, so a name or
// password that looks like a command is still taken as input. Only /cancel
// interrupts a flow. Without a flow, commands and menu buttons are routed.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	text := strings.TrimSpace(msg.Text)
	senderID := msg.From.ID
	chatID := msg.Chat.ID
	cmd := command(text)

	// Free text keeps its surrounding whitespace; the flow decides what to trim.
	if msg.Text != "" && cmd != "/cancel" {
		reply, handled, err := h.conv.Advance(ctx, senderID, msg.Text)
		if handled {
			return h.reply(ctx, chatID, reply, err)
		}
		if err != nil {
			return err
		}
	}

	switch cmd {
	case "/start":
		return h.bot.SendMessageWithKeyboard(ctx, chatID, conversation.MsgWelcome, mainKeyboard())

	case "/help":
		return h.bot.SendMessageWithKeyboard(ctx, chatID, conversation.MsgHelp, mainKeyboard())

	case "/add", conversation.ButtonAdd:
		reply, err := h.conv.StartAdd(ctx, senderID)
		return h.reply(ctx, chatID, reply, err)

	case "/delete", conversation.ButtonDelete:
		reply, err := h.conv.StartDelete(ctx, senderID)
		return h.reply(ctx, chatID, reply, err)

	case "/list", conversation.ButtonList:
		reply, err := h.conv.List(ctx, senderID)
		return h.reply(ctx, chatID, reply, err)

	case "/cancel":
		if !h.conv.IsOperator(senderID) {
			return nil
		}
		reply, _ := h.conv.Cancel(ctx, senderID)
		return h.reply(ctx, chatID, reply, nil)

	case "/run", conversation.ButtonRun:
		return h.runNow(ctx, senderID, chatID)
	}

	return nil
}

// reply sends the conversation's answer. Usecase errors were already logged
// there and still carry a user-facing reply.
func (h *handler) reply(ctx context.Context, chatID int64, reply conversation.Reply, err error) error {
	if err != nil && !errors.Is(err, conversation.ErrNotAuthorized) {
		h.l.Warnf(ctx, "telegram handler: conversation error: %v", err)
	}
	if reply.Text == "" {
		return nil
	}
	if reply.ShowMenu {
		return h.bot.SendMessageWithKeyboard(ctx, chatID, reply.Text, mainKeyboard())
	}
	return h.bot.SendMessage(ctx, chatID, reply.Text)
}

// runNow starts a batch in the background so the dispatcher keeps serving.
func (h *handler) runNow(ctx context.Context, senderID, chatID int64) error {
	if !h.conv.IsOperator(senderID) {
		return h.bot.SendMessage(ctx, chatID, conversation.MsgNotAuthorized)
	}
	if h.runner == nil {
		return h.bot.SendMessage(ctx, chatID, conversation.MsgRunFailed)
	}

	select {
	case h.runs <- struct{}{}:
	default:
		return h.bot.SendMessage(ctx, chatID, conversation.MsgRunInProgress)
	}

	if err := h.bot.SendMessage(ctx, chatID, conversation.MsgRunStarted); err != nil {
		h.l.Warnf(ctx, "telegram handler: failed to send ack message: %v", err)
	}

	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer func() { <-h.runs }()

		report, err := h.runner.RunAll(runCtx)
		var text string
		switch {
		case errors.Is(err, snapshot.ErrRunInProgress):
			text = conversation.MsgRunInProgress
		case err != nil:
			h.l.Errorf(runCtx, "telegram handler: on-demand run failed: %v", err)
			text = conversation.MsgRunFailed
		default:
			text = fmt.Sprintf(conversation.MsgRunFinished, report.Succeeded, report.Failed)
		}
		if err := h.bot.SendMessageWithKeyboard(runCtx, chatID, text, mainKeyboard()); err != nil {
			h.l.Warnf(runCtx, "telegram handler: failed to report run: %v", err)
		}
	}()
	return nil
}

// command strips a "@botname" suffix so "/add@my_bot" routes like "/add".
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return text
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd
}
