package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
// Requests are bounded by the caller's context; long polling relies on that.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("https://api.telegram.org/bot%s", token),
		httpClient: &http.Client{},
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetWebhook registers the webhook URL with Telegram. Telegram echoes secret
// back in SecretTokenHeader on every delivery.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	req := SetWebhookRequest{
		URL:            webhookURL,
		SecretToken:    secret,
		AllowedUpdates: []string{"message"},
	}
	if err := b.call(ctx, "setWebhook", req, nil); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes the webhook so that getUpdates can be used.
func (b *Bot) DeleteWebhook(ctx context.Context) error {
	if err := b.call(ctx, "deleteWebhook", map[string]bool{"drop_pending_updates": false}, nil); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

// GetUpdates long-polls for new updates starting at offset.
func (b *Bot) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	req := GetUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout.Seconds()),
		AllowedUpdates: []string{"message"},
	}
	var updates []Update
	if err := b.call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}
	return updates, nil
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.sendMessage(ctx, SendMessageRequest{ChatID: chatID, Text: text})
}

// SendMessageWithKeyboard sends a message and shows kb under the input field.
func (b *Bot) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, kb *ReplyKeyboardMarkup) error {
	return b.sendMessage(ctx, SendMessageRequest{ChatID: chatID, Text: text, ReplyMarkup: kb})
}

func (b *Bot) sendMessage(ctx context.Context, req SendMessageRequest) error {
	if err := b.call(ctx, "sendMessage", req, nil); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendPhoto uploads a PNG image to a chat with an optional caption.
func (b *Bot) SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("failed to write chat_id: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("failed to write caption: %w", err)
		}
	}
	part, err := w.CreateFormFile("photo", "screenshot.png")
	if err != nil {
		return fmt.Errorf("failed to create photo part: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return fmt.Errorf("failed to write photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	if err := b.do(ctx, "sendPhoto", w.FormDataContentType(), &body, nil); err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}

func (b *Bot) call(ctx context.Context, method string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}
	return b.do(ctx, method, "application/json", bytes.NewReader(body), result)
}

// do posts to the Bot API and decodes the "result" field into result when set.
func (b *Bot) do(ctx context.Context, method, contentType string, body io.Reader, result any) error {
	url := fmt.Sprintf("%s/%s", b.apiURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var apiResp struct {
		APIResponse
		Result json.RawMessage `json:"result,omitempty"`
	}
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return fmt.Errorf("telegram %s API error %d: %s", method, resp.StatusCode, string(raw))
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s failed: %s", method, apiResp.Description)
	}
	if result != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}
