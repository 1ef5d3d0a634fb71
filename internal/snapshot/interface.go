package snapshot

import "context"

// UseCase runs the capture batch over every stored account.
type UseCase interface {
	RunAll(ctx context.Context) (Report, error)
}

// Notifier delivers batch results to an operator chat.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, png []byte, caption string) error
}
