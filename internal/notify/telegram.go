package notify

// Optional Telegram delivery of rendered charts. The run never fails on a
// notification error; artifacts on disk are the deliverable, the message is
// a convenience.

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends chart images to one Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New returns a Notifier, or (nil, nil) when token or chatID is empty: an
// unconfigured notifier is not an error.
func New(token, chatID string) (*Notifier, error) {
	if token == "" || chatID == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: id}, nil
}

// SendChart uploads the chart at path as a photo with a caption.
func (n *Notifier) SendChart(path, caption string) error {
	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	if _, err := n.bot.Send(photo); err != nil {
		return fmt.Errorf("failed to send chart %s: %w", path, err)
	}
	return nil
}
