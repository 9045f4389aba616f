package telegram

import (
	"civiceye/backend/internal/localization"
	"civiceye/backend/internal/models"
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts complaint events to an admin Telegram chat.
type Notifier struct {
	Bot       Sender
	ChatID    int64
	Localizer *localization.Localizer
	Language  string
}

// NewNotifier connects to the Bot API with token.
func NewNotifier(token string, chatID int64, loc *localization.Localizer, lang string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	log.Printf("INFO: Telegram notifier authorized as %s", bot.Self.UserName)
	return &Notifier{Bot: bot, ChatID: chatID, Localizer: loc, Language: lang}, nil
}

// ComplaintFiled announces a newly filed complaint.
func (n *Notifier) ComplaintFiled(_ context.Context, c *models.Complaint) error {
	attached := n.Localizer.GetString(n.Language, "no")
	if c.Proof != nil {
		attached = n.Localizer.GetString(n.Language, "yes")
	}
	text := n.Localizer.Format(n.Language, "complaint_filed", c.Type, c.ID, c.UserID, attached)
	return n.send(text)
}

// StatusChanged announces a status transition.
func (n *Notifier) StatusChanged(_ context.Context, c *models.Complaint, previous models.Status) error {
	text := n.Localizer.Format(n.Language, "status_changed", c.ID, c.Type, previous, c.Status)
	return n.send(text)
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.ChatID, text)
	if _, err := n.Bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
