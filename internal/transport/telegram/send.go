package telegram

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// reply sends an HTML message to the chat and schedules its deletion.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	b.scheduleDelete(chatID, sent.MessageID)
}

// replyPrivate sends an HTML message without scheduling deletion, used for
// the roster list forwarded to the admin's private chat.
func (b *Bot) replyPrivate(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

// sendProgress sends a plain progress message and returns its id for a later
// edit. Returns 0 when sending failed.
func (b *Bot) sendProgress(chatID int64, text string) int {
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		b.logger.Error("send progress message failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return 0
	}
	return sent.MessageID
}

// edit replaces the progress message body and schedules deletion.
func (b *Bot) edit(chatID int64, messageID int, text, parseMode string) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = parseMode
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("edit message failed",
			zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
	}
	b.scheduleDelete(chatID, messageID)
}

// scheduleDelete removes the message after the configured TTL.
func (b *Bot) scheduleDelete(chatID int64, messageID int) {
	if b.messageTTL <= 0 {
		return
	}
	time.AfterFunc(b.messageTTL, func() {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
			b.logger.Debug("delete message failed",
				zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
		}
	})
}

// Broadcast sends an HTML message to every registered group chat, used by
// the daily scheduled check.
func (b *Bot) Broadcast(chatIDs []int64, text string) {
	for _, id := range chatIDs {
		b.reply(id, text)
	}
}
