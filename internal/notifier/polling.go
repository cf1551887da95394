package notifier

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// CommandHandler is called when a user command is received and returns the reply text.
type CommandHandler func(ctx context.Context, command string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// Only messages from the configured chat are answered.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	t.mu.Lock()
	t.handler = handler
	t.mu.Unlock()

	t.logger.Info().Msg("telegram polling started")
	t.bot.Start(ctx)
	t.logger.Info().Msg("telegram polling stopped")
}

func (t *TelegramNotifier) onUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	reply, chatID, ok := t.dispatch(ctx, update)
	if !ok || reply == "" {
		return
	}
	if err := t.sendTo(ctx, chatID, reply); err != nil {
		t.logger.Error().Err(err).Msg("send reply failed")
	}
}

// dispatch routes a message update from the configured chat to the command handler.
func (t *TelegramNotifier) dispatch(ctx context.Context, update *models.Update) (string, int64, bool) {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return "", 0, false
	}
	msg := update.Message
	if !t.allowedChat(msg.Chat) {
		t.logger.Warn().Int64("chat_id", msg.Chat.ID).Msg("ignoring message from unknown chat")
		return "", 0, false
	}

	t.mu.RLock()
	handler := t.handler
	t.mu.RUnlock()
	if handler == nil {
		return "", 0, false
	}

	text := strings.TrimSpace(msg.Text)
	t.logger.Info().Str("command", text).Msg("received command")
	return handler(ctx, text), msg.Chat.ID, true
}

func (t *TelegramNotifier) allowedChat(chat models.Chat) bool {
	if t.chatID == "" {
		return true
	}
	if strings.HasPrefix(t.chatID, "@") {
		return strings.EqualFold(strings.TrimPrefix(t.chatID, "@"), chat.Username)
	}
	return t.chatID == formatChatID(chat.ID)
}

func formatChatID(id int64) string { return strconv.FormatInt(id, 10) }
