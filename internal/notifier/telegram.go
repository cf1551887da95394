package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Sender delivers a formatted message to the configured chat.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier sends messages and serves commands via the Telegram Bot API.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID string
	logger zerolog.Logger

	mu      sync.RWMutex
	handler CommandHandler
}

// NewTelegramNotifier creates a notifier with optional proxy support. Extra options are
// passed to the bot client.
func NewTelegramNotifier(botToken, chatID, proxyURL string, logger zerolog.Logger, opts ...bot.Option) (*TelegramNotifier, error) {
	t := &TelegramNotifier{
		chatID: chatID,
		logger: logger.With().Str("component", "telegram").Logger(),
	}

	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	options := []bot.Option{
		bot.WithHTTPClient(pollTimeout, &http.Client{Timeout: pollTimeout + 30*time.Second, Transport: transport}),
		bot.WithDefaultHandler(t.onUpdate),
	}
	b, err := bot.New(botToken, append(options, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	t.bot = b
	return t, nil
}

const pollTimeout = 30 * time.Second

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.sendTo(ctx, t.chatID, text)
}

func (t *TelegramNotifier) sendTo(ctx context.Context, chatID any, text string) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	return sendWithRetry(ctx, t, text, maxRetries, time.Second, t.logger)
}

func sendWithRetry(ctx context.Context, s Sender, text string, maxRetries int, base time.Duration, logger zerolog.Logger) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := s.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := base << uint(i)
		logger.Warn().Err(err).Int("attempt", i+1).Int("of", maxRetries+1).Dur("backoff", backoff).
			Msg("telegram send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
