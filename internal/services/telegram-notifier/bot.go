package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	config "github.com/NordCoder/ResultWatch/internal/config/monitor"
)

const component = "telegram-notifier.bot"

var errBadChat = errors.New("telegram: chat id must be numeric or an @channel name")

// Bot sends messages and documents to a single Telegram chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	client tgbotapi.HTTPClient

	chatID   int64
	channel  string
	endpoint string

	log *zap.Logger
}

func New(cfg config.Telegram) (*Bot, error) {
	return NewWithClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithClient authenticates against the Bot API with getMe, so a bad token
// fails here rather than on the first message.
func NewWithClient(cfg config.Telegram, client tgbotapi.HTTPClient) (*Bot, error) {
	chatID, channel, err := parseChat(cfg.ChatID)
	if err != nil {
		return nil, err
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", err)
	}

	return &Bot{
		api:      api,
		client:   client,
		chatID:   chatID,
		channel:  channel,
		endpoint: endpoint,
		log:      zap.L().With(zap.String("component", component)),
	}, nil
}

func (b *Bot) WithLogger(l *zap.Logger) *Bot {
	if l == nil {
		return b
	}
	cp := *b
	cp.log = l.With(zap.String("component", component))
	return &cp
}

// Username is the bot account the token belongs to.
func (b *Bot) Username() string { return b.api.Self.UserName }

func (b *Bot) Notify(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ChannelUsername = b.channel
	return b.send(ctx, "sendMessage", msg)
}

func (b *Bot) SendFile(ctx context.Context, data []byte, filename string) error {
	doc := tgbotapi.NewDocument(b.chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.ChannelUsername = b.channel
	return b.send(ctx, "sendDocument", doc)
}

func (b *Bot) send(ctx context.Context, method string, c tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	// BotAPI builds requests without a context; a per-call copy carries ours.
	api := *b.api
	api.Client = ctxClient{ctx: ctx, base: b.client}
	if _, err := api.Send(c); err != nil {
		b.log.Debug("telegram call failed", zap.String("method", method), zap.Error(err))
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	b.log.Debug("telegram call ok", zap.String("method", method), zap.Duration("elapsed", time.Since(start)))
	return nil
}

type ctxClient struct {
	ctx  context.Context
	base tgbotapi.HTTPClient
}

func (c ctxClient) Do(req *http.Request) (*http.Response, error) {
	return c.base.Do(req.WithContext(c.ctx))
}

func parseChat(raw string) (int64, string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") && len(raw) > 1 {
		return 0, raw, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, "", fmt.Errorf("%w: %q", errBadChat, raw)
	}
	return id, "", nil
}
