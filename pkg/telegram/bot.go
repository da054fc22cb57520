package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/artem13815/hrbot/pkg/logger"
)

// MaxDownloadSize is the Bot API limit for getFile.
const MaxDownloadSize = 20 << 20

var ErrFileTooLarge = fmt.Errorf("file exceeds %d bytes", MaxDownloadSize)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// Bot sends replies and fetches attachments through the Telegram Bot API.
type Bot struct {
	api     botAPI
	client  *http.Client
	log     *zap.Logger
	maxSize int64
}

// New authorises the token with getMe.
func New(token string, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot api: %w", err)
	}
	log = logger.OrNop(log).Named("telegram")
	log.Info("authorized", zap.String("username", api.Self.UserName))
	return newBot(api, log), nil
}

func newBot(api botAPI, log *zap.Logger) *Bot {
	return &Bot{
		api:     api,
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     logger.OrNop(log),
		maxSize: MaxDownloadSize,
	}
}

func (b *Bot) SendText(_ context.Context, chatID int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (b *Bot) SendDocument(_ context.Context, chatID int64, name, caption string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// Download saves the file to a new temp file named with suffix and returns its path.
// Files over the size limit fail with ErrFileTooLarge and leave nothing behind.
func (b *Bot) Download(ctx context.Context, fileID, suffix string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("get file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download file: http %d", resp.StatusCode)
	}
	if resp.ContentLength > b.maxSize {
		return "", ErrFileTooLarge
	}

	f, err := os.CreateTemp("", "hrbot-*"+suffix)
	if err != nil {
		return "", err
	}
	n, copyErr := io.Copy(f, io.LimitReader(resp.Body, b.maxSize+1))
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if n > b.maxSize {
		_ = os.Remove(f.Name())
		return "", ErrFileTooLarge
	}
	return f.Name(), nil
}

// SetWebhook registers url with Telegram. A non-empty secret is echoed back by
// Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (b *Bot) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	resp, err := b.api.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("set webhook: %s", resp.Description)
	}
	b.log.Info("webhook registered", zap.String("url", url))
	return nil
}
