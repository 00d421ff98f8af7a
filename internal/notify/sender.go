package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// DefaultTelegramURL is the Telegram Bot API endpoint.
const DefaultTelegramURL = "https://api.telegram.org"

// TelegramSender sends messages through the Telegram Bot API.
type TelegramSender struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewTelegramSender creates a sender for the given bot token. An empty
// baseURL selects DefaultTelegramURL.
func NewTelegramSender(baseURL, token string, client *http.Client) *TelegramSender {
	if baseURL == "" {
		baseURL = DefaultTelegramURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &TelegramSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

type webApp struct {
	URL string `json:"url"`
}

type inlineButton struct {
	Text   string  `json:"text"`
	WebApp *webApp `json:"web_app,omitempty"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64        `json:"chat_id"`
	Text        string       `json:"text"`
	ParseMode   string       `json:"parse_mode"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

// Send posts one sendMessage call. The context bounds the request.
func (s *TelegramSender) Send(ctx context.Context, msg Message) error {
	req := sendMessageRequest{
		ChatID:    msg.ChatID,
		Text:      msg.Text,
		ParseMode: "HTML",
	}
	if msg.ButtonText != "" && msg.ButtonURL != "" {
		req.ReplyMarkup = &replyMarkup{
			InlineKeyboard: [][]inlineButton{{{Text: msg.ButtonText, WebApp: &webApp{URL: msg.ButtonURL}}}},
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/bot"+s.token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	result := gjson.ParseBytes(payload)
	if resp.StatusCode != http.StatusOK || !result.Get("ok").Bool() {
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, result.Get("description").String())
	}
	return nil
}

// LogSender logs messages instead of delivering them. Used when no bot
// token is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	slog.Info("Notification (not sent)", "chat_id", msg.ChatID, "text", msg.Text)
	return nil
}
