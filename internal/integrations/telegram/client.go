package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client клиент Telegram Bot API для отправки уведомлений
type Client struct {
	apiURL     string
	botToken   string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Telegram Bot API
func NewClient(apiURL, botToken string, timeout time.Duration, log Logger) *Client {
	return &Client{
		apiURL:   apiURL,
		botToken: botToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendMessage отправляет текстовое сообщение в чат
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if chatID == 0 {
		return ErrNoChatID
	}

	return c.send(ctx, sendMessageRequest{
		ChatID: chatID,
		Text:   text,
	})
}

// SendDrinkReminder отправляет клиенту напоминание перед сеансом
// с inline-клавиатурой выбора напитка
func (c *Client) SendDrinkReminder(ctx context.Context, chatID int64, text string, drinkOptions []string) error {
	if chatID == 0 {
		return ErrNoChatID
	}

	if len(drinkOptions) == 0 {
		return c.send(ctx, sendMessageRequest{ChatID: chatID, Text: text})
	}

	// Одна кнопка в строке, чтобы длинные названия напитков не обрезались
	keyboard := make([][]inlineButton, 0, len(drinkOptions))
	for _, option := range drinkOptions {
		keyboard = append(keyboard, []inlineButton{{
			Text:         option,
			CallbackData: "drink:" + option,
		}})
	}

	return c.send(ctx, sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: &replyMarkup{InlineKeyboard: keyboard},
	})
}

// SendBroadcast отправляет сообщение списку чатов.
// Ошибки отдельных получателей логируются, рассылка продолжается.
// Возвращает количество успешно отправленных сообщений.
func (c *Client) SendBroadcast(ctx context.Context, chatIDs []int64, text string) int {
	sent := 0
	for _, chatID := range chatIDs {
		if err := c.SendMessage(ctx, chatID, text); err != nil {
			c.log.Warn("Broadcast: failed to send to chat_id=%d: %v", chatID, err)
			continue
		}
		sent++
	}
	return sent
}

func (c *Client) send(ctx context.Context, payload sendMessageRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !apiResp.OK {
		return fmt.Errorf("%w: error_code=%d, description=%s", ErrInvalidResponse, apiResp.ErrorCode, apiResp.Description)
	}

	return nil
}
