// Файл: internal/telegram_api/client.go
package telegram_api

import (
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// BotClient представляет собой обертку для Telegram Bot API.
type BotClient struct {
	api   *tgbotapi.BotAPI
	Debug bool
}

// NewClient инициализирует Telegram бота.
// token - API токен вашего бота.
// debug - флаг для включения режима отладки.
func NewClient(token string, debug bool) (*BotClient, error) {
	if token == "" {
		return nil, fmt.Errorf("токен Telegram API не предоставлен")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Telegram Bot API: %w", err)
	}
	api.Debug = debug

	log.Printf("Авторизован как аккаунт %s", api.Self.UserName)

	return &BotClient{api: api, Debug: debug}, nil
}

// SendMessage отправляет текстовое сообщение в указанный чат.
func (bc *BotClient) SendMessage(chatID int64, text string) error {
	if bc == nil || bc.api == nil {
		return fmt.Errorf("BotClient не инициализирован")
	}
	if chatID == 0 {
		return fmt.Errorf("chatID не задан")
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := bc.api.Send(msg); err != nil {
		log.Printf("SendMessage: ошибка отправки сообщения в чат %d: %v", chatID, err)
		return fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	return nil
}
