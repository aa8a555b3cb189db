// Файл: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL          string
	TelegramToken        string
	AppEnv               string
	Port                 string
	GroupChatID          int64
	DashboardURL         string
	MediaDir             string
	SessionTTLHours      int
	NotifyLookaheadHours int
	NotifyCron           string
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		TelegramToken: os.Getenv("TELEGRAM_APITOKEN"),
		AppEnv:        os.Getenv("ENV"),
		Port:          os.Getenv("PORT"),
		DashboardURL:  os.Getenv("DASHBOARD_URL"),
		MediaDir:      os.Getenv("MEDIA_DIR"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DashboardURL == "" {
		cfg.DashboardURL = "http://localhost:" + cfg.Port
	}

	var err error
	cfg.GroupChatID, err = strconv.ParseInt(os.Getenv("GROUP_CHAT_ID"), 10, 64)
	if err != nil {
		log.Printf("Предупреждение: не удалось прочитать GROUP_CHAT_ID: %v. Уведомления в группу отключены.", err)
		cfg.GroupChatID = 0
	}

	cfg.SessionTTLHours = intEnv("SESSION_TTL_HOURS", 720)
	cfg.NotifyLookaheadHours = intEnv("NOTIFY_LOOKAHEAD_HOURS", 24)

	cfg.NotifyCron = os.Getenv("NOTIFY_CRON")
	if cfg.NotifyCron == "" {
		cfg.NotifyCron = "@every 10m"
	}

	if cfg.DatabaseURL == "" {
		log.Println("Критическая ошибка: DATABASE_URL не установлен.")
	}
	if cfg.TelegramToken == "" {
		log.Println("Предупреждение: TELEGRAM_APITOKEN не установлен. Telegram-уведомления не будут работать.")
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}

// intEnv читает целочисленную переменную окружения с значением по умолчанию.
func intEnv(name string, def int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("Предупреждение: некорректное значение %s ('%s'), используется %d.", name, raw, def)
		return def
	}
	return val
}
