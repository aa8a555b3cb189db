package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"mastercrm/internal/api"
	"mastercrm/internal/config"
	"mastercrm/internal/notifier"
	"mastercrm/internal/store"
	"mastercrm/internal/telegram_api"
)

func main() {
	// --- Блок инициализации ---
	err := godotenv.Load()
	if err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать базу данных: %v", err)
	}
	defer st.Close()

	// Бот опционален: без токена дашборд работает, уведомления выключены.
	var bot *telegram_api.BotClient
	if cfg.TelegramToken != "" {
		bot, err = telegram_api.NewClient(cfg.TelegramToken, cfg.AppEnv == "dev")
		if err != nil {
			log.Printf("Предупреждение: не удалось инициализировать Telegram бота: %v. Уведомления отключены.", err)
			bot = nil
		}
	}

	media, err := api.NewMediaStorage(cfg.MediaDir)
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось подготовить хранилище файлов: %v", err)
	}

	handler := api.NewHandler(cfg, st, media)

	// --- Настройка роутера и Middleware ---
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.SetupRoutes(router, handler)

	// --- Планировщик уведомлений ---
	n := notifier.New(st, bot, cfg.GroupChatID, cfg.NotifyLookaheadHours)
	c := cron.New()
	if _, err := c.AddFunc(cfg.NotifyCron, n.Run); err != nil {
		log.Fatalf("Критическая ошибка: не удалось запланировать уведомления (%q): %v", cfg.NotifyCron, err)
	}
	c.Start()
	defer c.Stop()

	log.Printf("Сервер запускается на порту %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Критическая ошибка: сервер остановлен: %v", err)
	}
}
