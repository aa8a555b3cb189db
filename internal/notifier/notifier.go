// Файл: internal/notifier/notifier.go
// Уведомитель о предстоящих выездах. Запускается планировщиком из main;
// каждый запуск — один опрос базы: выбрать заказы в окне прибытия,
// отправить сообщение в группу, пометить заказ уведомленным. Пометка
// односторонняя, поэтому повторные запуски не шлют дубликаты.
package notifier

import (
	"fmt"
	"log"
	"time"

	"mastercrm/internal/models"
	"mastercrm/internal/store"
	"mastercrm/internal/telegram_api"
)

type Notifier struct {
	store          *store.Store
	bot            *telegram_api.BotClient
	groupChatID    int64
	lookaheadHours int
}

// New создает уведомитель. bot может быть nil — тогда запуски
// пропускаются (токен не настроен).
func New(st *store.Store, bot *telegram_api.BotClient, groupChatID int64, lookaheadHours int) *Notifier {
	return &Notifier{
		store:          st,
		bot:            bot,
		groupChatID:    groupChatID,
		lookaheadHours: lookaheadHours,
	}
}

// Run выполняет один цикл уведомлений. Ошибки отдельных заказов
// логируются и не прерывают цикл; заказ помечается уведомленным только
// после успешной отправки.
func (n *Notifier) Run() {
	if n.bot == nil || n.groupChatID == 0 {
		return
	}

	orders, err := n.store.DueForNotification(time.Now(), n.lookaheadHours)
	if err != nil {
		log.Printf("Notifier: ошибка выборки заказов для уведомления: %v", err)
		return
	}
	if len(orders) == 0 {
		return
	}

	for _, order := range orders {
		if err := n.bot.SendMessage(n.groupChatID, formatUpcoming(order)); err != nil {
			log.Printf("Notifier: ошибка отправки уведомления по заказу #%d: %v", order.ID, err)
			continue
		}
		if _, err := n.store.MarkNotified(order.ID); err != nil {
			log.Printf("Notifier: ошибка пометки заказа #%d: %v", order.ID, err)
		}
	}
	log.Printf("Notifier: обработано %d заказов.", len(orders))
}

// formatUpcoming готовит текст напоминания о выезде.
func formatUpcoming(order models.Order) string {
	return fmt.Sprintf(
		"Скоро выезд по заказу #%d\nКлиент: %s\nТелефон: %s\nАдрес: %s\nПрибытие: %s",
		order.ID, order.FullName, order.Phone, order.Address,
		order.ArriveDate.Format("02.01.2006 15:04"),
	)
}
