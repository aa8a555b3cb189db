// Файл: internal/store/notify_ops.go
package store

import (
	"log"
	"time"

	"mastercrm/internal/apperr"
	"mastercrm/internal/constants"
	"mastercrm/internal/models"
)

// DueForNotification выбирает заказы, по которым пора отправить
// напоминание: флаг уведомления не выставлен, прибытие в окне
// [now, now + lookaheadHours], статус не DONE и не DECLINED.
// Повторные опросы идемпотентны: уже помеченные заказы не выбираются.
func (s *Store) DueForNotification(now time.Time, lookaheadHours int) ([]models.Order, error) {
	until := now.Add(time.Duration(lookaheadHours) * time.Hour)

	rows, err := s.db.Query(
		`SELECT`+orderSelectColumns+`
         FROM orders o
         WHERE o.is_notificated = FALSE
           AND o.arrive_date >= $1 AND o.arrive_date <= $2
           AND o.status NOT IN ($3, $4)
         ORDER BY o.arrive_date`,
		now, until, constants.STATUS_DONE, constants.STATUS_DECLINED,
	)
	if err != nil {
		log.Printf("DueForNotification: ошибка выборки заказов: %v", err)
		return nil, apperr.Store("DueForNotification", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, apperr.Store("DueForNotification", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("DueForNotification", err)
	}
	return orders, nil
}

// MarkNotified выставляет флаг уведомления заказа. Переход односторонний:
// флаг никогда не сбрасывается. Повторный вызов для уже помеченного заказа
// не является ошибкой.
func (s *Store) MarkNotified(orderID int64) (models.Order, error) {
	result, err := s.db.Exec(
		`UPDATE orders SET is_notificated = TRUE WHERE id = $1 AND is_notificated = FALSE`,
		orderID,
	)
	if err != nil {
		log.Printf("MarkNotified: ошибка пометки заказа #%d: %v", orderID, err)
		return models.Order{}, apperr.Store("MarkNotified", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.Order{}, apperr.Store("MarkNotified", err)
	}
	if affected == 0 {
		// Либо заказ не существует, либо уже помечен — различаем выборкой.
		return s.GetOrderByID(orderID)
	}

	log.Printf("Заказ #%d помечен как уведомленный.", orderID)
	return s.GetOrderByID(orderID)
}
