// Файл: internal/api/telegram_handlers.go
package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// ListDueNotifications возвращает заказы с приближающейся датой выезда,
// по которым еще не отправлено уведомление.
func (h *Handler) ListDueNotifications(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.DueForNotification(time.Now(), h.cfg.NotifyLookaheadHours)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Orders retrieved", orders)
}

// MarkNotifiedRequest — тело запроса с id заказа.
type MarkNotifiedRequest struct {
	ID int64 `json:"id"`
}

// MarkNotified помечает заказ как уведомленный. Повторный вызов по тому
// же заказу ничего не меняет.
func (h *Handler) MarkNotified(w http.ResponseWriter, r *http.Request) {
	var req MarkNotifiedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "id is required")
		return
	}

	order, err := h.store.MarkNotified(req.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Order marked as notified", order)
}
