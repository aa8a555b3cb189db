// Файл: internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"mastercrm/internal/apperr"
	"mastercrm/internal/config"
	"mastercrm/internal/models"
	"mastercrm/internal/store"
)

// Handler связывает обработчики API с их зависимостями.
type Handler struct {
	cfg   *config.Config
	store *store.Store
	media *MediaStorage
}

// NewHandler создает Handler с явными зависимостями.
func NewHandler(cfg *config.Config, st *store.Store, media *MediaStorage) *Handler {
	return &Handler{cfg: cfg, store: st, media: media}
}

// jsonResponse - вспомогательная структура для стандартного ответа API.
type jsonResponse struct {
	Status  string      `json:"status"` // "success" или "error"
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(jsonResponse{Status: "error", Message: message})
}

func writeJSONSuccess(w http.ResponseWriter, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(jsonResponse{Status: "success", Message: message, Data: data})
}

// writeAppError транслирует типизированную ошибку в HTTP-статус.
// Внутренние детали сбоев хранилища клиенту не уходят.
func writeAppError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	var nfe *apperr.NotFoundError
	var ae *apperr.AuthError

	switch {
	case errors.As(err, &ve):
		writeJSONError(w, http.StatusBadRequest, ve.Msg)
	case errors.As(err, &nfe):
		writeJSONError(w, http.StatusNotFound, nfe.Error())
	case errors.As(err, &ae):
		writeJSONError(w, http.StatusUnauthorized, ae.Msg)
	default:
		log.Printf("Внутренняя ошибка: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Server error")
	}
}

// idParam читает числовой параметр {id} из маршрута.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("некорректный идентификатор")
	}
	return id, nil
}

// --- Заказы ---

// CreateOrder создает заказ на выезд мастера.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input models.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, err := h.store.CreateOrder(input, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Order created", order)
}

// ListOrders возвращает заказы с опциональными фильтрами
// ?status=, ?year=, ?month= (месяц с нуля).
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	monthIdx, monthErr := strconv.Atoi(r.URL.Query().Get("month"))

	var month time.Month
	if monthErr == nil && year > 0 {
		month = time.Month(monthIdx + 1)
	}

	orders, err := h.store.ListOrders(status, year, month)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Orders retrieved", orders)
}

// GetOrder возвращает заказ с документами.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	order, err := h.store.GetOrderByID(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Order retrieved", order)
}

// UpdateOrderStatusRequest — тело запроса смены статуса. Оба поля
// обязательны, отсутствие любого из них — 400.
type UpdateOrderStatusRequest struct {
	MasterID *int64  `json:"master_id"`
	Status   *string `json:"status"`
}

// UpdateOrderStatus переводит заказ в новый статус с назначением мастера.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.MasterID == nil || req.Status == nil {
		writeJSONError(w, http.StatusBadRequest, "master_id and status are required")
		return
	}

	order, err := h.store.UpdateOrderStatus(id, *req.Status, *req.MasterID, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Order status updated", order)
}

// UpdateOrderFields выполняет частичное обновление заказа по списку
// разрешенных полей.
func (h *Handler) UpdateOrderFields(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, err := h.store.UpdateOrderFields(id, fields, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Order updated", order)
}

// AttachOrderDocument принимает multipart-файл и привязывает его к заказу.
func (h *Handler) AttachOrderDocument(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	filePath, err := h.media.SaveFromRequest(r, "file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.store.AttachOrderDocument(id, filePath)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Document attached", doc)
}

// OrderQR отдает PNG с QR-кодом ссылки на карточку заказа.
func (h *Handler) OrderQR(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if _, err := h.store.GetOrderByID(id); err != nil {
		writeAppError(w, err)
		return
	}

	link := h.cfg.DashboardURL + "/orders/" + strconv.FormatInt(id, 10)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		log.Printf("OrderQR: ошибка генерации QR для заказа #%d: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "Server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// --- Мастера ---

// CreateWorker добавляет мастера.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var input models.Worker
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	worker, err := h.store.CreateWorker(input, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Worker created", worker)
}

// ListWorkers возвращает всех мастеров.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.store.ListWorkers()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Workers retrieved", workers)
}

// GetWorker возвращает одного мастера.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	worker, err := h.store.GetWorkerByID(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Worker retrieved", worker)
}

// DeleteWorker удаляет мастера, отвязывая его от заказов.
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := h.store.DeleteWorker(id, actorFromContext(r)); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Worker deleted", nil)
}

// --- Справочники ---

// CreateCity добавляет город.
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	city, err := h.store.CreateCity(input.Name)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "City created", city)
}

// ListCities возвращает города со счетчиками заказов.
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.store.ListCities()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Cities retrieved", cities)
}

// CreateLeaflet добавляет листовку.
func (h *Handler) CreateLeaflet(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	leaflet, err := h.store.CreateLeaflet(input.Name, input.Value)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflet created", leaflet)
}

// GetLeaflet возвращает одну листовку.
func (h *Handler) GetLeaflet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	leaflet, err := h.store.GetLeafletByID(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflet retrieved", leaflet)
}

// ListLeaflets возвращает листовки со счетчиками заказов.
func (h *Handler) ListLeaflets(w http.ResponseWriter, r *http.Request) {
	leaflets, err := h.store.ListLeaflets()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflets retrieved", leaflets)
}

// ListLogs возвращает журнал действий, новые записи первыми.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.store.ListLogs(limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Logs retrieved", entries)
}
