// Файл: internal/api/distribution_handlers.go
package api

import (
	"encoding/json"
	"net/http"

	"mastercrm/internal/models"
)

// CreateLeafletOrder создает заказ на раздачу листовок.
func (h *Handler) CreateLeafletOrder(w http.ResponseWriter, r *http.Request) {
	var input models.LeafletOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, err := h.store.CreateLeafletOrder(input, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflet order created", order)
}

// ListLeafletOrders возвращает заказы на раздачу, опционально по статусу.
func (h *Handler) ListLeafletOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListLeafletOrders(r.URL.Query().Get("status"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflet orders retrieved", orders)
}

// GetLeafletOrder возвращает один заказ на раздачу.
func (h *Handler) GetLeafletOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	order, err := h.store.GetLeafletOrderByID(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflet order retrieved", order)
}

// EditLeafletOrderRequest — тело правки количества листовок.
type EditLeafletOrderRequest struct {
	Quantity *int `json:"quantity"`
}

// EditLeafletOrder меняет количество листовок у незавершенного заказа.
func (h *Handler) EditLeafletOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var req EditLeafletOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Quantity == nil {
		writeJSONError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	order, err := h.store.EditLeafletOrder(id, *req.Quantity, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflet order updated", order)
}

// CompleteLeafletOrderRequest — итоги раздачи.
type CompleteLeafletOrderRequest struct {
	Success     bool `json:"success"`
	Distributed int  `json:"distributed"`
	Returned    int  `json:"returned"`
}

// CompleteLeafletOrder фиксирует итоги раздачи и считает выработку.
func (h *Handler) CompleteLeafletOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var req CompleteLeafletOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, err := h.store.CompleteLeafletOrder(id, req.Success, req.Distributed, req.Returned, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflet order completed", order)
}

// UploadPaymentProof принимает фото для подтверждения оплаты и
// переводит заказ в статус FORPAYMENT.
func (h *Handler) UploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	filePath, err := h.media.SaveFromRequest(r, "file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Не удалось получить файл: "+err.Error())
		return
	}

	order, err := h.store.UploadPaymentProof(id, filePath, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Payment proof uploaded", order)
}

// MarkLeafletOrderPaid подтверждает выплату распространителю.
func (h *Handler) MarkLeafletOrderPaid(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	order, err := h.store.MarkLeafletOrderPaid(id, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflet order paid", order)
}

// --- Распространители ---

// CreateDistributor создает распространителя.
func (h *Handler) CreateDistributor(w http.ResponseWriter, r *http.Request) {
	var input models.Distributor
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	distributor, err := h.store.CreateDistributor(input, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Distributor created", distributor)
}

// ListDistributors возвращает всех распространителей.
func (h *Handler) ListDistributors(w http.ResponseWriter, r *http.Request) {
	distributors, err := h.store.ListDistributors()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Distributors retrieved", distributors)
}

// GetDistributor возвращает распространителя с документами.
func (h *Handler) GetDistributor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	distributor, err := h.store.GetDistributorByID(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Distributor retrieved", distributor)
}

// AttachDistributorDocument сохраняет документ распространителя.
func (h *Handler) AttachDistributorDocument(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	filePath, err := h.media.SaveFromRequest(r, "file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Не удалось получить файл: "+err.Error())
		return
	}

	doc, err := h.store.AttachDistributorDocument(id, filePath)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Document attached", doc)
}
