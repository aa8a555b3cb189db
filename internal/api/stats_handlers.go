// Файл: internal/api/stats_handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"mastercrm/internal/models"
)

// statsPeriod разбирает query-параметры ?year и ?month (месяцы с нуля).
// Отсутствующие параметры заменяются текущим месяцем.
func statsPeriod(r *http.Request) (int, time.Month, error) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y <= 0 {
			return 0, 0, fmt.Errorf("некорректный год %q", raw)
		}
		year = y
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 0 || m > 11 {
			return 0, 0, fmt.Errorf("некорректный месяц %q", raw)
		}
		month = time.Month(m + 1)
	}
	return year, month, nil
}

// MonthlyStats возвращает финансовые агрегаты за месяц.
func (h *Handler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	year, month, err := statsPeriod(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.store.MonthStats(year, month)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Statistics retrieved", stats)
}

// AvailablePeriods возвращает отчетные периоды с завершенными заказами.
func (h *Handler) AvailablePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.store.AvailablePeriods()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Periods retrieved", periods)
}

// CountByStatus возвращает число заказов по каждому статусу.
func (h *Handler) CountByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountByStatus()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Counts retrieved", counts)
}

// ProfitStats возвращает агрегаты за все время.
func (h *Handler) ProfitStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.ProfitStats()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Statistics retrieved", stats)
}

// LeafletStatistics — сводка по листовочным заказам.
func (h *Handler) LeafletStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.LeafletStatistics()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Leaflet statistics retrieved", stats)
}

// ExportExcel выгружает завершенные заказы месяца в xlsx.
func (h *Handler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	year, month, err := statsPeriod(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.store.DoneOrdersForMonth(year, month)
	if err != nil {
		writeAppError(w, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Заказы"
	index, _ := f.NewSheet(sheetName)
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID Заказа", "Клиент", "Телефон", "Адрес", "Тип визита", "Тип техники", "Дата выезда", "Дата завершения", "Получено", "Расход", "Мастеру", "Прибыль"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, order := range orders {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), order.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), order.FullName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), order.Phone)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), order.Address)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), order.VisitType)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), order.EquipmentType)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowIndex), order.ArriveDate.Format("02.01.2006 15:04"))
		if order.DateDone != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowIndex), order.DateDone.Format("02.01.2006"))
		}
		received := floatOrZero(order.Received)
		outlay := floatOrZero(order.Outlay)
		receivedWorker := floatOrZero(order.ReceivedWorker)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", rowIndex), received)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", rowIndex), outlay)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", rowIndex), receivedWorker)
		f.SetCellValue(sheetName, fmt.Sprintf("L%d", rowIndex), received-outlay-receivedWorker)
		rowIndex++
	}

	filename := fmt.Sprintf("orders_%d_%02d.xlsx", year, int(month))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := f.WriteTo(w); err != nil {
		log.Printf("ExportExcel: ошибка записи xlsx: %v", err)
	}
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// GetGoal возвращает текущие плановые показатели.
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.store.GetGoal()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Goal retrieved", goal)
}

// UpsertGoal сохраняет плановые показатели.
func (h *Handler) UpsertGoal(w http.ResponseWriter, r *http.Request) {
	var goal models.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	saved, err := h.store.UpsertGoal(goal)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Goal saved", saved)
}
