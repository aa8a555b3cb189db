// Файл: internal/store/stats_ops.go
package store

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"mastercrm/internal/apperr"
	"mastercrm/internal/constants"
	"mastercrm/internal/models"
)

// CountByStatus возвращает число заказов по каждому статусу. В ответе
// присутствует каждый статус из перечня, отсутствующие — с нулем.
func (s *Store) CountByStatus() (map[string]int, error) {
	var filters []string
	var args []any
	for _, status := range constants.OrderStatuses {
		args = append(args, status)
		filters = append(filters, fmt.Sprintf("COUNT(id) FILTER (WHERE status = $%d)", len(args)))
	}
	query := `SELECT ` + strings.Join(filters, ", ") + ` FROM orders`

	counts := make([]int, len(constants.OrderStatuses))
	dest := make([]any, len(counts))
	for i := range counts {
		dest[i] = &counts[i]
	}
	if err := s.db.QueryRow(query, args...).Scan(dest...); err != nil {
		log.Printf("CountByStatus: ошибка подсчета заказов: %v", err)
		return nil, apperr.Store("CountByStatus", err)
	}

	result := make(map[string]int, len(constants.OrderStatuses))
	for i, status := range constants.OrderStatuses {
		result[status] = counts[i]
	}
	return result, nil
}

// MonthStats считает агрегаты по заказам, завершенным в указанном
// календарном месяце. Все суммы по умолчанию 0, прибыль считается как
// received - outlay - received_worker.
func (s *Store) MonthStats(year int, month time.Month) (models.FinancialStats, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var stats models.FinancialStats
	err := s.db.QueryRow(
		`SELECT COUNT(id),
                COALESCE(SUM(received), 0),
                COALESCE(SUM(outlay), 0),
                COALESCE(SUM(received_worker), 0)
         FROM orders
         WHERE status = $1 AND date_done >= $2 AND date_done < $3`,
		constants.STATUS_DONE, start, end,
	).Scan(&stats.Count, &stats.Received, &stats.Outlay, &stats.ReceivedWorker)
	if err != nil {
		log.Printf("MonthStats: ошибка получения статистики за %d-%02d: %v", year, month, err)
		return models.FinancialStats{}, apperr.Store("MonthStats", err)
	}

	stats.Profit = stats.Received - stats.Outlay - stats.ReceivedWorker
	return stats, nil
}

// ProfitStats — те же агрегаты без ограничения по дате (за все время).
func (s *Store) ProfitStats() (models.FinancialStats, error) {
	var stats models.FinancialStats
	err := s.db.QueryRow(
		`SELECT COUNT(id),
                COALESCE(SUM(received), 0),
                COALESCE(SUM(outlay), 0),
                COALESCE(SUM(received_worker), 0)
         FROM orders
         WHERE status = $1`,
		constants.STATUS_DONE,
	).Scan(&stats.Count, &stats.Received, &stats.Outlay, &stats.ReceivedWorker)
	if err != nil {
		log.Printf("ProfitStats: ошибка получения статистики: %v", err)
		return models.FinancialStats{}, apperr.Store("ProfitStats", err)
	}

	stats.Profit = stats.Received - stats.Outlay - stats.ReceivedWorker
	return stats, nil
}

// AvailablePeriods возвращает отчетные периоды: различные пары (год, месяц)
// среди завершенных заказов. Годы по убыванию, месяцы внутри года по
// возрастанию, индексация месяцев с нуля.
func (s *Store) AvailablePeriods() ([]models.Period, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT EXTRACT(YEAR FROM date_done)::int, EXTRACT(MONTH FROM date_done)::int
         FROM orders
         WHERE status = $1 AND date_done IS NOT NULL`,
		constants.STATUS_DONE,
	)
	if err != nil {
		log.Printf("AvailablePeriods: ошибка выборки периодов: %v", err)
		return nil, apperr.Store("AvailablePeriods", err)
	}
	defer rows.Close()

	byYear := make(map[int]map[int]bool)
	for rows.Next() {
		var year, month int
		if err := rows.Scan(&year, &month); err != nil {
			return nil, apperr.Store("AvailablePeriods", err)
		}
		if byYear[year] == nil {
			byYear[year] = make(map[int]bool)
		}
		byYear[year][month-1] = true // месяцы с нуля
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("AvailablePeriods", err)
	}

	return buildPeriods(byYear), nil
}

// buildPeriods упорядочивает множество (год -> месяцы) в список периодов:
// годы по убыванию, месяцы по возрастанию.
func buildPeriods(byYear map[int]map[int]bool) []models.Period {
	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	periods := make([]models.Period, 0, len(years))
	for _, year := range years {
		months := make([]int, 0, len(byYear[year]))
		for month := range byYear[year] {
			months = append(months, month)
		}
		sort.Ints(months)
		periods = append(periods, models.Period{Year: year, Months: months})
	}
	return periods
}

// DoneOrdersForMonth возвращает заказы, завершенные в указанном месяце,
// в порядке завершения. Используется для выгрузки отчета в Excel.
func (s *Store) DoneOrdersForMonth(year int, month time.Month) ([]models.Order, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	rows, err := s.db.Query(
		`SELECT`+orderSelectColumns+` FROM orders o
         WHERE o.status = $1 AND o.date_done >= $2 AND o.date_done < $3
         ORDER BY o.date_done, o.id`,
		constants.STATUS_DONE, start, end,
	)
	if err != nil {
		log.Printf("DoneOrdersForMonth: ошибка выборки заказов за %d-%02d: %v", year, month, err)
		return nil, apperr.Store("DoneOrdersForMonth", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, apperr.Store("DoneOrdersForMonth", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("DoneOrdersForMonth", err)
	}
	return orders, nil
}

// LeafletStatistics — счетчики листовочных заказов по статусам и разбивка
// прибыли: к выплате (FORPAYMENT) и выплачено (DONE). Отсутствующие статусы
// и суммы отдаются нулями.
func (s *Store) LeafletStatistics() (models.LeafletStats, error) {
	var filters []string
	var args []any
	for _, status := range constants.LeafletStatuses {
		args = append(args, status)
		filters = append(filters, fmt.Sprintf("COUNT(id) FILTER (WHERE status = $%d)", len(args)))
	}
	args = append(args, constants.LEAFLET_STATUS_FORPAYMENT)
	filters = append(filters, fmt.Sprintf("COALESCE(SUM(profit) FILTER (WHERE status = $%d), 0)", len(args)))
	args = append(args, constants.LEAFLET_STATUS_DONE)
	filters = append(filters, fmt.Sprintf("COALESCE(SUM(profit) FILTER (WHERE status = $%d), 0)", len(args)))

	query := `SELECT ` + strings.Join(filters, ", ") + ` FROM leaflet_orders`

	counts := make([]int, len(constants.LeafletStatuses))
	dest := make([]any, 0, len(counts)+2)
	for i := range counts {
		dest = append(dest, &counts[i])
	}
	stats := models.LeafletStats{Counts: make(map[string]int, len(constants.LeafletStatuses))}
	dest = append(dest, &stats.ToPay, &stats.Paid)

	if err := s.db.QueryRow(query, args...).Scan(dest...); err != nil {
		log.Printf("LeafletStatistics: ошибка подсчета листовочных заказов: %v", err)
		return models.LeafletStats{}, apperr.Store("LeafletStatistics", err)
	}

	for i, status := range constants.LeafletStatuses {
		stats.Counts[status] = counts[i]
	}
	return stats, nil
}
