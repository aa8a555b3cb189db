// Файл: internal/store/order_ops.go
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"mastercrm/internal/apperr"
	"mastercrm/internal/constants"
	"mastercrm/internal/models"
	"mastercrm/internal/utils"
)

// allowedOrderUpdateFields — явный список полей заказа, доступных для
// частичного обновления. Ключ — имя поля в запросе, значение — колонка.
// Все остальные поля отклоняются, чтобы исключить массовое присваивание
// непредусмотренных колонок.
var allowedOrderUpdateFields = map[string]string{
	"full_name":       "full_name",
	"phone":           "phone",
	"address":         "address",
	"visit_type":      "visit_type",
	"equipment_type":  "equipment_type",
	"arrive_date":     "arrive_date",
	"city_id":         "city_id",
	"leaflet_id":      "leaflet_id",
	"received":        "received",
	"outlay":          "outlay",
	"received_worker": "received_worker",
	"master_id":       "master_id",
	"status":          "status",
}

// Колонки-ссылки: JSON отдает числа как float64, для целочисленных колонок
// значение приводится к int64.
var orderIntFields = map[string]bool{
	"city_id":    true,
	"leaflet_id": true,
	"master_id":  true,
}

const orderSelectColumns = `
        o.id, o.full_name, o.phone, COALESCE(o.address, ''), o.status, o.arrive_date,
        COALESCE(o.visit_type, ''), o.city_id, o.leaflet_id, COALESCE(o.equipment_type, ''),
        o.received, o.outlay, o.received_worker, o.master_id, o.is_notificated,
        o.date_created, o.date_done`

// CreateOrder создает заказ со статусом PENDING и пишет запись в журнал
// от имени actor. Обязательны ФИО, телефон, дата прибытия и город.
func (s *Store) CreateOrder(in models.OrderInput, actor string) (models.Order, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return models.Order{}, apperr.Validation("ФИО клиента обязательно")
	}
	phone, err := utils.ValidatePhoneNumber(in.Phone)
	if err != nil {
		return models.Order{}, apperr.Validation("некорректный телефон: %v", err)
	}
	arriveDate, err := utils.ParseArriveDate(in.ArriveDate)
	if err != nil {
		return models.Order{}, apperr.Validation("некорректная дата прибытия: %v", err)
	}
	if in.CityID <= 0 {
		return models.Order{}, apperr.Validation("город обязателен")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Order{}, apperr.Store("CreateOrder", err)
	}
	defer tx.Rollback()

	order := models.Order{
		FullName:      in.FullName,
		Phone:         phone,
		Address:       in.Address,
		Status:        constants.STATUS_PENDING,
		ArriveDate:    arriveDate,
		VisitType:     in.VisitType,
		CityID:        in.CityID,
		LeafletID:     in.LeafletID,
		EquipmentType: in.EquipmentType,
	}
	var leafletID sql.NullInt64
	if in.LeafletID != nil {
		leafletID = sql.NullInt64{Int64: *in.LeafletID, Valid: true}
	}

	err = tx.QueryRow(
		`INSERT INTO orders (
            full_name, phone, address, status, arrive_date, visit_type,
            city_id, leaflet_id, equipment_type, is_notificated, date_created
         )
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, NOW())
         RETURNING id, date_created`,
		in.FullName, phone, in.Address, constants.STATUS_PENDING, arriveDate,
		in.VisitType, in.CityID, leafletID, in.EquipmentType,
	).Scan(&order.ID, &order.DateCreated)
	if err != nil {
		log.Printf("CreateOrder: ошибка выполнения INSERT: %v", err)
		return models.Order{}, apperr.Store("CreateOrder", err)
	}

	what := fmt.Sprintf("Создан заказ #%d для клиента '%s'", order.ID, in.FullName)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_ORDER); err != nil {
		return models.Order{}, apperr.Store("CreateOrder", err)
	}

	if err = tx.Commit(); err != nil {
		return models.Order{}, apperr.Store("CreateOrder", err)
	}
	log.Printf("Заказ #%d успешно создан.", order.ID)
	return order, nil
}

// GetOrderByID извлекает заказ вместе с его документами.
func (s *Store) GetOrderByID(orderID int64) (models.Order, error) {
	row := s.db.QueryRow(`SELECT`+orderSelectColumns+` FROM orders o WHERE o.id = $1`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Order{}, apperr.NotFound("заказ", orderID)
		}
		log.Printf("GetOrderByID: ошибка получения заказа #%d: %v", orderID, err)
		return models.Order{}, apperr.Store("GetOrderByID", err)
	}

	docs, err := s.listOrderDocuments(orderID)
	if err != nil {
		return models.Order{}, err
	}
	order.Documents = docs
	return order, nil
}

// ListOrders возвращает заказы, новые первыми. Фильтры опциональны:
// status — точное совпадение, year/month — месяц создания заказа.
func (s *Store) ListOrders(status string, year int, month time.Month) ([]models.Order, error) {
	query := `SELECT` + orderSelectColumns + ` FROM orders o`
	var conds []string
	var args []any

	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if year > 0 && month > 0 {
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
		args = append(args, start)
		conds = append(conds, fmt.Sprintf("o.date_created >= $%d", len(args)))
		args = append(args, start.AddDate(0, 1, 0))
		conds = append(conds, fmt.Sprintf("o.date_created < $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY o.date_created DESC, o.id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Printf("ListOrders: ошибка выборки заказов: %v", err)
		return nil, apperr.Store("ListOrders", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, apperr.Store("ListOrders", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("ListOrders", err)
	}
	return orders, nil
}

// UpdateOrderStatus переводит заказ в новый статус с назначением мастера.
// Оба параметра обязательны. Переход проверяется по таблице переходов:
// из терминального статуса выхода нет. При переходе в DONE проставляется
// date_done — инвариант "date_done заполнено тогда и только тогда, когда
// статус DONE" обеспечивается здесь.
func (s *Store) UpdateOrderStatus(orderID int64, newStatus string, masterID int64, actor string) (models.Order, error) {
	if newStatus == "" {
		return models.Order{}, apperr.Validation("статус обязателен")
	}
	if masterID <= 0 {
		return models.Order{}, apperr.Validation("мастер обязателен")
	}
	if !constants.IsValidOrderStatus(newStatus) {
		return models.Order{}, apperr.Validation("неизвестный статус: '%s'", newStatus)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Order{}, apperr.Store("UpdateOrderStatus", err)
	}
	defer tx.Rollback()

	currentStatus, err := getOrderStatusInTx(tx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if !constants.CanTransitOrder(currentStatus, newStatus) {
		return models.Order{}, apperr.Validation(
			"недопустимый переход статуса: %s -> %s", currentStatus, newStatus)
	}

	_, err = tx.Exec(
		`UPDATE orders
         SET status = $1, master_id = $2,
             date_done = CASE WHEN $1 = $3 THEN NOW() ELSE date_done END
         WHERE id = $4`,
		newStatus, masterID, constants.STATUS_DONE, orderID,
	)
	if err != nil {
		log.Printf("UpdateOrderStatus: ошибка обновления заказа #%d: %v", orderID, err)
		return models.Order{}, apperr.Store("UpdateOrderStatus", err)
	}

	what := fmt.Sprintf("Статус заказа #%d: %s -> %s (мастер %d)", orderID, currentStatus, newStatus, masterID)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_ORDER); err != nil {
		return models.Order{}, apperr.Store("UpdateOrderStatus", err)
	}

	if err = tx.Commit(); err != nil {
		return models.Order{}, apperr.Store("UpdateOrderStatus", err)
	}
	log.Printf("Статус заказа #%d обновлен на %s.", orderID, newStatus)
	return s.GetOrderByID(orderID)
}

// UpdateOrderFields выполняет частичное обновление заказа по явному списку
// разрешенных полей. Смена статуса проходит проверку переходов, переход в
// DONE проставляет date_done. Запись в журнал именует автора.
func (s *Store) UpdateOrderFields(orderID int64, fields map[string]any, actor string) (models.Order, error) {
	if len(fields) == 0 {
		return models.Order{}, apperr.Validation("не передано ни одного поля для обновления")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := allowedOrderUpdateFields[name]; !ok {
			return models.Order{}, apperr.Validation("поле '%s' не может быть обновлено", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := s.db.Begin()
	if err != nil {
		return models.Order{}, apperr.Store("UpdateOrderFields", err)
	}
	defer tx.Rollback()

	currentStatus, err := getOrderStatusInTx(tx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	var setClauses []string
	var args []any
	becameDone := false
	for _, name := range names {
		value, err := normalizeOrderFieldValue(name, fields[name])
		if err != nil {
			return models.Order{}, err
		}
		if name == "status" {
			newStatus, _ := value.(string)
			if !constants.CanTransitOrder(currentStatus, newStatus) {
				return models.Order{}, apperr.Validation(
					"недопустимый переход статуса: %s -> %s", currentStatus, newStatus)
			}
			becameDone = newStatus == constants.STATUS_DONE && currentStatus != constants.STATUS_DONE
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", allowedOrderUpdateFields[name], len(args)))
	}
	if becameDone {
		setClauses = append(setClauses, "date_done = NOW()")
	}

	args = append(args, orderID)
	query := fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d", strings.Join(setClauses, ", "), len(args))
	if _, err = tx.Exec(query, args...); err != nil {
		log.Printf("UpdateOrderFields: ошибка обновления заказа #%d: %v", orderID, err)
		return models.Order{}, apperr.Store("UpdateOrderFields", err)
	}

	what := fmt.Sprintf("Обновлены поля заказа #%d: %s", orderID, strings.Join(names, ", "))
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_ORDER); err != nil {
		return models.Order{}, apperr.Store("UpdateOrderFields", err)
	}

	if err = tx.Commit(); err != nil {
		return models.Order{}, apperr.Store("UpdateOrderFields", err)
	}
	log.Printf("Заказ #%d обновлен (%s).", orderID, strings.Join(names, ", "))
	return s.GetOrderByID(orderID)
}

// AttachOrderDocument привязывает загруженный файл к заказу.
func (s *Store) AttachOrderDocument(orderID int64, filePath string) (models.Document, error) {
	if filePath == "" {
		return models.Document{}, apperr.Validation("путь к файлу обязателен")
	}

	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return models.Document{}, apperr.Store("AttachOrderDocument", err)
	}
	if !exists {
		return models.Document{}, apperr.NotFound("заказ", orderID)
	}

	doc := models.Document{OrderID: orderID, FilePath: filePath}
	err = s.db.QueryRow(
		`INSERT INTO order_documents (order_id, file_path, uploaded_at)
         VALUES ($1, $2, NOW()) RETURNING id, uploaded_at`,
		orderID, filePath,
	).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		log.Printf("AttachOrderDocument: ошибка привязки файла к заказу #%d: %v", orderID, err)
		return models.Document{}, apperr.Store("AttachOrderDocument", err)
	}
	return doc, nil
}

// getOrderStatusInTx получает статус заказа в транзакции с блокировкой
// строки, чтобы два параллельных обновления не гонялись за переходом.
func getOrderStatusInTx(tx *sql.Tx, orderID int64) (string, error) {
	var status string
	err := tx.QueryRow(`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFound("заказ", orderID)
		}
		return "", apperr.Store("getOrderStatusInTx", err)
	}
	return status, nil
}

// normalizeOrderFieldValue приводит значение из JSON к типу колонки.
func normalizeOrderFieldValue(name string, value any) (any, error) {
	switch {
	case name == "status":
		str, ok := value.(string)
		if !ok || !constants.IsValidOrderStatus(str) {
			return nil, apperr.Validation("некорректное значение статуса")
		}
		return str, nil
	case name == "arrive_date":
		str, ok := value.(string)
		if !ok {
			return nil, apperr.Validation("некорректное значение даты прибытия")
		}
		parsed, err := utils.ParseArriveDate(str)
		if err != nil {
			return nil, apperr.Validation("некорректная дата прибытия: %v", err)
		}
		return parsed, nil
	case orderIntFields[name]:
		if value == nil {
			return nil, nil
		}
		num, ok := value.(float64)
		if !ok || num != float64(int64(num)) {
			return nil, apperr.Validation("поле '%s' должно быть целым числом", name)
		}
		return int64(num), nil
	default:
		return value, nil
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrder читает одну строку заказа, преобразуя NULL-поля в указатели.
func scanOrder(row rowScanner) (models.Order, error) {
	var order models.Order
	var cityID, leafletID, masterID sql.NullInt64
	var received, outlay, receivedWorker sql.NullFloat64
	var dateDone sql.NullTime

	err := row.Scan(
		&order.ID, &order.FullName, &order.Phone, &order.Address, &order.Status,
		&order.ArriveDate, &order.VisitType, &cityID, &leafletID, &order.EquipmentType,
		&received, &outlay, &receivedWorker, &masterID, &order.IsNotificated,
		&order.DateCreated, &dateDone,
	)
	if err != nil {
		return order, err
	}

	if cityID.Valid {
		order.CityID = cityID.Int64
	}
	if leafletID.Valid {
		order.LeafletID = &leafletID.Int64
	}
	if masterID.Valid {
		order.MasterID = &masterID.Int64
	}
	if received.Valid {
		order.Received = &received.Float64
	}
	if outlay.Valid {
		order.Outlay = &outlay.Float64
	}
	if receivedWorker.Valid {
		order.ReceivedWorker = &receivedWorker.Float64
	}
	if dateDone.Valid {
		order.DateDone = &dateDone.Time
	}
	return order, nil
}

func (s *Store) listOrderDocuments(orderID int64) ([]models.Document, error) {
	rows, err := s.db.Query(
		`SELECT id, order_id, file_path, uploaded_at
         FROM order_documents WHERE order_id = $1 ORDER BY uploaded_at`, orderID)
	if err != nil {
		log.Printf("listOrderDocuments: ошибка выборки документов заказа #%d: %v", orderID, err)
		return nil, apperr.Store("listOrderDocuments", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.OrderID, &doc.FilePath, &doc.UploadedAt); err != nil {
			return nil, apperr.Store("listOrderDocuments", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("listOrderDocuments", err)
	}
	return docs, nil
}
