// Файл: internal/store/leaflet_order_ops.go
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"mastercrm/internal/apperr"
	"mastercrm/internal/constants"
	"mastercrm/internal/models"
)

const leafletOrderSelectColumns = `
        lo.id, lo.city_id, lo.leaflet_id, lo.distributor_id, lo.quantity, lo.status,
        lo.distributed, lo.returned, lo.profit, COALESCE(lo.payment_photo, ''),
        COALESCE(lo.who_did, ''), lo.date_created, lo.date_done`

// CreateLeafletOrder создает листовочный заказ со статусом IN_PROCESS.
// Листовка, город, разносчик и положительное количество обязательны.
func (s *Store) CreateLeafletOrder(in models.LeafletOrderInput, actor string) (models.LeafletOrder, error) {
	if in.LeafletID <= 0 {
		return models.LeafletOrder{}, apperr.Validation("листовка обязательна")
	}
	if in.CityID <= 0 {
		return models.LeafletOrder{}, apperr.Validation("город обязателен")
	}
	if in.DistributorID <= 0 {
		return models.LeafletOrder{}, apperr.Validation("разносчик обязателен")
	}
	if in.Quantity <= 0 {
		return models.LeafletOrder{}, apperr.Validation("количество должно быть больше нуля")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.LeafletOrder{}, apperr.Store("CreateLeafletOrder", err)
	}
	defer tx.Rollback()

	order := models.LeafletOrder{
		CityID:        in.CityID,
		LeafletID:     in.LeafletID,
		DistributorID: in.DistributorID,
		Quantity:      in.Quantity,
		Status:        constants.LEAFLET_STATUS_IN_PROCESS,
		WhoDid:        constants.ActorOrUnknown(actor),
	}
	err = tx.QueryRow(
		`INSERT INTO leaflet_orders (
            city_id, leaflet_id, distributor_id, quantity, status,
            distributed, returned, profit, who_did, date_created
         )
         VALUES ($1, $2, $3, $4, $5, 0, 0, 0, $6, NOW())
         RETURNING id, date_created`,
		in.CityID, in.LeafletID, in.DistributorID, in.Quantity,
		constants.LEAFLET_STATUS_IN_PROCESS, order.WhoDid,
	).Scan(&order.ID, &order.DateCreated)
	if err != nil {
		log.Printf("CreateLeafletOrder: ошибка выполнения INSERT: %v", err)
		return models.LeafletOrder{}, apperr.Store("CreateLeafletOrder", err)
	}

	what := fmt.Sprintf("Создан листовочный заказ #%d на %d шт.", order.ID, in.Quantity)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_LEAFLET); err != nil {
		return models.LeafletOrder{}, apperr.Store("CreateLeafletOrder", err)
	}

	if err = tx.Commit(); err != nil {
		return models.LeafletOrder{}, apperr.Store("CreateLeafletOrder", err)
	}
	log.Printf("Листовочный заказ #%d создан.", order.ID)
	return order, nil
}

// GetLeafletOrderByID извлекает листовочный заказ по ID.
func (s *Store) GetLeafletOrderByID(id int64) (models.LeafletOrder, error) {
	row := s.db.QueryRow(`SELECT`+leafletOrderSelectColumns+` FROM leaflet_orders lo WHERE lo.id = $1`, id)
	order, err := scanLeafletOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LeafletOrder{}, apperr.NotFound("листовочный заказ", id)
		}
		log.Printf("GetLeafletOrderByID: ошибка получения заказа #%d: %v", id, err)
		return models.LeafletOrder{}, apperr.Store("GetLeafletOrderByID", err)
	}
	return order, nil
}

// ListLeafletOrders возвращает листовочные заказы, новые первыми.
// Фильтр по статусу опционален.
func (s *Store) ListLeafletOrders(status string) ([]models.LeafletOrder, error) {
	query := `SELECT` + leafletOrderSelectColumns + ` FROM leaflet_orders lo`
	var args []any
	if status != "" {
		query += ` WHERE lo.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY lo.date_created DESC, lo.id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Printf("ListLeafletOrders: ошибка выборки заказов: %v", err)
		return nil, apperr.Store("ListLeafletOrders", err)
	}
	defer rows.Close()

	var orders []models.LeafletOrder
	for rows.Next() {
		order, err := scanLeafletOrder(rows)
		if err != nil {
			return nil, apperr.Store("ListLeafletOrders", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("ListLeafletOrders", err)
	}
	return orders, nil
}

// EditLeafletOrder изменяет количество листовок в незавершенном заказе.
func (s *Store) EditLeafletOrder(id int64, quantity int, actor string) (models.LeafletOrder, error) {
	if quantity < 0 {
		return models.LeafletOrder{}, apperr.Validation("количество не может быть отрицательным")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.LeafletOrder{}, apperr.Store("EditLeafletOrder", err)
	}
	defer tx.Rollback()

	status, err := getLeafletStatusInTx(tx, id)
	if err != nil {
		return models.LeafletOrder{}, err
	}
	if constants.IsTerminalLeafletStatus(status) {
		return models.LeafletOrder{}, apperr.Validation("заказ #%d уже завершен, изменение невозможно", id)
	}

	if _, err = tx.Exec(`UPDATE leaflet_orders SET quantity = $1, who_did = $2 WHERE id = $3`,
		quantity, constants.ActorOrUnknown(actor), id); err != nil {
		log.Printf("EditLeafletOrder: ошибка обновления заказа #%d: %v", id, err)
		return models.LeafletOrder{}, apperr.Store("EditLeafletOrder", err)
	}

	what := fmt.Sprintf("Изменено количество листовочного заказа #%d: %d шт.", id, quantity)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_LEAFLET); err != nil {
		return models.LeafletOrder{}, apperr.Store("EditLeafletOrder", err)
	}

	if err = tx.Commit(); err != nil {
		return models.LeafletOrder{}, apperr.Store("EditLeafletOrder", err)
	}
	return s.GetLeafletOrderByID(id)
}

// CompleteLeafletOrder завершает листовочный заказ. Инвариант:
// distributed + returned не может превышать исходное количество.
// При success заказ получает статус DONE, иначе DECLINED (ничего не
// разнесено) или CANCELLED (частичная разноска). Прибыль считается как
// distributed * стоимость листовки.
func (s *Store) CompleteLeafletOrder(id int64, success bool, distributed, returned int, actor string) (models.LeafletOrder, error) {
	if distributed < 0 || returned < 0 {
		return models.LeafletOrder{}, apperr.Validation("счетчики разноски не могут быть отрицательными")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.LeafletOrder{}, apperr.Store("CompleteLeafletOrder", err)
	}
	defer tx.Rollback()

	var quantity int
	var status string
	var leafletValue float64
	err = tx.QueryRow(
		`SELECT lo.quantity, lo.status, COALESCE(l.value, 0)
         FROM leaflet_orders lo
         LEFT JOIN leaflets l ON l.id = lo.leaflet_id
         WHERE lo.id = $1
         FOR UPDATE OF lo`, id,
	).Scan(&quantity, &status, &leafletValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LeafletOrder{}, apperr.NotFound("листовочный заказ", id)
		}
		return models.LeafletOrder{}, apperr.Store("CompleteLeafletOrder", err)
	}

	if constants.IsTerminalLeafletStatus(status) {
		return models.LeafletOrder{}, apperr.Validation("заказ #%d уже завершен", id)
	}
	if distributed+returned > quantity {
		return models.LeafletOrder{}, apperr.Validation(
			"разнесено %d + возвращено %d превышает количество %d", distributed, returned, quantity)
	}

	newStatus := constants.LEAFLET_STATUS_DONE
	if !success {
		if distributed == 0 {
			newStatus = constants.LEAFLET_STATUS_DECLINED
		} else {
			newStatus = constants.LEAFLET_STATUS_CANCELLED
		}
	}
	profit := float64(distributed) * leafletValue

	_, err = tx.Exec(
		`UPDATE leaflet_orders
         SET status = $1, distributed = $2, returned = $3, profit = $4,
             who_did = $5, date_done = NOW()
         WHERE id = $6`,
		newStatus, distributed, returned, profit, constants.ActorOrUnknown(actor), id,
	)
	if err != nil {
		log.Printf("CompleteLeafletOrder: ошибка завершения заказа #%d: %v", id, err)
		return models.LeafletOrder{}, apperr.Store("CompleteLeafletOrder", err)
	}

	what := fmt.Sprintf("Завершен листовочный заказ #%d: статус %s, разнесено %d, возвращено %d, прибыль %.2f",
		id, newStatus, distributed, returned, profit)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_LEAFLET); err != nil {
		return models.LeafletOrder{}, apperr.Store("CompleteLeafletOrder", err)
	}

	if err = tx.Commit(); err != nil {
		return models.LeafletOrder{}, apperr.Store("CompleteLeafletOrder", err)
	}
	log.Printf("Листовочный заказ #%d завершен со статусом %s.", id, newStatus)
	return s.GetLeafletOrderByID(id)
}

// UploadPaymentProof сохраняет путь к фото оплаты и переводит заказ из
// IN_PROCESS в FORPAYMENT. Для заказа в FORPAYMENT фото просто заменяется.
func (s *Store) UploadPaymentProof(id int64, filePath, actor string) (models.LeafletOrder, error) {
	if filePath == "" {
		return models.LeafletOrder{}, apperr.Validation("файл подтверждения оплаты обязателен")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.LeafletOrder{}, apperr.Store("UploadPaymentProof", err)
	}
	defer tx.Rollback()

	status, err := getLeafletStatusInTx(tx, id)
	if err != nil {
		return models.LeafletOrder{}, err
	}
	if constants.IsTerminalLeafletStatus(status) {
		return models.LeafletOrder{}, apperr.Validation("заказ #%d уже завершен", id)
	}

	if _, err = tx.Exec(
		`UPDATE leaflet_orders SET payment_photo = $1, status = $2, who_did = $3 WHERE id = $4`,
		filePath, constants.LEAFLET_STATUS_FORPAYMENT, constants.ActorOrUnknown(actor), id,
	); err != nil {
		log.Printf("UploadPaymentProof: ошибка сохранения фото оплаты для заказа #%d: %v", id, err)
		return models.LeafletOrder{}, apperr.Store("UploadPaymentProof", err)
	}

	what := fmt.Sprintf("Загружено подтверждение оплаты для листовочного заказа #%d", id)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_LEAFLET); err != nil {
		return models.LeafletOrder{}, apperr.Store("UploadPaymentProof", err)
	}

	if err = tx.Commit(); err != nil {
		return models.LeafletOrder{}, apperr.Store("UploadPaymentProof", err)
	}
	return s.GetLeafletOrderByID(id)
}

// MarkLeafletOrderPaid закрывает оплаченный заказ: FORPAYMENT -> DONE.
func (s *Store) MarkLeafletOrderPaid(id int64, actor string) (models.LeafletOrder, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.LeafletOrder{}, apperr.Store("MarkLeafletOrderPaid", err)
	}
	defer tx.Rollback()

	status, err := getLeafletStatusInTx(tx, id)
	if err != nil {
		return models.LeafletOrder{}, err
	}
	if status != constants.LEAFLET_STATUS_FORPAYMENT {
		return models.LeafletOrder{}, apperr.Validation(
			"заказ #%d не ожидает оплаты (статус %s)", id, status)
	}

	if _, err = tx.Exec(
		`UPDATE leaflet_orders SET status = $1, who_did = $2, date_done = NOW() WHERE id = $3`,
		constants.LEAFLET_STATUS_DONE, constants.ActorOrUnknown(actor), id,
	); err != nil {
		log.Printf("MarkLeafletOrderPaid: ошибка закрытия заказа #%d: %v", id, err)
		return models.LeafletOrder{}, apperr.Store("MarkLeafletOrderPaid", err)
	}

	what := fmt.Sprintf("Листовочный заказ #%d оплачен и закрыт", id)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_LEAFLET); err != nil {
		return models.LeafletOrder{}, apperr.Store("MarkLeafletOrderPaid", err)
	}

	if err = tx.Commit(); err != nil {
		return models.LeafletOrder{}, apperr.Store("MarkLeafletOrderPaid", err)
	}
	return s.GetLeafletOrderByID(id)
}

// getLeafletStatusInTx получает статус листовочного заказа с блокировкой
// строки.
func getLeafletStatusInTx(tx *sql.Tx, id int64) (string, error) {
	var status string
	err := tx.QueryRow(`SELECT status FROM leaflet_orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFound("листовочный заказ", id)
		}
		return "", apperr.Store("getLeafletStatusInTx", err)
	}
	return status, nil
}

// scanLeafletOrder читает одну строку листовочного заказа.
func scanLeafletOrder(row rowScanner) (models.LeafletOrder, error) {
	var order models.LeafletOrder
	var dateDone sql.NullTime

	err := row.Scan(
		&order.ID, &order.CityID, &order.LeafletID, &order.DistributorID,
		&order.Quantity, &order.Status, &order.Distributed, &order.Returned,
		&order.Profit, &order.PaymentPhoto, &order.WhoDid,
		&order.DateCreated, &dateDone,
	)
	if err != nil {
		return order, err
	}
	if dateDone.Valid {
		order.DateDone = &dateDone.Time
	}
	return order, nil
}
