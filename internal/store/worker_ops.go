package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"mastercrm/internal/apperr"
	"mastercrm/internal/constants"
	"mastercrm/internal/models"
	"mastercrm/internal/utils"
)

// CreateWorker создает мастера.
func (s *Store) CreateWorker(in models.Worker, actor string) (models.Worker, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return models.Worker{}, apperr.Validation("ФИО мастера обязательно")
	}
	if in.Phone != "" {
		phone, err := utils.ValidatePhoneNumber(in.Phone)
		if err != nil {
			return models.Worker{}, apperr.Validation("некорректный телефон: %v", err)
		}
		in.Phone = phone
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Worker{}, apperr.Store("CreateWorker", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO workers (full_name, phone, telegram_username)
         VALUES ($1, $2, $3) RETURNING id`,
		in.FullName, in.Phone, in.TelegramUsername,
	).Scan(&in.ID)
	if err != nil {
		log.Printf("CreateWorker: ошибка создания мастера '%s': %v", in.FullName, err)
		return models.Worker{}, apperr.Store("CreateWorker", err)
	}

	what := fmt.Sprintf("Добавлен мастер '%s'", in.FullName)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_WORKER); err != nil {
		return models.Worker{}, apperr.Store("CreateWorker", err)
	}

	if err = tx.Commit(); err != nil {
		return models.Worker{}, apperr.Store("CreateWorker", err)
	}
	return in, nil
}

// GetWorkerByID извлекает мастера по ID.
func (s *Store) GetWorkerByID(id int64) (models.Worker, error) {
	var worker models.Worker
	err := s.db.QueryRow(
		`SELECT id, full_name, COALESCE(phone, ''), COALESCE(telegram_username, '')
         FROM workers WHERE id = $1`, id,
	).Scan(&worker.ID, &worker.FullName, &worker.Phone, &worker.TelegramUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Worker{}, apperr.NotFound("мастер", id)
		}
		log.Printf("GetWorkerByID: ошибка выборки мастера %d: %v", id, err)
		return models.Worker{}, apperr.Store("GetWorkerByID", err)
	}
	return worker, nil
}

// ListWorkers возвращает всех мастеров.
func (s *Store) ListWorkers() ([]models.Worker, error) {
	rows, err := s.db.Query(
		`SELECT id, full_name, COALESCE(phone, ''), COALESCE(telegram_username, '')
         FROM workers ORDER BY full_name`)
	if err != nil {
		log.Printf("ListWorkers: ошибка выборки мастеров: %v", err)
		return nil, apperr.Store("ListWorkers", err)
	}
	defer rows.Close()

	var workers []models.Worker
	for rows.Next() {
		var worker models.Worker
		if err := rows.Scan(&worker.ID, &worker.FullName, &worker.Phone, &worker.TelegramUsername); err != nil {
			return nil, apperr.Store("ListWorkers", err)
		}
		workers = append(workers, worker)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("ListWorkers", err)
	}
	return workers, nil
}

// DeleteWorker удаляет мастера. Ссылки с заказов снимаются в той же
// транзакции (master_id -> NULL), чтобы не оставлять висячих ссылок.
func (s *Store) DeleteWorker(id int64, actor string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.Store("DeleteWorker", err)
	}
	defer tx.Rollback()

	var fullName string
	err = tx.QueryRow(`SELECT full_name FROM workers WHERE id = $1`, id).Scan(&fullName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("мастер", id)
		}
		return apperr.Store("DeleteWorker", err)
	}

	if _, err = tx.Exec(`UPDATE orders SET master_id = NULL WHERE master_id = $1`, id); err != nil {
		log.Printf("DeleteWorker: ошибка снятия мастера %d с заказов: %v", id, err)
		return apperr.Store("DeleteWorker", err)
	}
	if _, err = tx.Exec(`DELETE FROM workers WHERE id = $1`, id); err != nil {
		log.Printf("DeleteWorker: ошибка удаления мастера %d: %v", id, err)
		return apperr.Store("DeleteWorker", err)
	}

	what := fmt.Sprintf("Удален мастер '%s'", fullName)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_WORKER); err != nil {
		return apperr.Store("DeleteWorker", err)
	}

	if err = tx.Commit(); err != nil {
		return apperr.Store("DeleteWorker", err)
	}
	log.Printf("Мастер '%s' (id %d) удален, заказы отвязаны.", fullName, id)
	return nil
}
