package store

import (
	"database/sql"
	"log"

	"mastercrm/internal/apperr"
	"mastercrm/internal/constants"
	"mastercrm/internal/models"
)

// appendLogTx добавляет запись журнала в рамках транзакции мутирующей
// операции. Автор обязателен: пустое имя заменяется маркером UNKNOWN_ACTOR,
// чтобы атрибуция не терялась.
func appendLogTx(tx *sql.Tx, whoDid, whatHappened, logType string) error {
	_, err := tx.Exec(
		`INSERT INTO logs (who_did, what_happened, type, created_at) VALUES ($1, $2, $3, NOW())`,
		constants.ActorOrUnknown(whoDid), whatHappened, logType,
	)
	if err != nil {
		log.Printf("appendLogTx: ошибка записи в журнал: %v", err)
	}
	return err
}

// ListLogs возвращает записи журнала, новые первыми.
func (s *Store) ListLogs(limit int) ([]models.Log, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, who_did, what_happened, COALESCE(type, ''), created_at
         FROM logs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		log.Printf("ListLogs: ошибка выборки журнала: %v", err)
		return nil, apperr.Store("ListLogs", err)
	}
	defer rows.Close()

	var entries []models.Log
	for rows.Next() {
		var entry models.Log
		if err := rows.Scan(&entry.ID, &entry.WhoDid, &entry.WhatHappened, &entry.Type, &entry.CreatedAt); err != nil {
			return nil, apperr.Store("ListLogs", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("ListLogs", err)
	}
	return entries, nil
}
