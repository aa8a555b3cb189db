// Файл: internal/store/session_ops.go
package store

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"mastercrm/internal/apperr"
	"mastercrm/internal/models"
)

// IssueSession создает сессию для пользователя: генерирует токен и
// выставляет срок действия. Вызывается при успешном входе.
func (s *Store) IssueSession(userID int64, ttl time.Duration) (models.Session, error) {
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		Valid:     true,
	}

	err := s.db.QueryRow(
		`INSERT INTO sessions (token, user_id, created_at, expires_at, valid)
         VALUES ($1, $2, NOW(), $3, TRUE)
         RETURNING id, created_at`,
		session.Token, userID, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		log.Printf("IssueSession: ошибка создания сессии для пользователя %d: %v", userID, err)
		return models.Session{}, apperr.Store("IssueSession", err)
	}
	return session, nil
}

// CheckSession проверяет токен и отвечает "закрыто по умолчанию":
// отсутствующий токен, неизвестный токен, отозванная или истекшая сессия —
// все это valid=false без ошибки. Ошибка возвращается только при сбое
// самого хранилища.
func (s *Store) CheckSession(token string) (models.SessionCheck, error) {
	if token == "" {
		return models.SessionCheck{Valid: false}, nil
	}

	var userID int64
	var valid bool
	var expiresAt time.Time
	err := s.db.QueryRow(
		`SELECT user_id, valid, expires_at FROM sessions WHERE token = $1`,
		token,
	).Scan(&userID, &valid, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SessionCheck{Valid: false}, nil
		}
		log.Printf("CheckSession: ошибка проверки токена: %v", err)
		return models.SessionCheck{Valid: false}, apperr.Store("CheckSession", err)
	}

	if !valid || !expiresAt.After(time.Now()) {
		return models.SessionCheck{Valid: false}, nil
	}
	return models.SessionCheck{Valid: true, UserID: &userID}, nil
}

// RevokeSession отзывает все сессии с указанным токеном (страховка на случай
// дубликатов). Переход одностороннний: valid никогда не возвращается в true.
// Возвращает число отозванных строк.
func (s *Store) RevokeSession(token string) (int64, error) {
	result, err := s.db.Exec(`UPDATE sessions SET valid = FALSE WHERE token = $1`, token)
	if err != nil {
		log.Printf("RevokeSession: ошибка отзыва сессии: %v", err)
		return 0, apperr.Store("RevokeSession", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperr.Store("RevokeSession", err)
	}
	return affected, nil
}

// ListSessionsForUser возвращает сессии пользователя, новые первыми.
func (s *Store) ListSessionsForUser(userID int64) ([]models.Session, error) {
	rows, err := s.db.Query(
		`SELECT id, token, user_id, created_at, expires_at, valid
         FROM sessions WHERE user_id = $1
         ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		log.Printf("ListSessionsForUser: ошибка выборки сессий пользователя %d: %v", userID, err)
		return nil, apperr.Store("ListSessionsForUser", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID, &session.Token, &session.UserID,
			&session.CreatedAt, &session.ExpiresAt, &session.Valid,
		); err != nil {
			return nil, apperr.Store("ListSessionsForUser", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("ListSessionsForUser", err)
	}
	return sessions, nil
}
