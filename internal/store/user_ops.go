// Файл: internal/store/user_ops.go
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

// UserInput — входные данные для создания пользователя (только админ).
type UserInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	VisibilityScope string `json:"visibility_scope"`
	FullName        string `json:"full_name"`
}

// CreateUser создает пользователя. Зона видимости обязательна для всех
// ролей, кроме advertising.
func (s *Store) CreateUser(in UserInput, passwordHash, actor string) (models.User, error) {
	if in.Username == "" || passwordHash == "" {
		return models.User{}, apperr.Validation("логин и пароль обязательны")
	}
	switch in.Role {
	case constants.ROLE_ADMIN, constants.ROLE_MANAGER, constants.ROLE_ADVERTISING:
	default:
		return models.User{}, apperr.Validation("неизвестная роль: '%s'", in.Role)
	}
	if in.Role != constants.ROLE_ADVERTISING && in.VisibilityScope == "" {
		return models.User{}, apperr.Validation("зона видимости обязательна для роли '%s'", in.Role)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.User{}, apperr.Store("CreateUser", err)
	}
	defer tx.Rollback()

	user := models.User{
		Username:        in.Username,
		PasswordHash:    passwordHash,
		Role:            in.Role,
		VisibilityScope: in.VisibilityScope,
		FullName:        in.FullName,
	}
	err = tx.QueryRow(
		`INSERT INTO users (username, password_hash, role, visibility_scope, full_name, created_at)
         VALUES ($1, $2, $3, NULLIF($4, ''), $5, NOW())
         RETURNING id, created_at`,
		in.Username, passwordHash, in.Role, in.VisibilityScope, in.FullName,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		log.Printf("CreateUser: ошибка создания пользователя '%s': %v", in.Username, err)
		return models.User{}, apperr.Store("CreateUser", err)
	}

	what := fmt.Sprintf("Создан пользователь '%s' (роль: %s)", in.Username, in.Role)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_USER); err != nil {
		return models.User{}, apperr.Store("CreateUser", err)
	}

	if err = tx.Commit(); err != nil {
		return models.User{}, apperr.Store("CreateUser", err)
	}
	log.Printf("Пользователь '%s' создан (id %d).", user.Username, user.ID)
	return user, nil
}

// GetUserByID извлекает пользователя по ID.
func (s *Store) GetUserByID(id int64) (models.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, username, password_hash, role, COALESCE(visibility_scope, ''), COALESCE(full_name, ''), created_at
         FROM users WHERE id = $1`, id), id)
}

// GetUserByUsername извлекает пользователя по логину (для входа).
func (s *Store) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		`SELECT id, username, password_hash, role, COALESCE(visibility_scope, ''), COALESCE(full_name, ''), created_at
         FROM users WHERE username = $1`, username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.VisibilityScope, &user.FullName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.Auth("неверный логин или пароль")
		}
		log.Printf("GetUserByUsername: ошибка выборки пользователя '%s': %v", username, err)
		return models.User{}, apperr.Store("GetUserByUsername", err)
	}
	return user, nil
}

// ListUsers возвращает всех пользователей.
func (s *Store) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query(
		`SELECT id, username, password_hash, role, COALESCE(visibility_scope, ''), COALESCE(full_name, ''), created_at
         FROM users ORDER BY id`)
	if err != nil {
		log.Printf("ListUsers: ошибка выборки пользователей: %v", err)
		return nil, apperr.Store("ListUsers", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role,
			&user.VisibilityScope, &user.FullName, &user.CreatedAt); err != nil {
			return nil, apperr.Store("ListUsers", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("ListUsers", err)
	}
	return users, nil
}

// DeleteUser удаляет пользователя вместе с его сессиями. Сессии удаляются
// раньше самой строки пользователя; оба шага идут в одной транзакции, так
// что частичный сбой откатывается целиком и операцию безопасно повторить.
func (s *Store) DeleteUser(id int64, actor string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.Store("DeleteUser", err)
	}
	defer tx.Rollback()

	var username string
	err = tx.QueryRow(`SELECT username FROM users WHERE id = $1`, id).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("пользователь", id)
		}
		return apperr.Store("DeleteUser", err)
	}

	if _, err = tx.Exec(`DELETE FROM sessions WHERE user_id = $1`, id); err != nil {
		log.Printf("DeleteUser: ошибка удаления сессий пользователя %d: %v", id, err)
		return apperr.Store("DeleteUser", err)
	}
	if _, err = tx.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		log.Printf("DeleteUser: ошибка удаления пользователя %d: %v", id, err)
		return apperr.Store("DeleteUser", err)
	}

	what := fmt.Sprintf("Удален пользователь '%s'", username)
	if err = appendLogTx(tx, actor, what, constants.LOG_TYPE_USER); err != nil {
		return apperr.Store("DeleteUser", err)
	}

	if err = tx.Commit(); err != nil {
		return apperr.Store("DeleteUser", err)
	}
	log.Printf("Пользователь '%s' (id %d) удален вместе с сессиями.", username, id)
	return nil
}

func (s *Store) scanUser(row *sql.Row, id int64) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.VisibilityScope, &user.FullName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.NotFound("пользователь", id)
		}
		log.Printf("scanUser: ошибка выборки пользователя %d: %v", id, err)
		return models.User{}, apperr.Store("GetUser", err)
	}
	return user, nil
}
