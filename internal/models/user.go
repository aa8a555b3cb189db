package models

import "time"

// User — пользователь дашборда.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"`
	Role            string    `json:"role"`
	VisibilityScope string    `json:"visibility_scope,omitempty"`
	FullName        string    `json:"full_name"`
	CreatedAt       time.Time `json:"created_at"`
}

// Session — сессия пользователя с bearer-токеном.
// Сессия пригодна к использованию, только если valid == true
// и expires_at > now. Поле valid переключается только в false
// (явный отзыв) и никогда не возвращается в true.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Valid     bool      `json:"valid"`
}

// SessionCheck — результат проверки токена. Отсутствие валидности —
// единственный отрицательный сигнал: неизвестный токен не является ошибкой.
type SessionCheck struct {
	Valid  bool   `json:"valid"`
	UserID *int64 `json:"user_id,omitempty"`
}
