// Файл: internal/api/session_handlers.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"mastercrm/internal/models"
	"mastercrm/internal/store"
	"mastercrm/internal/utils"
)

// LoginRequest — тело запроса входа.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse — токен сессии и данные пользователя.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Login проверяет логин и пароль и выдает сессию.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.store.GetUserByUsername(req.Username)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := utils.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		writeJSONError(w, http.StatusUnauthorized, "неверный логин или пароль")
		return
	}

	ttl := time.Duration(h.cfg.SessionTTLHours) * time.Hour
	session, err := h.store.IssueSession(user.ID, ttl)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSONSuccess(w, "Logged in", LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	})
}

// Logout отзывает сессию текущего запроса.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.store.RevokeSession(bearerToken(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Logged out", map[string]int64{"revoked": revoked})
}

// SessionCheck проверяет токен из заголовка Authorization. Невалидный
// токен — это не ошибка: ответ всегда 200 с valid=true/false.
func (h *Handler) SessionCheck(w http.ResponseWriter, r *http.Request) {
	check, err := h.store.CheckSession(bearerToken(r))
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(check)
}

// --- Пользователи (только админ) ---

// CreateUser создает пользователя дашборда.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input store.UserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "password is required")
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}

	user, err := h.store.CreateUser(input, hash, actorFromContext(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "User created", user)
}

// ListUsers возвращает всех пользователей.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Users retrieved", users)
}

// DeleteUser удаляет пользователя вместе с его сессиями.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := h.store.DeleteUser(id, actorFromContext(r)); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "User deleted", nil)
}

// ListUserSessions возвращает сессии пользователя, новые первыми.
func (h *Handler) ListUserSessions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	sessions, err := h.store.ListSessionsForUser(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSONSuccess(w, "Sessions retrieved", sessions)
}
