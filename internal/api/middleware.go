// Файл: internal/api/middleware.go
package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"mastercrm/internal/constants"
	"mastercrm/internal/models"
)

// UserContextKey - ключ для сохранения данных пользователя в контексте запроса.
var UserContextKey = &contextKey{"User"}

type contextKey struct {
	name string
}

// bearerToken извлекает токен из заголовка Authorization.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthMiddleware проверяет bearer-токен сессии. Проверка «закрыта по
// умолчанию»: любой невалидный токен дает 401 без деталей.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing bearer token")
			return
		}

		check, err := h.store.CheckSession(token)
		if err != nil {
			log.Printf("AuthMiddleware: ошибка проверки сессии: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Server error")
			return
		}
		if !check.Valid {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized: invalid or expired session")
			return
		}

		user, err := h.store.GetUserByID(*check.UserID)
		if err != nil {
			log.Printf("AuthMiddleware: пользователь %d не найден: %v", *check.UserID, err)
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized: user not found")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole пропускает только пользователей с перечисленными ролями.
// Админ проходит всегда.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(UserContextKey).(models.User)
			if !ok {
				writeJSONError(w, http.StatusForbidden, "Forbidden: user data not found in context")
				return
			}

			if user.Role == constants.ROLE_ADMIN {
				next.ServeHTTP(w, r)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "Forbidden: insufficient permissions")
		})
	}
}

// userFromContext достает аутентифицированного пользователя из контекста.
func userFromContext(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(models.User)
	return user, ok
}

// actorFromContext возвращает имя автора действия для журнала. Пустая
// строка допустима: хранилище заменит ее на маркер неизвестного автора.
func actorFromContext(r *http.Request) string {
	user, ok := userFromContext(r)
	if !ok {
		return ""
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}
