package store

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastercrm/internal/apperr"
)

func TestDeleteUser(t *testing.T) {
	t.Run("сессии удаляются раньше пользователя, бывшие токены перестают работать", func(t *testing.T) {
		s, mock := newTestStore(t)

		// Порядок ожиданий фиксирует порядок шагов транзакции:
		// сначала сессии, затем сам пользователь.
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("karina"))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE user_id = $1`)).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO logs`)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, s.DeleteUser(42, "Админ"))
		require.NoError(t, mock.ExpectationsWereMet())

		// Токены удаленных сессий теперь неизвестны базе: проверка
		// отвечает valid=false без ошибки.
		for _, token := range []string{"former-token-1", "former-token-2"} {
			mock.ExpectQuery(regexp.QuoteMeta(sessionSelect)).
				WithArgs(token).
				WillReturnError(sql.ErrNoRows)

			check, err := s.CheckSession(token)
			require.NoError(t, err)
			assert.False(t, check.Valid)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("сбой удаления пользователя после удаления сессий откатывается", func(t *testing.T) {
		s, mock := newTestStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("karina"))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE user_id = $1`)).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
			WithArgs(int64(42)).
			WillReturnError(fmt.Errorf("соединение разорвано"))
		mock.ExpectRollback()

		err := s.DeleteUser(42, "Админ")
		var se *apperr.StoreError
		assert.True(t, errors.As(err, &se), "ожидалась StoreError, получено: %v", err)
		assert.NoError(t, mock.ExpectationsWereMet(), "транзакция должна откатиться, commit недопустим")
	})

	t.Run("несуществующий пользователь — not found", func(t *testing.T) {
		s, mock := newTestStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE id = $1`)).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"username"}))
		mock.ExpectRollback()

		assert.True(t, apperr.IsNotFound(s.DeleteUser(404, "Админ")))
	})
}
