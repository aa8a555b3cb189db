package store

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionSelect = `SELECT user_id, valid, expires_at FROM sessions WHERE token = $1`

func TestCheckSession(t *testing.T) {
	t.Run("пустой токен отклоняется без обращения к базе", func(t *testing.T) {
		s, mock := newTestStore(t)

		check, err := s.CheckSession("")
		require.NoError(t, err)
		assert.False(t, check.Valid)
		assert.Nil(t, check.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("неизвестный токен — valid=false без ошибки", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sessionSelect)).
			WithArgs("no-such-token").
			WillReturnError(sql.ErrNoRows)

		check, err := s.CheckSession("no-such-token")
		require.NoError(t, err)
		assert.False(t, check.Valid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("истекшая сессия отклоняется", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sessionSelect)).
			WithArgs("expired-token").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "valid", "expires_at"}).
				AddRow(int64(42), true, time.Now().Add(-time.Minute)))

		check, err := s.CheckSession("expired-token")
		require.NoError(t, err)
		assert.False(t, check.Valid)
	})

	t.Run("отозванная сессия отклоняется до срока", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sessionSelect)).
			WithArgs("revoked-token").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "valid", "expires_at"}).
				AddRow(int64(42), false, time.Now().Add(time.Hour)))

		check, err := s.CheckSession("revoked-token")
		require.NoError(t, err)
		assert.False(t, check.Valid)
	})

	t.Run("действующая сессия возвращает пользователя", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sessionSelect)).
			WithArgs("good-token").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "valid", "expires_at"}).
				AddRow(int64(42), true, time.Now().Add(time.Hour)))

		check, err := s.CheckSession("good-token")
		require.NoError(t, err)
		assert.True(t, check.Valid)
		require.NotNil(t, check.UserID)
		assert.Equal(t, int64(42), *check.UserID)
	})
}

func TestRevokeSession(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE sessions SET valid = FALSE WHERE token = $1`)).
		WithArgs("good-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	revoked, err := s.RevokeSession("good-token")
	require.NoError(t, err)
	assert.Equal(t, int64(1), revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueSession(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	session, err := s.IssueSession(42, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.ID)
	assert.Equal(t, int64(42), session.UserID)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.Valid)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}
