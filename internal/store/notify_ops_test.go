package store

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastercrm/internal/apperr"
	"mastercrm/internal/constants"
)

func TestDueForNotification(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now()

	mock.ExpectQuery(`o\.is_notificated = FALSE`).
		WithArgs(now, now.Add(24*time.Hour), constants.STATUS_DONE, constants.STATUS_DECLINED).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(int64(1), "Иванов", "+79261234567", "", constants.STATUS_PENDING, now.Add(2*time.Hour),
				"", int64(1), nil, "", nil, nil, nil, nil, false, now, nil).
			AddRow(int64(2), "Петров", "+79261234568", "", constants.STATUS_ON_THE_WAY, now.Add(5*time.Hour),
				"", int64(1), nil, "", nil, nil, nil, nil, false, now, nil))

	orders, err := s.DueForNotification(now, 24)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(1), orders[0].ID)
	assert.False(t, orders[0].IsNotificated)
}

func TestMarkNotified(t *testing.T) {
	markExec := regexp.QuoteMeta(`UPDATE orders SET is_notificated = TRUE WHERE id = $1 AND is_notificated = FALSE`)

	t.Run("первый вызов выставляет флаг", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectExec(markExec).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`FROM orders o WHERE o\.id`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(orderColumns).
				AddRow(int64(5), "Иванов", "+79261234567", "", constants.STATUS_PENDING, time.Now(),
					"", int64(1), nil, "", nil, nil, nil, nil, true, time.Now(), nil))
		mock.ExpectQuery(`FROM order_documents`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(documentColumns))

		order, err := s.MarkNotified(5)
		require.NoError(t, err)
		assert.True(t, order.IsNotificated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("повторный вызов не является ошибкой", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectExec(markExec).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FROM orders o WHERE o\.id`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(orderColumns).
				AddRow(int64(5), "Иванов", "+79261234567", "", constants.STATUS_PENDING, time.Now(),
					"", int64(1), nil, "", nil, nil, nil, nil, true, time.Now(), nil))
		mock.ExpectQuery(`FROM order_documents`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(documentColumns))

		order, err := s.MarkNotified(5)
		require.NoError(t, err)
		assert.True(t, order.IsNotificated)
	})

	t.Run("несуществующий заказ — not found", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectExec(markExec).
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FROM orders o WHERE o\.id`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(orderColumns))

		_, err := s.MarkNotified(404)
		assert.True(t, apperr.IsNotFound(err))
	})
}
