package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastercrm/internal/constants"
	"mastercrm/internal/models"
)

func TestBuildPeriods(t *testing.T) {
	t.Run("годы по убыванию, месяцы по возрастанию", func(t *testing.T) {
		byYear := map[int]map[int]bool{
			2024: {2: true, 0: true},
			2023: {11: true},
		}

		periods := buildPeriods(byYear)
		require.Len(t, periods, 2)
		assert.Equal(t, models.Period{Year: 2024, Months: []int{0, 2}}, periods[0])
		assert.Equal(t, models.Period{Year: 2023, Months: []int{11}}, periods[1])
	})

	t.Run("пустой ввод дает пустой список", func(t *testing.T) {
		assert.Empty(t, buildPeriods(map[int]map[int]bool{}))
	})
}

func TestMonthStats(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery(`COALESCE\(SUM\(received\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "received", "outlay", "received_worker"}).
			AddRow(3, 1000.0, 200.0, 300.0))

	stats, err := s.MonthStats(2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 1000.0, stats.Received)
	assert.Equal(t, 200.0, stats.Outlay)
	assert.Equal(t, 300.0, stats.ReceivedWorker)
	assert.Equal(t, 500.0, stats.Profit)
}

func TestMonthStatsEmptyMonth(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery(`COALESCE\(SUM\(received\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "received", "outlay", "received_worker"}).
			AddRow(0, 0.0, 0.0, 0.0))

	stats, err := s.MonthStats(2025, time.January)
	require.NoError(t, err)
	assert.Equal(t, models.FinancialStats{}, stats)
}

func TestCountByStatus(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery(`FROM orders`).
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8"}).
			AddRow(5, 1, 2, 0, 0, 0, 0, 12))

	counts, err := s.CountByStatus()
	require.NoError(t, err)
	assert.Len(t, counts, len(constants.OrderStatuses), "каждый статус присутствует в ответе")
	assert.Equal(t, 5, counts[constants.STATUS_PENDING])
	assert.Equal(t, 12, counts[constants.STATUS_DONE])
	assert.Equal(t, 0, counts[constants.STATUS_CANCEL_CC], "отсутствующие статусы отдаются нулем")
}

func TestLeafletStatistics(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery(`FROM leaflet_orders`).
		WillReturnRows(sqlmock.NewRows([]string{"c1", "c2", "c3", "c4", "c5", "to_pay", "paid"}).
			AddRow(2, 1, 4, 0, 1, 750.0, 3200.0))

	stats, err := s.LeafletStatistics()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Counts[constants.LEAFLET_STATUS_IN_PROCESS])
	assert.Equal(t, 4, stats.Counts[constants.LEAFLET_STATUS_DONE])
	assert.Equal(t, 0, stats.Counts[constants.LEAFLET_STATUS_CANCELLED])
	assert.Equal(t, 750.0, stats.ToPay)
	assert.Equal(t, 3200.0, stats.Paid)
}

func TestDoneOrdersForMonth(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now()
	rows := sqlmock.NewRows(orderColumns).
		AddRow(int64(1), "Иванов", "+79261234567", "", constants.STATUS_DONE, now,
			"", int64(1), nil, "", 1000.0, 100.0, 200.0, int64(3), true, now, now).
		AddRow(int64(2), "Петров", "+79261234568", "", constants.STATUS_DONE, now,
			"", int64(1), nil, "", 500.0, 0.0, 100.0, int64(3), true, now, now)
	mock.ExpectQuery(`FROM orders o`).WillReturnRows(rows)

	orders, err := s.DoneOrdersForMonth(2025, time.March)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(1), orders[0].ID)
	require.NotNil(t, orders[0].Received)
	assert.Equal(t, 1000.0, *orders[0].Received)
}
