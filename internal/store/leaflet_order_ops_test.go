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
	"mastercrm/internal/models"
)

var leafletOrderColumns = []string{
	"id", "city_id", "leaflet_id", "distributor_id", "quantity", "status",
	"distributed", "returned", "profit", "payment_photo", "who_did",
	"date_created", "date_done",
}

func leafletOrderRow(id int64, status string, distributed, returned int, profit float64, dateDone any) *sqlmock.Rows {
	return sqlmock.NewRows(leafletOrderColumns).AddRow(
		id, int64(1), int64(2), int64(3), 100, status,
		distributed, returned, profit, "", "Карина",
		time.Now(), dateDone,
	)
}

func TestCreateLeafletOrderValidation(t *testing.T) {
	tests := []struct {
		name  string
		input models.LeafletOrderInput
	}{
		{name: "без листовки", input: models.LeafletOrderInput{CityID: 1, DistributorID: 1, Quantity: 100}},
		{name: "без города", input: models.LeafletOrderInput{LeafletID: 1, DistributorID: 1, Quantity: 100}},
		{name: "без разносчика", input: models.LeafletOrderInput{LeafletID: 1, CityID: 1, Quantity: 100}},
		{name: "нулевое количество", input: models.LeafletOrderInput{LeafletID: 1, CityID: 1, DistributorID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newTestStore(t)

			_, err := s.CreateLeafletOrder(tt.input, "Карина")
			assert.True(t, apperr.IsValidation(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCompleteLeafletOrder(t *testing.T) {
	completeSelect := regexp.QuoteMeta(`SELECT lo.quantity, lo.status, COALESCE(l.value, 0)`)

	t.Run("разнесено плюс возвращено не может превышать количество", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery(completeSelect).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"quantity", "status", "value"}).
				AddRow(100, constants.LEAFLET_STATUS_IN_PROCESS, 5.0))
		mock.ExpectRollback()

		_, err := s.CompleteLeafletOrder(7, true, 90, 20, "Карина")
		assert.True(t, apperr.IsValidation(err), "90+20 > 100 должно отклоняться, получено: %v", err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("успешное завершение считает прибыль", func(t *testing.T) {
		s, mock := newTestStore(t)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(completeSelect).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"quantity", "status", "value"}).
				AddRow(100, constants.LEAFLET_STATUS_IN_PROCESS, 5.0))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE leaflet_orders`)).
			WithArgs(constants.LEAFLET_STATUS_DONE, 80, 15, 400.0, "Карина", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO logs`)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
		mock.ExpectQuery(`FROM leaflet_orders lo WHERE lo\.id`).
			WithArgs(int64(7)).
			WillReturnRows(leafletOrderRow(7, constants.LEAFLET_STATUS_DONE, 80, 15, 400.0, now))

		order, err := s.CompleteLeafletOrder(7, true, 80, 15, "Карина")
		require.NoError(t, err)
		assert.Equal(t, constants.LEAFLET_STATUS_DONE, order.Status)
		assert.Equal(t, 400.0, order.Profit)
		require.NotNil(t, order.DateDone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("неуспешное завершение без разноски — DECLINED", func(t *testing.T) {
		s, mock := newTestStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(completeSelect).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"quantity", "status", "value"}).
				AddRow(100, constants.LEAFLET_STATUS_IN_PROCESS, 5.0))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE leaflet_orders`)).
			WithArgs(constants.LEAFLET_STATUS_DECLINED, 0, 0, 0.0, "Карина", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO logs`)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
		mock.ExpectQuery(`FROM leaflet_orders lo WHERE lo\.id`).
			WithArgs(int64(7)).
			WillReturnRows(leafletOrderRow(7, constants.LEAFLET_STATUS_DECLINED, 0, 0, 0, time.Now()))

		order, err := s.CompleteLeafletOrder(7, false, 0, 0, "Карина")
		require.NoError(t, err)
		assert.Equal(t, constants.LEAFLET_STATUS_DECLINED, order.Status)
	})

	t.Run("завершенный заказ не завершается повторно", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery(completeSelect).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"quantity", "status", "value"}).
				AddRow(100, constants.LEAFLET_STATUS_DONE, 5.0))
		mock.ExpectRollback()

		_, err := s.CompleteLeafletOrder(7, true, 80, 15, "Карина")
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("отрицательные счетчики отклоняются", func(t *testing.T) {
		s, mock := newTestStore(t)

		_, err := s.CompleteLeafletOrder(7, true, -1, 0, "Карина")
		assert.True(t, apperr.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEditLeafletOrder(t *testing.T) {
	t.Run("отрицательное количество отклоняется", func(t *testing.T) {
		s, mock := newTestStore(t)

		_, err := s.EditLeafletOrder(7, -5, "Карина")
		assert.True(t, apperr.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("завершенный заказ не редактируется", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM leaflet_orders WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(constants.LEAFLET_STATUS_CANCELLED))
		mock.ExpectRollback()

		_, err := s.EditLeafletOrder(7, 50, "Карина")
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestMarkLeafletOrderPaid(t *testing.T) {
	t.Run("оплата возможна только из FORPAYMENT", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM leaflet_orders WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(constants.LEAFLET_STATUS_IN_PROCESS))
		mock.ExpectRollback()

		_, err := s.MarkLeafletOrderPaid(7, "Карина")
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("несуществующий заказ — not found", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM leaflet_orders WHERE id = $1 FOR UPDATE`)).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}))
		mock.ExpectRollback()

		_, err := s.MarkLeafletOrderPaid(404, "Карина")
		assert.True(t, apperr.IsNotFound(err))
	})
}
