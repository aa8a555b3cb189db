package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// newTestStore подменяет соединение с базой моком драйвера.
func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

// orderColumns — колонки в порядке orderSelectColumns.
var orderColumns = []string{
	"id", "full_name", "phone", "address", "status", "arrive_date",
	"visit_type", "city_id", "leaflet_id", "equipment_type",
	"received", "outlay", "received_worker", "master_id", "is_notificated",
	"date_created", "date_done",
}

// orderRow собирает строку заказа с незаполненными NULL-полями.
func orderRow(id int64, status string, dateDone any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderColumns).AddRow(
		id, "Иванов Иван", "+79261234567", "ул. Ленина, 1", status, now.Add(2*time.Hour),
		"FIRST", int64(1), nil, "Холодильник",
		nil, nil, nil, nil, false,
		now, dateDone,
	)
}

var documentColumns = []string{"id", "order_id", "file_path", "uploaded_at"}
