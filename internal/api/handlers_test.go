package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastercrm/internal/config"
	"mastercrm/internal/store"
)

// newTestHandler собирает Handler с моком базы и временным каталогом
// под файлы.
func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	media, err := NewMediaStorage(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                 "8080",
		DashboardURL:         "http://localhost:8080",
		SessionTTLHours:      720,
		NotifyLookaheadHours: 24,
	}
	return NewHandler(cfg, store.New(db), media), mock
}

// withIDParam подставляет параметр маршрута {id}, как это делает chi.
func withIDParam(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) jsonResponse {
	t.Helper()
	var resp jsonResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestUpdateOrderStatusRequiresBothFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "без мастера", body: `{"status":"DONE"}`},
		{name: "без статуса", body: `{"master_id":3}`},
		{name: "пустое тело", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newTestHandler(t)

			req := httptest.NewRequest(http.MethodPatch, "/orders/5/status", strings.NewReader(tt.body))
			req = withIDParam(req, "5")
			rr := httptest.NewRecorder()
			h.UpdateOrderStatus(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decodeResponse(t, rr)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, "master_id and status are required", resp.Message)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateOrderStatusRejectsBadID(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPatch, "/orders/abc/status", strings.NewReader(`{"master_id":3,"status":"DONE"}`))
	req = withIDParam(req, "abc")
	rr := httptest.NewRecorder()
	h.UpdateOrderStatus(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSessionCheck(t *testing.T) {
	t.Run("без токена отвечает valid=false со статусом 200", func(t *testing.T) {
		h, mock := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/session/check", nil)
		rr := httptest.NewRecorder()
		h.SessionCheck(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"valid":false}`, rr.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("неизвестный токен — valid=false", func(t *testing.T) {
		h, mock := newTestHandler(t)
		mock.ExpectQuery(`FROM sessions WHERE token`).
			WithArgs("no-such-token").
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest(http.MethodGet, "/session/check", nil)
		req.Header.Set("Authorization", "Bearer no-such-token")
		rr := httptest.NewRecorder()
		h.SessionCheck(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"valid":false}`, rr.Body.String())
	})
}

func TestLoginUnknownUser(t *testing.T) {
	h, mock := newTestHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"ghost","password":"secret"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	resp := decodeResponse(t, rr)
	assert.Equal(t, "error", resp.Status)
}

func TestLoginRequiresCredentials(t *testing.T) {
	h, mock := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"ghost"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthMiddlewareWithoutToken(t *testing.T) {
	h, mock := newTestHandler(t)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rr := httptest.NewRecorder()
	h.AuthMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, called, "обработчик не должен вызываться без токена")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditLeafletOrderRequiresQuantity(t *testing.T) {
	h, mock := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPatch, "/distribution/7/edit", strings.NewReader(`{}`))
	req = withIDParam(req, "7")
	rr := httptest.NewRecorder()
	h.EditLeafletOrder(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeResponse(t, rr)
	assert.Equal(t, "quantity is required", resp.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// multipartWithoutFile собирает multipart-форму, в которой нет поля file.
func multipartWithoutFile(t *testing.T) (*strings.Reader, string) {
	t.Helper()
	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("comment", "без файла"))
	require.NoError(t, mw.Close())
	return strings.NewReader(buf.String()), mw.FormDataContentType()
}

func TestUploadPaymentProofRequiresFile(t *testing.T) {
	h, mock := newTestHandler(t)

	body, contentType := multipartWithoutFile(t)
	req := httptest.NewRequest(http.MethodPost, "/distribution/pay/7", body)
	req.Header.Set("Content-Type", contentType)
	req = withIDParam(req, "7")
	rr := httptest.NewRecorder()
	h.UploadPaymentProof(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeResponse(t, rr)
	assert.Equal(t, "error", resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet(), "без файла запрос не должен доходить до базы")
}

func TestAttachOrderDocumentRequiresFile(t *testing.T) {
	h, mock := newTestHandler(t)

	body, contentType := multipartWithoutFile(t)
	req := httptest.NewRequest(http.MethodPost, "/orders/5/documents", body)
	req.Header.Set("Content-Type", contentType)
	req = withIDParam(req, "5")
	rr := httptest.NewRecorder()
	h.AttachOrderDocument(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotifiedRequiresID(t *testing.T) {
	h, mock := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPatch, "/telegram", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.MarkNotified(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyStatsRejectsBadPeriod(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "месяц за пределами 0-11", query: "?year=2025&month=12"},
		{name: "нечисловой месяц", query: "?year=2025&month=abc"},
		{name: "нулевой год", query: "?year=0&month=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newTestHandler(t)

			req := httptest.NewRequest(http.MethodGet, "/statistics/monthly"+tt.query, nil)
			rr := httptest.NewRecorder()
			h.MonthlyStats(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
