package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kcmvp/rawsql/constraint"
	"github.com/kcmvp/rawsql/dao"
	"github.com/kcmvp/rawsql/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	ds := store.DataSource{Driver: "sqlite3", URL: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())}
	m, err := store.Open(context.Background(), ds, store.WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	router, err := NewRouter(m, logger)
	require.NoError(t, err)
	return router, &buf
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestUsers(t *testing.T) {
	router, _ := setupRouter(t)

	rec := do(router, http.MethodPost, "/users", `{"name":"Компьюктер","email":"popa@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "id").Int())
	assert.Equal(t, "Компьюктер", gjson.Get(body, "name").String())
	assert.True(t, gjson.Get(body, "is_active").Bool())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"duplicate email", http.MethodPost, "/users", `{"name":"B","email":"popa@example.com"}`, http.StatusConflict},
		{"name too long", http.MethodPost, "/users", fmt.Sprintf(`{"name":"%s","email":"b@x.com"}`, strings.Repeat("x", 51)), http.StatusBadRequest},
		{"missing email", http.MethodPost, "/users", `{"name":"B"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/users", `{"name":"B","email":"b@x.com","age":3}`, http.StatusBadRequest},
		{"invalid json", http.MethodPost, "/users", `{"name":`, http.StatusBadRequest},
		{"get", http.MethodGet, "/users/1", "", http.StatusOK},
		{"get missing", http.MethodGet, "/users/9", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/users/abc", "", http.StatusBadRequest},
		{"empty patch", http.MethodPatch, "/users/1", `{}`, http.StatusBadRequest},
		{"patch missing", http.MethodPatch, "/users/9", `{"name":"C"}`, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/users/9", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(router, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.status != http.StatusOK {
				assert.NotEmpty(t, gjson.Get(rec.Body.String(), "error").String())
			}
		})
	}

	rec = do(router, http.MethodPatch, "/users/1", `{"name":"B","is_active":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "B", gjson.Get(rec.Body.String(), "name").String())
	assert.False(t, gjson.Get(rec.Body.String(), "is_active").Bool())
	assert.Equal(t, "popa@example.com", gjson.Get(rec.Body.String(), "email").String())

	rec = do(router, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "#").Int())

	rec = do(router, http.MethodDelete, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(router, http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrdersAndPayments(t *testing.T) {
	router, _ := setupRouter(t)

	rec := do(router, http.MethodPost, "/users", `{"name":"A","email":"a@x.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(router, http.MethodPost, "/orders", `{"user_id":1,"total_amount":3.0,"status":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 3.0, gjson.Get(rec.Body.String(), "total_amount").Float())
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "status").Int())

	rec = do(router, http.MethodPost, "/orders", `{"user_id":42,"total_amount":1,"status":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = do(router, http.MethodPost, "/orders", `{"user_id":1,"total_amount":1,"status":7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = do(router, http.MethodPost, "/orders", `{"user_id":1,"total_amount":12345678901234567.89,"status":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// passes the payload bound but rounds up to it when stored
	rec = do(router, http.MethodPost, "/orders", `{"user_id":1,"total_amount":99999999.999,"status":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = do(router, http.MethodPatch, "/orders/1", `{"total_amount":100000000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = do(router, http.MethodPatch, "/orders/1", `{"order_date":"1970-01-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1970-01-01T00:00:00Z", gjson.Get(rec.Body.String(), "order_date").String())

	rec = do(router, http.MethodGet, "/users/1/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "#").Int())

	rec = do(router, http.MethodGet, "/users/9/orders", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodPost, "/payments", `{"user_id":1,"order_id":1,"payment_method":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(2), gjson.Get(rec.Body.String(), "payment_method").Int())

	rec = do(router, http.MethodGet, "/payments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "#").Int())

	rec = do(router, http.MethodDelete, "/orders/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/payments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{store.NotFound("get"), http.StatusNotFound},
		{&store.Error{Op: "insert", Kind: store.KindIntegrity, Err: errors.New("UNIQUE")}, http.StatusConflict},
		{&store.Error{Op: "insert", Kind: store.KindExec, Err: errors.New("disk I/O")}, http.StatusInternalServerError},
		{dao.ErrEmptyUpdate, http.StatusBadRequest},
		{fmt.Errorf("field 'name': %w", constraint.ErrLengthMax), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.status, Status(tc.err), tc.err.Error())
	}
}
