package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(e http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAppointmentCreate(t *testing.T) {
	e, mock := newServer(t, testConfig())

	mock.ExpectExec(`INSERT INTO appointments`).
		WithArgs(sqlmock.AnyArg(), "2026-09-14", nil, "Nora", nil, "+21612345678", "mariage").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := postJSON(e, "/api/appointments",
		`{"date":"2026-09-14","name":"Nora","phone":"+21612345678","type":"mariage"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, "pending", resp["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreateValidation(t *testing.T) {
	e, mock := newServer(t, testConfig())

	tests := []struct {
		body string
		want string
	}{
		{`{"date":"2026-09-14","name":"","phone":"123"}`, "Missing required fields"},
		{`{"date":"","name":"Nora","phone":"123"}`, "Missing required fields"},
		{`{"date":"2026-09-14","name":"Nora","phone":""}`, "Missing required fields"},
		{`{"date":"14/09/2026","name":"Nora","phone":"123"}`, "Invalid date format"},
	}
	for _, tt := range tests {
		rec := postJSON(e, "/api/appointments", tt.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.body)
		assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rec.Body.String())
	}
	assert.NoError(t, mock.ExpectationsWereMet(), "invalid requests must not hit the store")
}
