package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhangari/internal/adapter/api"
	"bhangari/internal/usecase"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newPriceHandler(t *testing.T) *PriceHandler {
	t.Helper()
	priceUseCase, err := usecase.NewPriceUseCase()
	require.NoError(t, err)

	dhaka := time.FixedZone("Asia/Dhaka", 6*60*60)
	h := NewPriceHandler(priceUseCase, dhaka)
	h.now = func() time.Time {
		// 23:30 UTC is already the next morning in Dhaka
		return time.Date(2026, time.October, 16, 23, 30, 0, 0, time.UTC)
	}
	return h
}

func TestListPrices(t *testing.T) {
	h := newPriceHandler(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/prices?category=paper", nil), rec)
	require.NoError(t, h.ListPrices(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []struct {
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &items))
	require.NotEmpty(t, items)
	for _, item := range items {
		assert.Equal(t, "paper", item.Category)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/prices?category=gold", nil), rec)
	require.NoError(t, h.ListPrices(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Error.Code)
}

func TestListSlots(t *testing.T) {
	h := newPriceHandler(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/schedule/slots", nil), rec)
	require.NoError(t, h.ListSlots(c))

	var data struct {
		Dates []struct {
			Value   string `json:"value"`
			Display string `json:"display"`
		} `json:"dates"`
		TimeSlots []struct {
			Value string `json:"value"`
		} `json:"time_slots"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))

	require.Len(t, data.Dates, 7)
	assert.Equal(t, "2026-10-17", data.Dates[0].Value)
	assert.Equal(t, "আজ", data.Dates[0].Display)
	assert.Equal(t, "2026-10-23", data.Dates[6].Value)
	assert.Len(t, data.TimeSlots, 6)
}

func TestListStatuses(t *testing.T) {
	h := newPriceHandler(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/pickups/statuses", nil), rec)
	require.NoError(t, h.ListStatuses(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending","label"`)
	assert.Contains(t, rec.Body.String(), `"terminal":true`)
	assert.Contains(t, rec.Body.String(), `"transitions"`)
}

func TestCreatePickupValidation(t *testing.T) {
	e := echo.New()
	e.Validator = api.NewValidator()

	// validation fails before the use case is reached
	h := NewPickupHandler(nil, nil, nil)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			"no materials",
			`{"materials":[],"date":"2026-10-18","time_slot":"08:00-10:00","address":"Mirpur 10","phone":"01712345678"}`,
			"materials must be at least 1",
		},
		{
			"bad phone",
			`{"materials":[{"name":"কাগজ","quantity":2}],"date":"2026-10-18","time_slot":"08:00-10:00","address":"Mirpur 10","phone":"12345"}`,
			"phone must be a valid Bangladesh mobile number",
		},
		{
			"missing address",
			`{"materials":[{"name":"কাগজ","quantity":2}],"date":"2026-10-18","time_slot":"08:00-10:00","phone":"01712345678"}`,
			"address is required",
		},
		{
			"too many images",
			`{"materials":[{"name":"কাগজ","quantity":2}],"images":["https://a/1","https://a/2","https://a/3","https://a/4","https://a/5","https://a/6"],"date":"2026-10-18","time_slot":"08:00-10:00","address":"Mirpur 10","phone":"01712345678"}`,
			"images must be at most 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/pickups", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set("uid", "h1")
			c.Set("role", "household")

			require.NoError(t, h.CreatePickup(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			env := decode(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			assert.Contains(t, env.Error.Message, tt.message)
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	e := echo.New()
	e.Validator = api.NewValidator()
	h := NewPickupHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/pickups/estimate", strings.NewReader(`{"materials":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Estimate(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decode(t, rec).Success)
}
