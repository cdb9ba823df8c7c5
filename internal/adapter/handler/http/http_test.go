package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm8ta/webike_bike_registry/internal/config"
	"github.com/sm8ta/webike_bike_registry/internal/core/domain"
)

type fakeBikeService struct {
	stored  map[string]*domain.Bike
	saveErr error
	saved   []*domain.Bike
}

func (f *fakeBikeService) SelectBike(_ context.Context, frameNumber string) (*domain.Bike, error) {
	if b, ok := f.stored[frameNumber]; ok {
		return b, nil
	}
	return domain.NewBike(frameNumber), nil
}

func (f *fakeBikeService) SaveBike(_ context.Context, bike *domain.Bike) (domain.SaveResult, error) {
	if err := bike.Validate(); err != nil {
		return "", err
	}
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = append(f.saved, bike)
	if _, ok := f.stored[bike.FrameNumber]; ok {
		f.stored[bike.FrameNumber] = bike
		return domain.Updated, nil
	}
	f.stored[bike.FrameNumber] = bike
	return domain.Inserted, nil
}

type fakeMetrics struct {
	saves []string
}

func (m *fakeMetrics) RecordMetrics(*gin.Context, time.Time) {}
func (m *fakeMetrics) RecordSave(outcome string)             { m.saves = append(m.saves, outcome) }

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
func (nopLogger) Sync() error                          { return nil }

const testSecret = "test-secret"

func setupRouter(t *testing.T, svc *fakeBikeService, metrics *fakeMetrics, withAuth bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewBikeHandler(svc, nopLogger{}, metrics)
	cfg := &config.HTTP{Env: "test", AllowedOrigins: "*"}

	var (
		r   *Router
		err error
	)
	if withAuth {
		r, err = NewRouter(cfg, NewJWTTokenService(testSecret, nopLogger{}), nil, handler)
	} else {
		r, err = NewRouter(cfg, nil, nil, handler)
	}
	require.NoError(t, err)
	return r.Engine()
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validBody = `{
	"brand_type": "Trek X1",
	"description": "Good condition",
	"price": "450.00",
	"available_date": "2026-05-01",
	"color": "red"
}`

func TestGetBike_NewKey(t *testing.T) {
	router := setupRouter(t, &fakeBikeService{stored: map[string]*domain.Bike{}}, &fakeMetrics{}, false)

	rec := doRequest(router, http.MethodGet, "/bikes/AB1234", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp BikeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AB1234", resp.FrameNumber)
	assert.False(t, resp.Exists)
	assert.Nil(t, resp.Price)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSaveBike_InsertThenUpdate(t *testing.T) {
	svc := &fakeBikeService{stored: map[string]*domain.Bike{}}
	metrics := &fakeMetrics{}
	router := setupRouter(t, svc, metrics, false)

	rec := doRequest(router, http.MethodPut, "/bikes/AB1234", validBody, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(router, http.MethodPut, "/bikes/AB1234", validBody, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Data    SaveBikeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "updated", resp.Data.Result)
	require.NotNil(t, resp.Data.Bike.Price)
	assert.Equal(t, "450.00", *resp.Data.Bike.Price)
	assert.Equal(t, "Red", resp.Data.Bike.Color)
	assert.Equal(t, []string{"inserted", "updated"}, metrics.saves)

	rec = doRequest(router, http.MethodGet, "/bikes/AB1234", "", "")
	var got BikeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Exists)
	require.NotNil(t, got.AvailableDate)
	assert.Equal(t, "2026-05-01", *got.AvailableDate)
}

func TestSaveBike_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		saveErr error
		code    int
		message string
	}{
		{
			name:    "short frame number",
			path:    "/bikes/AB12",
			body:    validBody,
			code:    http.StatusUnprocessableEntity,
			message: "frame number must have at least 5 characters",
		},
		{
			name:    "missing price",
			path:    "/bikes/AB1234",
			body:    `{"brand_type":"Trek","description":"x","available_date":"2026-05-01","color":"Blue"}`,
			code:    http.StatusUnprocessableEntity,
			message: "price is required",
		},
		{
			name:    "price with three decimals",
			path:    "/bikes/AB1234",
			body:    `{"brand_type":"Trek","description":"x","price":"123.456","available_date":"2026-05-01","color":"Blue"}`,
			code:    http.StatusUnprocessableEntity,
			message: "price must have at most 2 decimal places",
		},
		{
			name: "malformed json",
			path: "/bikes/AB1234",
			body: `{"brand_type":`,
			code: http.StatusBadRequest,
		},
		{
			name: "bad date",
			path: "/bikes/AB1234",
			body: `{"brand_type":"Trek","description":"x","price":"1","available_date":"01.05.2026","color":"Blue"}`,
			code: http.StatusBadRequest,
		},
		{
			name: "bad color",
			path: "/bikes/AB1234",
			body: `{"brand_type":"Trek","description":"x","price":"1","available_date":"2026-05-01","color":"Rot"}`,
			code: http.StatusBadRequest,
		},
		{
			name:    "storage failure",
			path:    "/bikes/AB1234",
			body:    validBody,
			saveErr: &domain.StorageError{Op: "insert bike", Err: errors.New("connection refused")},
			code:    http.StatusInternalServerError,
			message: "insert bike: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeBikeService{stored: map[string]*domain.Bike{}, saveErr: tt.saveErr}
			router := setupRouter(t, svc, &fakeMetrics{}, false)

			rec := doRequest(router, http.MethodPut, tt.path, tt.body, "")

			assert.Equal(t, tt.code, rec.Code)
			if tt.message != "" {
				var resp errorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.message, resp.Message)
			}
			assert.Empty(t, svc.saved)
		})
	}
}

func TestAuth(t *testing.T) {
	svc := &fakeBikeService{stored: map[string]*domain.Bike{}}
	router := setupRouter(t, svc, &fakeMetrics{}, true)

	editor := signToken(t, testSecret, jwt.MapClaims{"sub": "shop-1", "role": "editor"})
	viewer := signToken(t, testSecret, jwt.MapClaims{"sub": "shop-2", "role": "viewer"})
	forged := signToken(t, "other-secret", jwt.MapClaims{"sub": "shop-1", "role": "admin"})
	noRole := signToken(t, testSecret, jwt.MapClaims{"sub": "shop-1"})

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/bikes/AB1234", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/bikes/AB1234", "", forged).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/bikes/AB1234", "", noRole).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/bikes/AB1234", "", viewer).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(router, http.MethodPut, "/bikes/AB1234", validBody, viewer).Code)
	assert.Equal(t, http.StatusCreated, doRequest(router, http.MethodPut, "/bikes/AB1234", validBody, editor).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	handler := NewBikeHandler(&fakeBikeService{stored: map[string]*domain.Bike{}}, nopLogger{}, &fakeMetrics{})
	r, err := NewRouter(&config.HTTP{Env: "test", AllowedOrigins: "http://localhost:3000"}, nil,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), handler)
	require.NoError(t, err)

	rec := doRequest(r.Engine(), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doRequest(r.Engine(), http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := setupRouter(t, &fakeBikeService{stored: map[string]*domain.Bike{}}, &fakeMetrics{}, false)
	const id = "0b6f3c1e-52a4-4c1e-9d43-0f1d6c1f1a2b"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
}

func TestRouter_ShutdownBeforeServe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBikeHandler(&fakeBikeService{stored: map[string]*domain.Bike{}}, nopLogger{}, &fakeMetrics{})
	r, err := NewRouter(&config.HTTP{Env: "test", URL: "127.0.0.1", Port: "0"}, nil,
		promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}), handler)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", r.Addr())

	require.NoError(t, r.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- r.Serve() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		_ = r.Shutdown(context.Background())
		t.Fatal("Serve kept running after Shutdown")
	}
}
