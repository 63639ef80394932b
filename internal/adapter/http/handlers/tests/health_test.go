package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"todoapp/internal/adapter/http/handlers"
	"todoapp/internal/adapter/http/middleware"
)

type pingerStub struct {
	err error
}

func (p pingerStub) PingContext(context.Context) error {
	return p.err
}

func healthRouter(pinger handlers.Pinger) *gin.Engine {
	handler := handlers.NewHealthHandler(pinger, "sqlite")
	router := gin.New()
	router.Use(middleware.LanguageMiddleware())
	router.GET("/api/health", handler.CheckHealth)
	router.GET("/api/health/report", handler.CheckHealthReport)
	return router
}

func TestHealthHandler_CheckHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	healthRouter(pingerStub{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got handlers.HealthBasic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, handlers.StatusOk, got.Message)
}

func TestHealthHandler_CheckHealth_DatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	healthRouter(pingerStub{err: errors.New("closed")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var got handlers.HealthBasic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, handlers.StatusDown, got.Message)
}

func TestHealthHandler_CheckHealthReport(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health/report", nil)
	req.Header.Set("Accept-Language", "ja")
	rec := httptest.NewRecorder()
	healthRouter(pingerStub{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got handlers.HealthAdvanced
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "ja", got.Language)
	require.Equal(t, handlers.StatusOk, got.Status.Database)
	require.Equal(t, "sqlite", got.Status.Driver)
}
