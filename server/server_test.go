package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/L8zn/CMSC-199.2-Thesis/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	s := server.New(zap.NewNop(), 0)
	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestConvertEndpoint(t *testing.T) {
	rec := post(t, `{"input": "{\"vertices\": [{\"id\": \"x\", \"type\": \"c\"}, {\"id\": \"y\", \"type\": \"c\"}], \"edges\": [{\"from\": \"x\", \"to\": \"y\"}]}"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"petriNet"`)
	assert.Contains(t, rec.Body.String(), `"overallSoundness":"Classical"`)
}

func TestConvertEndpointBadModel(t *testing.T) {
	rec := post(t, `{"input": "{\"vertices\": [], \"edges\": []}"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestConvertEndpointBadRequest(t *testing.T) {
	rec := post(t, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := server.New(zap.NewNop(), 0)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
