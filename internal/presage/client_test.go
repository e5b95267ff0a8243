package presage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wisefido-camera-vitals/internal/config"
	"wisefido-camera-vitals/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(apiURL, apiKey string) *Client {
	cfg := &config.PresageConfig{
		APIURL: apiURL,
		APIKey: apiKey,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestValidateAPIKey_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/auth/validate", r.URL.Path)

		var req ValidateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-key", req.APIKey)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ValidateResponse{Valid: true})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	require.NoError(t, client.ValidateAPIKey(context.Background()))
}

func TestValidateAPIKey_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ValidateResponse{Valid: false, Msg: "invalid key"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "bad-key")
	err := client.ValidateAPIKey(context.Background())
	require.Error(t, err)

	var sessionErr *models.SessionError
	require.True(t, errors.As(err, &sessionErr))
	assert.Equal(t, models.ErrCodeInvalidAPIKey, sessionErr.Code)
}

func TestValidateAPIKey_ValidFalseWithOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ValidateResponse{Valid: false, Msg: "expired"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "expired-key")
	err := client.ValidateAPIKey(context.Background())
	require.Error(t, err)

	var sessionErr *models.SessionError
	require.True(t, errors.As(err, &sessionErr))
	assert.Equal(t, models.ErrCodeInvalidAPIKey, sessionErr.Code)
}

func TestValidateAPIKey_EmptyKey(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", "")
	err := client.ValidateAPIKey(context.Background())
	require.Error(t, err)

	var sessionErr *models.SessionError
	require.True(t, errors.As(err, &sessionErr))
	assert.Equal(t, models.ErrCodeInvalidAPIKey, sessionErr.Code)
}

func TestValidateAPIKey_NetworkError(t *testing.T) {
	// 先关闭 server 模拟网络不可达
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url, "test-key")
	err := client.ValidateAPIKey(context.Background())
	require.Error(t, err)

	var sessionErr *models.SessionError
	require.True(t, errors.As(err, &sessionErr))
	assert.Equal(t, models.ErrCodeNetworkError, sessionErr.Code)
}
