package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rag-chat-be/internal/bootstrap"
	"rag-chat-be/internal/config"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/server"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuth(t *testing.T) {
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}

	adminPass := "admin123"
	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)
	require.NoError(t, err)
	t.Setenv("ADMIN_PASSWORD_HASH", string(adminHash))
	t.Setenv("JWT_SECRET", "integration-test-secret")
	t.Setenv("SETTINGS_FILE_PATH", t.TempDir()+"/settings.json")

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	login := func(password string) *http.Response {
		payload, _ := json.Marshal(dto.AdminLoginRequest{Password: password})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/v1/admin", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req, -1)
		require.NoError(t, err)
		return res
	}

	// 1. Wrong password is rejected
	res := login("wrong-password")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// 2. Correct password yields a token
	res = login(adminPass)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    dto.AdminLoginResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NotEmpty(t, envelope.Data.Token)

	// 3. Settings endpoint rejects missing token
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/settings", nil)
	noAuthRes, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, noAuthRes.StatusCode)

	// 4. Settings endpoint accepts the issued token
	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/settings", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.Token)
	authRes, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, authRes.StatusCode)

	var settingsEnvelope struct {
		Data dto.SettingsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(authRes.Body).Decode(&settingsEnvelope))
	assert.NotEmpty(t, settingsEnvelope.Data.Model)

	// 5. Partial settings update persists
	patch, _ := json.Marshal(dto.UpdateSettingsRequest{Model: strptr("updated-model")})
	req = httptest.NewRequest(http.MethodPut, "/api/admin/v1/settings", bytes.NewReader(patch))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+envelope.Data.Token)
	updateRes, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, updateRes.StatusCode)

	require.NoError(t, json.NewDecoder(updateRes.Body).Decode(&settingsEnvelope))
	assert.Equal(t, "updated-model", settingsEnvelope.Data.Model)
}

func strptr(s string) *string { return &s }
