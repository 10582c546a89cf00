package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"gameshelf/backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthConfig(t *testing.T, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	config.AppConfig = &config.Config{
		JWTSecret:         "test-secret",
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
	}
}

func TestLoginAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupAuthConfig(t, "hunter2")

	w, c := jsonRequest(t, "POST", "/api/v1/auth/login", gin.H{
		"username": "admin",
		"password": "hunter2",
	})
	LoginAdmin(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestLoginAdminWrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupAuthConfig(t, "hunter2")

	w, c := jsonRequest(t, "POST", "/api/v1/auth/login", gin.H{
		"username": "admin",
		"password": "wrong",
	})
	LoginAdmin(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeUnauthorized, env.Error.Code)
}

func TestLoginAdminWrongUsername(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupAuthConfig(t, "hunter2")

	w, c := jsonRequest(t, "POST", "/api/v1/auth/login", gin.H{
		"username": "root",
		"password": "hunter2",
	})
	LoginAdmin(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
