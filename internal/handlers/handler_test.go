package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkforge/internal/config"
	"linkforge/internal/models"
	"linkforge/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-12345678901234567890123456789012"

func setupTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		JWTSecret:        testSecret,
		TokenTTL:         12 * time.Hour,
		RegisterTokenTTL: time.Hour,
		ShortBaseURL:     "https://short.ly/",
		CustomBaseURL:    "https://bi-kay.com/",
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret)
	require.NoError(t, err)
	accounts := services.NewAccountService(db)
	auth := services.NewAuthService(accounts, tokens, cfg.TokenTTL, cfg.RegisterTokenTTL)
	links := services.NewLinkService(db, cfg.ShortBaseURL, cfg.CustomBaseURL)
	geoIP := services.NewGeoIPService("", logger)
	audit := services.NewAuditService(db, logger, geoIP)
	qr := services.NewQRService()

	h := NewHandler(cfg, logger, auth, tokens, links, audit, qr)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil)
}

func doJSON(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// signupAndLogin creates an account through the API and returns its token.
func signupAndLogin(t *testing.T, r http.Handler, username, role string) string {
	t.Helper()
	body := map[string]string{"username": username, "password": "password123"}
	if role != "" {
		body["role"] = role
	}
	w := doJSON(r, http.MethodPost, "/signup", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/login", map[string]string{"username": username, "password": "password123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func testClaims(id uint, username, role string) services.Claims {
	return services.Claims{ID: id, Username: username, Role: role}
}
