package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Solomon-Dzokoto/hng-wallet/config"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/auth"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/database"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGate(t *testing.T) (*gin.Engine, *config.JWTConfig, *service.APIKeyService, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	u := &models.User{Email: "gate@example.com", IsActive: true}
	require.NoError(t, db.Create(u).Error)

	jwtCfg := &config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "test"}
	keySvc := service.NewAPIKeyService(db, repository.NewUserRepository(db), repository.NewAPIKeyRepository(db))

	r := gin.New()
	r.Use(Authenticate(jwtCfg, keySvc))
	r.GET("/read", RequirePermission(auth.PermRead), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetPrincipal(c).UserID})
	})
	r.POST("/transfer", RequirePermission(auth.PermTransfer), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/session-only", RequireSession(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, jwtCfg, keySvc, u
}

func do(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGate_NoCredentials(t *testing.T) {
	r, _, _, _ := setupGate(t)
	w := do(r, http.MethodGet, "/read", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGate_SessionTokenHasFullPermissions(t *testing.T) {
	r, jwtCfg, _, u := setupGate(t)
	token, err := auth.GenerateAccessToken(jwtCfg, u.ID, u.Email)
	require.NoError(t, err)
	headers := map[string]string{"Authorization": "Bearer " + token}

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/read", headers).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/transfer", headers).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/session-only", headers).Code)
}

func TestGate_BadToken(t *testing.T) {
	r, _, _, _ := setupGate(t)
	w := do(r, http.MethodGet, "/read", map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGate_APIKeyScopedPermissions(t *testing.T) {
	r, _, keySvc, u := setupGate(t)
	issued, err := keySvc.Issue(u.ID, "readonly", []string{"read"}, "1D")
	require.NoError(t, err)
	headers := map[string]string{APIKeyHeader: issued.RawSecret}

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/read", headers).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/transfer", headers).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/session-only", headers).Code)
}

func TestGate_InvalidAPIKey(t *testing.T) {
	r, _, _, _ := setupGate(t)
	w := do(r, http.MethodGet, "/read", map[string]string{APIKeyHeader: "sk_live_bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
