package service

import (
	"testing"
	"time"

	"github.com/Solomon-Dzokoto/hng-wallet/config"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", Expiry: 30 * time.Minute, Issuer: "test"},
	}
	return NewAuthService(cfg, db, repository.NewUserRepository(db), newWalletService(db))
}

func TestLoginWithGoogle_ProvisionsUserAndWallet(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	u, access, err := svc.LoginWithGoogle("goog-1", "new@example.com", "New User", "")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.Equal(t, "new@example.com", u.Email)

	var w models.Wallet
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&w).Error)
	assert.Equal(t, int64(0), w.Balance)
	assert.Len(t, w.WalletNumber, 13)
}

func TestLoginWithGoogle_SecondLoginFindsSameUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	first, _, err := svc.LoginWithGoogle("goog-1", "user@example.com", "User", "")
	require.NoError(t, err)
	second, _, err := svc.LoginWithGoogle("goog-1", "user@example.com", "User", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&models.Wallet{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginWithGoogle_LinksExistingEmailAccount(t *testing.T) {
	db := setupTestDB(t)
	u, _ := seedUserWallet(t, db, "linked@example.com")
	svc := newAuthService(db)

	got, _, err := svc.LoginWithGoogle("goog-9", "linked@example.com", "Linked", "https://pic")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.GoogleID)
	assert.Equal(t, "goog-9", *got.GoogleID)
}
