package service

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/database"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a named shared in-memory SQLite database. The single
// connection in the pool serializes transactions, which is the serialization
// MySQL provides through row locks in production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func newWalletService(db *gorm.DB) *WalletService {
	return NewWalletService(db, repository.NewWalletRepository(db), repository.NewTransactionRepository(db))
}

// seedUserWallet provisions a user with a zero-balance wallet.
func seedUserWallet(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Wallet) {
	t.Helper()
	u := &models.User{Email: email, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	svc := newWalletService(db)
	var w *models.Wallet
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		w, err = svc.CreateWallet(tx, u.ID)
		return err
	})
	require.NoError(t, err)
	return u, w
}

func setBalance(t *testing.T, db *gorm.DB, walletID uint, balance int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.Wallet{}).Where("id = ?", walletID).Update("balance", balance).Error)
}

func currentBalance(t *testing.T, db *gorm.DB, walletID uint) int64 {
	t.Helper()
	var w models.Wallet
	require.NoError(t, db.First(&w, walletID).Error)
	return w.Balance
}
