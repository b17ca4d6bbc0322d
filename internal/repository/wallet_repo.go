package repository

import (
	"errors"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(tx *gorm.DB, w *models.Wallet) error {
	return tx.Create(w).Error
}

func (r *WalletRepository) GetByID(tx *gorm.DB, id uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := tx.First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetByNumber(tx *gorm.DB, number string) (*models.Wallet, error) {
	var w models.Wallet
	if err := tx.Where("wallet_number = ?", number).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// Credit adds amount to the wallet balance as a single guarded statement. The
// row lock taken by the UPDATE serializes concurrent mutations of the wallet.
func (r *WalletRepository) Credit(tx *gorm.DB, walletID uint, amount int64) error {
	res := tx.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			"balance": gorm.Expr("balance + ?", amount),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Debit subtracts amount from the wallet balance. The balance check lives in
// the UPDATE's WHERE clause so that check and write are one atomic statement;
// zero rows means the balance was too low and the caller must roll back.
func (r *WalletRepository) Debit(tx *gorm.DB, walletID uint, amount int64) error {
	res := tx.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		Updates(map[string]interface{}{
			"balance": gorm.Expr("balance - ?", amount),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}
