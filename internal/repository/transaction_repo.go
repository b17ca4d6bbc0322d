package repository

import (
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(tx *gorm.DB, t *models.Transaction) error {
	return tx.Create(t).Error
}

func (r *TransactionRepository) GetByReference(tx *gorm.DB, reference string) (*models.Transaction, error) {
	var t models.Transaction
	if err := tx.Where("reference = ?", reference).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkStatus flips a transaction from one status to another. The status guard
// makes concurrent flips race-safe: only one caller observes RowsAffected > 0.
func (r *TransactionRepository) MarkStatus(tx *gorm.DB, id uint, from, to string, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := tx.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByWallet returns transactions touching the wallet, newest first.
func (r *TransactionRepository) ListByWallet(walletID uint, page, limit int) ([]models.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	q := r.db.Model(&models.Transaction{}).Where("wallet_id = ?", walletID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Transaction
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
