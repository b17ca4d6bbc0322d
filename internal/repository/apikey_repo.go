package repository

import (
	"github.com/Solomon-Dzokoto/hng-wallet/internal/domain"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"

	"gorm.io/gorm"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(tx *gorm.DB, k *models.APIKey) error {
	return tx.Create(k).Error
}

func (r *APIKeyRepository) GetByID(tx *gorm.DB, id uint) (*models.APIKey, error) {
	var k models.APIKey
	if err := tx.First(&k, id).Error; err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *APIKeyRepository) GetByHash(hash string) (*models.APIKey, error) {
	var k models.APIKey
	if err := r.db.Where("key_hash = ?", hash).First(&k).Error; err != nil {
		return nil, err
	}
	return &k, nil
}

// CountActive is served by the (owner_id, status) index and must run inside
// the same transaction as the insert it guards.
func (r *APIKeyRepository) CountActive(tx *gorm.DB, ownerID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.APIKey{}).
		Where("owner_id = ? AND status = ?", ownerID, domain.KeyStatusActive).
		Count(&n).Error
	return n, err
}

func (r *APIKeyRepository) ListByOwner(ownerID uint) ([]models.APIKey, error) {
	var list []models.APIKey
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// UpdateStatus flips a key's status only when it currently has the expected
// one, reporting whether this caller won the flip.
func (r *APIKeyRepository) UpdateStatus(tx *gorm.DB, id uint, from, to string) (bool, error) {
	res := tx.Model(&models.APIKey{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
