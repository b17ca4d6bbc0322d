package repository

import (
	"time"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(tx *gorm.DB, u *models.User) error {
	return tx.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	err := r.db.Where("google_id = ?", googleID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// Lock takes a write lock on the user row for the rest of the transaction,
// serializing per-owner check-then-insert sequences. Done with a self-write
// rather than SELECT ... FOR UPDATE so it behaves the same on every dialect.
func (r *UserRepository) Lock(tx *gorm.DB, id uint) error {
	return tx.Model(&models.User{}).Where("id = ?", id).Update("updated_at", time.Now()).Error
}
