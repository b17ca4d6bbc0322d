package service

import (
	"errors"

	"github.com/Solomon-Dzokoto/hng-wallet/config"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/auth"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"

	"gorm.io/gorm"
)

type AuthService struct {
	cfg     *config.Config
	db      *gorm.DB
	users   *repository.UserRepository
	wallets *WalletService
}

func NewAuthService(cfg *config.Config, db *gorm.DB, users *repository.UserRepository, wallets *WalletService) *AuthService {
	return &AuthService{cfg: cfg, db: db, users: users, wallets: wallets}
}

// LoginWithGoogle finds or provisions the user behind a verified Google
// identity and returns an access token. A new user and their wallet are
// created in the same database transaction so no user ever exists without
// exactly one wallet.
func (s *AuthService) LoginWithGoogle(googleID, email, name, avatarURL string) (*models.User, string, error) {
	u, err := s.users.GetByGoogleID(googleID)
	if err == nil {
		return s.withToken(u)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	existing, err := s.users.GetByEmail(email)
	if err == nil {
		// Link Google identity to the existing account.
		gid := googleID
		existing.GoogleID = &gid
		if avatarURL != "" {
			existing.AvatarURL = avatarURL
		}
		if err := s.users.Update(existing); err != nil {
			return nil, "", err
		}
		return s.withToken(existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	gid := googleID
	u = &models.User{
		Email:     email,
		Name:      name,
		AvatarURL: avatarURL,
		GoogleID:  &gid,
		IsActive:  true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.Create(tx, u); err != nil {
			return err
		}
		_, err := s.wallets.CreateWallet(tx, u.ID)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return s.withToken(u)
}

func (s *AuthService) withToken(u *models.User) (*models.User, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, access, nil
}
