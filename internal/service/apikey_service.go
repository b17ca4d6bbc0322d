package service

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/auth"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/domain"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidExpiry    = errors.New("invalid expiry format, use forms like 1H, 7D, 1M, 1Y")
	ErrKeyQuotaExceeded = errors.New("maximum of 5 active api keys allowed")
	ErrKeyNotFound      = errors.New("api key not found")
	ErrKeyNotActive     = errors.New("api key is not active")
	ErrKeyNotExpired    = errors.New("api key is not expired")
	ErrKeyRevoked       = errors.New("api key has been revoked")
	ErrInvalidAPIKey    = errors.New("invalid api key")
	ErrUserInactive     = errors.New("account is inactive")
)

type APIKeyService struct {
	db    *gorm.DB
	users *repository.UserRepository
	keys  *repository.APIKeyRepository
}

func NewAPIKeyService(db *gorm.DB, users *repository.UserRepository, keys *repository.APIKeyRepository) *APIKeyService {
	return &APIKeyService{db: db, users: users, keys: keys}
}

// ParseExpiry turns a shorthand like "1H", "7D", "1M" or "1Y" into an
// absolute expiry. Months are 30 days, years 365.
func ParseExpiry(spec string, now time.Time) (time.Time, error) {
	spec = strings.TrimSpace(spec)
	if len(spec) < 2 {
		return time.Time{}, ErrInvalidExpiry
	}
	n, err := strconv.Atoi(spec[:len(spec)-1])
	if err != nil || n <= 0 {
		return time.Time{}, ErrInvalidExpiry
	}
	switch strings.ToUpper(spec[len(spec)-1:]) {
	case "H":
		return now.Add(time.Duration(n) * time.Hour), nil
	case "D":
		return now.AddDate(0, 0, n), nil
	case "M":
		return now.AddDate(0, 0, n*30), nil
	case "Y":
		return now.AddDate(0, 0, n*365), nil
	default:
		return time.Time{}, ErrInvalidExpiry
	}
}

type IssuedKey struct {
	Key       *models.APIKey
	RawSecret string // returned exactly once, never stored
}

// Issue creates an API key for the owner. The active-key count and the insert
// happen inside one transaction with the owner row locked, so two concurrent
// issuances cannot both slip under the quota.
func (s *APIKeyService) Issue(ownerID uint, name string, permissions []string, expiry string) (*IssuedKey, error) {
	owner, err := s.users.GetByID(ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsActive {
		return nil, ErrUserInactive
	}
	perms, err := auth.ParsePermissions(permissions)
	if err != nil {
		return nil, err
	}
	expiresAt, err := ParseExpiry(expiry, time.Now())
	if err != nil {
		return nil, err
	}

	raw := auth.GenerateAPIKey()
	key := &models.APIKey{
		OwnerID:     ownerID,
		Name:        name,
		KeyPrefix:   auth.APIKeyPrefix(raw),
		KeyHash:     auth.HashAPIKey(raw),
		Permissions: perms.Encode(),
		ExpiresAt:   expiresAt,
		Status:      domain.KeyStatusActive,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.Lock(tx, ownerID); err != nil {
			return err
		}
		return s.insertWithinQuota(tx, key)
	})
	if err != nil {
		return nil, err
	}
	return &IssuedKey{Key: key, RawSecret: raw}, nil
}

func (s *APIKeyService) insertWithinQuota(tx *gorm.DB, key *models.APIKey) error {
	active, err := s.keys.CountActive(tx, key.OwnerID)
	if err != nil {
		return err
	}
	if active >= domain.MaxActiveAPIKeys {
		return ErrKeyQuotaExceeded
	}
	return s.keys.Create(tx, key)
}

// RollOver replaces an expired key with a fresh one carrying the same name
// and permissions. The old key must actually be past its expiry; it is moved
// to expired status (if not already) and stops counting against the quota.
func (s *APIKeyService) RollOver(ownerID, keyID uint, expiry string) (*IssuedKey, error) {
	expiresAt, err := ParseExpiry(expiry, time.Now())
	if err != nil {
		return nil, err
	}
	var issued *IssuedKey
	err = s.db.Transaction(func(tx *gorm.DB) error {
		old, err := s.keys.GetByID(tx, keyID)
		if err != nil || old.OwnerID != ownerID {
			// Same answer whether the key is missing or someone else's.
			return ErrKeyNotFound
		}
		if old.Status == domain.KeyStatusRevoked {
			return ErrKeyRevoked
		}
		if time.Now().Before(old.ExpiresAt) {
			return ErrKeyNotExpired
		}
		if old.Status == domain.KeyStatusActive {
			if _, err := s.keys.UpdateStatus(tx, old.ID, domain.KeyStatusActive, domain.KeyStatusExpired); err != nil {
				return err
			}
		}

		if err := s.users.Lock(tx, ownerID); err != nil {
			return err
		}
		raw := auth.GenerateAPIKey()
		key := &models.APIKey{
			OwnerID:     ownerID,
			Name:        old.Name,
			KeyPrefix:   auth.APIKeyPrefix(raw),
			KeyHash:     auth.HashAPIKey(raw),
			Permissions: old.Permissions,
			ExpiresAt:   expiresAt,
			Status:      domain.KeyStatusActive,
		}
		if err := s.insertWithinQuota(tx, key); err != nil {
			return err
		}
		issued = &IssuedKey{Key: key, RawSecret: raw}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

// Revoke is terminal and owner-scoped; a key that is not the caller's looks
// exactly like one that does not exist.
func (s *APIKeyService) Revoke(ownerID, keyID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		key, err := s.keys.GetByID(tx, keyID)
		if err != nil || key.OwnerID != ownerID {
			return ErrKeyNotFound
		}
		won, err := s.keys.UpdateStatus(tx, key.ID, domain.KeyStatusActive, domain.KeyStatusRevoked)
		if err != nil {
			return err
		}
		if !won {
			return ErrKeyNotActive
		}
		return nil
	})
}

func (s *APIKeyService) List(ownerID uint) ([]models.APIKey, error) {
	return s.keys.ListByOwner(ownerID)
}

// Resolve authenticates a raw API key and returns the principal it stands
// for. A key past its expiry is rejected even while its stored status still
// reads active; the row is flipped to expired on the way out.
func (s *APIKeyService) Resolve(rawKey string) (auth.Principal, error) {
	key, err := s.keys.GetByHash(auth.HashAPIKey(rawKey))
	if err != nil {
		return auth.Principal{}, ErrInvalidAPIKey
	}
	if key.Status != domain.KeyStatusActive {
		return auth.Principal{}, ErrInvalidAPIKey
	}
	if time.Now().After(key.ExpiresAt) {
		if _, err := s.keys.UpdateStatus(s.db, key.ID, domain.KeyStatusActive, domain.KeyStatusExpired); err != nil {
			log.Printf("[apikey] lazy expire %d: %v", key.ID, err)
		}
		return auth.Principal{}, ErrInvalidAPIKey
	}
	return auth.APIKeyPrincipal(key.OwnerID, key.ID, auth.DecodePermissions(key.Permissions)), nil
}
