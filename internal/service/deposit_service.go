package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/domain"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"
	"github.com/Solomon-Dzokoto/hng-wallet/pkg/payment"

	"gorm.io/gorm"
)

var (
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrTransactionNotFound = errors.New("transaction not found")
)

type DepositService struct {
	db            *gorm.DB
	users         *repository.UserRepository
	wallets       *WalletService
	transactions  *repository.TransactionRepository
	provider      payment.Provider
	webhookSecret string
}

func NewDepositService(
	db *gorm.DB,
	users *repository.UserRepository,
	wallets *WalletService,
	transactions *repository.TransactionRepository,
	provider payment.Provider,
	webhookSecret string,
) *DepositService {
	return &DepositService{
		db:            db,
		users:         users,
		wallets:       wallets,
		transactions:  transactions,
		provider:      provider,
		webhookSecret: webhookSecret,
	}
}

type DepositIntent struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

// InitiateDeposit creates a pending deposit transaction and asks the payment
// provider for a checkout handoff URL. The provider call happens before any
// row is written and outside any database transaction, so a provider timeout
// leaves no open lock. The wallet is credited only by the webhook.
func (s *DepositService) InitiateDeposit(ctx context.Context, userID uint, amount int64) (*DepositIntent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	wallet, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	ref := NewReference("txn")
	resp, err := s.provider.InitializeDeposit(ctx, payment.DepositRequest{
		Email:     user.Email,
		Amount:    amount,
		Reference: ref,
	})
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		Reference: &ref,
		WalletID:  wallet.ID,
		Type:      domain.TxTypeDeposit,
		Amount:    amount,
		Status:    domain.TxStatusPending,
	}
	if err := s.transactions.Create(s.db, t); err != nil {
		return nil, err
	}
	return &DepositIntent{Reference: ref, AuthorizationURL: resp.AuthorizationURL}, nil
}

type providerEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// HandleProviderNotification processes a raw webhook delivery. The signature
// is an HMAC-SHA512 of the raw body; anything that fails verification is
// rejected before a single row is read. Deliveries are at-least-once, so the
// ledger effect relies entirely on Credit's reference idempotency.
func (s *DepositService) HandleProviderNotification(body []byte, signature string) error {
	if !s.verifySignature(body, signature) {
		return ErrInvalidSignature
	}
	var evt providerEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		// Authenticated but malformed; acknowledge so the provider stops retrying.
		log.Printf("[webhook] unparseable payload: %v", err)
		return nil
	}
	if evt.Data.Reference == "" {
		return nil
	}

	switch evt.Event {
	case domain.EventChargeSuccess:
		t, err := s.transactions.GetByReference(s.db, evt.Data.Reference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Not ours; acknowledge.
				return nil
			}
			return err
		}
		_, err = s.wallets.Credit(t.WalletID, t.Amount, t.Reference, domain.TxTypeDeposit)
		return err
	case domain.EventChargeFailed:
		t, err := s.transactions.GetByReference(s.db, evt.Data.Reference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		_, err = s.transactions.MarkStatus(s.db, t.ID, domain.TxStatusPending, domain.TxStatusFailed, nil)
		return err
	default:
		// Other event kinds are acknowledged and ignored.
		return nil
	}
}

func (s *DepositService) verifySignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// GetDepositStatus reports the recorded state for a reference. When refresh
// is set it re-verifies a pending charge with the provider first, crediting
// through the same idempotent path as the webhook.
func (s *DepositService) GetDepositStatus(ctx context.Context, reference string, refresh bool) (*models.Transaction, error) {
	t, err := s.transactions.GetByReference(s.db, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if refresh && t.Status == domain.TxStatusPending {
		settled, err := s.provider.VerifyDeposit(ctx, reference)
		if err != nil {
			log.Printf("[deposit] verify %s: %v", reference, err)
			return t, nil
		}
		if settled {
			return s.wallets.Credit(t.WalletID, t.Amount, t.Reference, domain.TxTypeDeposit)
		}
	}
	return t, nil
}
