package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/domain"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidAmount  = errors.New("amount must be a positive integer")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrSelfTransfer   = errors.New("cannot transfer to your own wallet")
)

const walletNumberAttempts = 5

type WalletService struct {
	db           *gorm.DB
	wallets      *repository.WalletRepository
	transactions *repository.TransactionRepository
}

func NewWalletService(db *gorm.DB, wallets *repository.WalletRepository, transactions *repository.TransactionRepository) *WalletService {
	return &WalletService{db: db, wallets: wallets, transactions: transactions}
}

// CreateWallet provisions a zero-balance wallet inside the caller's
// transaction. Wallet numbers are random, so a collision just means another
// draw; the unique index is the arbiter.
func (s *WalletService) CreateWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	for i := 0; i < walletNumberAttempts; i++ {
		w := &models.Wallet{UserID: userID, WalletNumber: models.GenerateWalletNumber()}
		err := s.wallets.Create(tx, w)
		if err == nil {
			return w, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("wallet number allocation failed after %d attempts", walletNumberAttempts)
}

func (s *WalletService) GetByUserID(userID uint) (*models.Wallet, error) {
	w, err := s.wallets.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *WalletService) GetBalance(walletID uint) (int64, error) {
	w, err := s.wallets.GetByID(s.db, walletID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrWalletNotFound
		}
		return 0, err
	}
	return w.Balance, nil
}

// Credit increases the wallet balance and records the matching transaction in
// one database transaction. When reference is non-nil the operation is
// idempotent on it: a prior success row is returned as-is, a pending row
// (an initiated deposit) is flipped to success exactly once, and a concurrent
// duplicate insert is resolved through the unique index on reference.
func (s *WalletService) Credit(walletID uint, amount int64, reference *string, txType string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if reference == nil {
			t, err := s.insertSuccessCredit(tx, walletID, amount, nil, txType)
			if err != nil {
				return err
			}
			result = t
			return nil
		}

		existing, err := s.transactions.GetByReference(tx, *reference)
		switch {
		case err == nil:
			t, err := s.settleExisting(tx, existing)
			if err != nil {
				return err
			}
			result = t
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			t, err := s.insertSuccessCredit(tx, walletID, amount, reference, txType)
			if err == nil {
				result = t
				return nil
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			// Lost the insert race; the winner's row is the result.
			existing, err = s.transactions.GetByReference(tx, *reference)
			if err != nil {
				return err
			}
			result = existing
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// settleExisting resolves a Credit against a transaction row that already
// carries the reference. Only a pending row produces a balance change, and
// the status guard ensures a single winner under concurrent settlement.
func (s *WalletService) settleExisting(tx *gorm.DB, existing *models.Transaction) (*models.Transaction, error) {
	if existing.Status != domain.TxStatusPending {
		// success: idempotent replay; failed: terminal, no credit.
		return existing, nil
	}
	now := time.Now()
	won, err := s.transactions.MarkStatus(tx, existing.ID, domain.TxStatusPending, domain.TxStatusSuccess,
		map[string]interface{}{"paid_at": now})
	if err != nil {
		return nil, err
	}
	if !won {
		return s.transactions.GetByReference(tx, *existing.Reference)
	}
	if err := s.wallets.Credit(tx, existing.WalletID, existing.Amount); err != nil {
		return nil, err
	}
	existing.Status = domain.TxStatusSuccess
	existing.PaidAt = &now
	return existing, nil
}

func (s *WalletService) insertSuccessCredit(tx *gorm.DB, walletID uint, amount int64, reference *string, txType string) (*models.Transaction, error) {
	now := time.Now()
	t := &models.Transaction{
		Reference: reference,
		WalletID:  walletID,
		Type:      txType,
		Amount:    amount,
		Status:    domain.TxStatusSuccess,
		PaidAt:    &now,
	}
	if err := s.transactions.Create(tx, t); err != nil {
		return nil, err
	}
	if err := s.wallets.Credit(tx, walletID, amount); err != nil {
		return nil, err
	}
	return t, nil
}

type TransferResult struct {
	Reference             string `json:"reference"`
	Amount                int64  `json:"amount"`
	RecipientWalletNumber string `json:"recipient_wallet_number"`
}

// Transfer moves amount from the source wallet to the wallet identified by
// destNumber. Both balance changes and both ledger rows commit together or
// not at all. Balance updates are issued in wallet-id order so two transfers
// that are each other's counterpart cannot deadlock.
func (s *WalletService) Transfer(sourceWalletID uint, destNumber string, amount int64) (*TransferResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var result *TransferResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		src, err := s.wallets.GetByID(tx, sourceWalletID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		dst, err := s.wallets.GetByNumber(tx, destNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		if src.ID == dst.ID {
			return ErrSelfTransfer
		}

		if src.ID < dst.ID {
			if err := s.wallets.Debit(tx, src.ID, amount); err != nil {
				return err
			}
			if err := s.wallets.Credit(tx, dst.ID, amount); err != nil {
				return err
			}
		} else {
			if err := s.wallets.Credit(tx, dst.ID, amount); err != nil {
				return err
			}
			if err := s.wallets.Debit(tx, src.ID, amount); err != nil {
				return err
			}
		}

		ref := NewReference("trf")
		now := time.Now()
		out := &models.Transaction{
			Reference:            &ref,
			WalletID:             src.ID,
			CounterpartyWalletID: &dst.ID,
			Type:                 domain.TxTypeTransferOut,
			Amount:               amount,
			Status:               domain.TxStatusSuccess,
			PaidAt:               &now,
		}
		if err := s.transactions.Create(tx, out); err != nil {
			return err
		}
		in := &models.Transaction{
			WalletID:             dst.ID,
			CounterpartyWalletID: &src.ID,
			Type:                 domain.TxTypeTransferIn,
			Amount:               amount,
			Status:               domain.TxStatusSuccess,
			PaidAt:               &now,
		}
		if err := s.transactions.Create(tx, in); err != nil {
			return err
		}
		result = &TransferResult{Reference: ref, Amount: amount, RecipientWalletNumber: dst.WalletNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListTransactions returns the wallet's history, newest first.
func (s *WalletService) ListTransactions(walletID uint, page, limit int) ([]models.Transaction, int64, error) {
	if _, err := s.wallets.GetByID(s.db, walletID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrWalletNotFound
		}
		return nil, 0, err
	}
	return s.transactions.ListByWallet(walletID, page, limit)
}
