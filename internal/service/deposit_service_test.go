package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/Solomon-Dzokoto/hng-wallet/internal/domain"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/models"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/repository"
	"github.com/Solomon-Dzokoto/hng-wallet/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test"

func newDepositService(db *gorm.DB, provider payment.Provider) *DepositService {
	return NewDepositService(
		db,
		repository.NewUserRepository(db),
		newWalletService(db),
		repository.NewTransactionRepository(db),
		provider,
		testWebhookSecret,
	)
}

func sign(body []byte) string {
	mac := hmac.New(sha512.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func chargeEvent(event, reference string, amount int64) []byte {
	return []byte(fmt.Sprintf(`{"event":%q,"data":{"reference":%q,"amount":%d}}`, event, reference, amount))
}

func TestInitiateDeposit(t *testing.T) {
	db := setupTestDB(t)
	u, w := seedUserWallet(t, db, "payer@example.com")
	svc := newDepositService(db, &payment.StubProvider{})

	intent, err := svc.InitiateDeposit(context.Background(), u.ID, 1500)
	require.NoError(t, err)
	assert.Contains(t, intent.Reference, "txn_")
	assert.NotEmpty(t, intent.AuthorizationURL)

	var tx models.Transaction
	require.NoError(t, db.Where("reference = ?", intent.Reference).First(&tx).Error)
	assert.Equal(t, domain.TxStatusPending, tx.Status)
	assert.Equal(t, int64(1500), tx.Amount)
	assert.Equal(t, w.ID, tx.WalletID)
	assert.Equal(t, int64(0), currentBalance(t, db, w.ID))
}

func TestInitiateDeposit_RejectsBadAmount(t *testing.T) {
	db := setupTestDB(t)
	u, _ := seedUserWallet(t, db, "payer@example.com")
	svc := newDepositService(db, &payment.StubProvider{})

	_, err := svc.InitiateDeposit(context.Background(), u.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.InitiateDeposit(context.Background(), u.ID, -100)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestWebhook_InvalidSignatureMutatesNothing(t *testing.T) {
	db := setupTestDB(t)
	u, w := seedUserWallet(t, db, "payer@example.com")
	svc := newDepositService(db, &payment.StubProvider{})

	intent, err := svc.InitiateDeposit(context.Background(), u.ID, 1000)
	require.NoError(t, err)

	body := chargeEvent(domain.EventChargeSuccess, intent.Reference, 1000)
	err = svc.HandleProviderNotification(body, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	var tx models.Transaction
	require.NoError(t, db.Where("reference = ?", intent.Reference).First(&tx).Error)
	assert.Equal(t, domain.TxStatusPending, tx.Status)
	assert.Equal(t, int64(0), currentBalance(t, db, w.ID))
}

func TestWebhook_ChargeSuccessCreditsOnce(t *testing.T) {
	db := setupTestDB(t)
	u, w := seedUserWallet(t, db, "payer@example.com")
	svc := newDepositService(db, &payment.StubProvider{})

	intent, err := svc.InitiateDeposit(context.Background(), u.ID, 1000)
	require.NoError(t, err)

	body := chargeEvent(domain.EventChargeSuccess, intent.Reference, 1000)
	sig := sign(body)

	// At-least-once delivery: the provider retries with identical bytes.
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.HandleProviderNotification(body, sig))
	}

	assert.Equal(t, int64(1000), currentBalance(t, db, w.ID))
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("reference = ? AND status = ?", intent.Reference, domain.TxStatusSuccess).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWebhook_ChargeFailedMarksFailed(t *testing.T) {
	db := setupTestDB(t)
	u, w := seedUserWallet(t, db, "payer@example.com")
	svc := newDepositService(db, &payment.StubProvider{})

	intent, err := svc.InitiateDeposit(context.Background(), u.ID, 1000)
	require.NoError(t, err)

	body := chargeEvent(domain.EventChargeFailed, intent.Reference, 1000)
	require.NoError(t, svc.HandleProviderNotification(body, sign(body)))

	var tx models.Transaction
	require.NoError(t, db.Where("reference = ?", intent.Reference).First(&tx).Error)
	assert.Equal(t, domain.TxStatusFailed, tx.Status)
	assert.Equal(t, int64(0), currentBalance(t, db, w.ID))

	// A success arriving after the terminal failure credits nothing.
	body = chargeEvent(domain.EventChargeSuccess, intent.Reference, 1000)
	require.NoError(t, svc.HandleProviderNotification(body, sign(body)))
	assert.Equal(t, int64(0), currentBalance(t, db, w.ID))
}

func TestWebhook_UnknownReferenceAcknowledged(t *testing.T) {
	db := setupTestDB(t)
	svc := newDepositService(db, &payment.StubProvider{})

	body := chargeEvent(domain.EventChargeSuccess, "txn_not_ours", 500)
	require.NoError(t, svc.HandleProviderNotification(body, sign(body)))

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestWebhook_OtherEventsIgnored(t *testing.T) {
	db := setupTestDB(t)
	u, w := seedUserWallet(t, db, "payer@example.com")
	svc := newDepositService(db, &payment.StubProvider{})

	intent, err := svc.InitiateDeposit(context.Background(), u.ID, 1000)
	require.NoError(t, err)

	body := chargeEvent("transfer.success", intent.Reference, 1000)
	require.NoError(t, svc.HandleProviderNotification(body, sign(body)))

	var tx models.Transaction
	require.NoError(t, db.Where("reference = ?", intent.Reference).First(&tx).Error)
	assert.Equal(t, domain.TxStatusPending, tx.Status)
	assert.Equal(t, int64(0), currentBalance(t, db, w.ID))
}

func TestGetDepositStatus(t *testing.T) {
	db := setupTestDB(t)
	u, _ := seedUserWallet(t, db, "payer@example.com")
	svc := newDepositService(db, &payment.StubProvider{})

	intent, err := svc.InitiateDeposit(context.Background(), u.ID, 1000)
	require.NoError(t, err)

	tx, err := svc.GetDepositStatus(context.Background(), intent.Reference, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusPending, tx.Status)

	_, err = svc.GetDepositStatus(context.Background(), "txn_missing", false)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

// settlingProvider reports every charge as settled on verify.
type settlingProvider struct {
	payment.StubProvider
}

func (settlingProvider) VerifyDeposit(ctx context.Context, reference string) (bool, error) {
	return true, nil
}

func TestGetDepositStatus_RefreshSettlesPending(t *testing.T) {
	db := setupTestDB(t)
	u, w := seedUserWallet(t, db, "payer@example.com")
	svc := newDepositService(db, settlingProvider{})

	intent, err := svc.InitiateDeposit(context.Background(), u.ID, 900)
	require.NoError(t, err)

	tx, err := svc.GetDepositStatus(context.Background(), intent.Reference, true)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusSuccess, tx.Status)
	assert.Equal(t, int64(900), currentBalance(t, db, w.ID))

	// Refresh on a settled row is a no-op.
	_, err = svc.GetDepositStatus(context.Background(), intent.Reference, true)
	require.NoError(t, err)
	assert.Equal(t, int64(900), currentBalance(t, db, w.ID))
}
