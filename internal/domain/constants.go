package domain

const (
	TxTypeDeposit     = "deposit"
	TxTypeTransferIn  = "transfer_in"
	TxTypeTransferOut = "transfer_out"
)

const (
	TxStatusPending = "pending"
	TxStatusSuccess = "success"
	TxStatusFailed  = "failed"
)

const (
	KeyStatusActive  = "active"
	KeyStatusRevoked = "revoked"
	KeyStatusExpired = "expired"
)

// MaxActiveAPIKeys is the per-user cap on keys in active status.
const MaxActiveAPIKeys = 5

const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)
