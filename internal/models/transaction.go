package models

import "time"

// Transaction is an append-only ledger record. Rows in a terminal status
// (success/failed) are never mutated. Transfers produce a transfer_out row on
// the source wallet and a transfer_in row on the destination, created in the
// same database transaction and sharing one reference.
type Transaction struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Reference            *string    `gorm:"uniqueIndex;size:64" json:"reference"` // idempotency key; nil when not externally referenced
	WalletID             uint       `gorm:"index;not null" json:"wallet_id"`
	CounterpartyWalletID *uint      `gorm:"index" json:"counterparty_wallet_id,omitempty"`
	Type                 string     `gorm:"size:20;not null;index" json:"type"`   // deposit, transfer_in, transfer_out
	Amount               int64      `gorm:"not null" json:"amount"`               // always positive; direction comes from Type
	Status               string     `gorm:"size:10;not null;index" json:"status"` // pending, success, failed
	PaidAt               *time.Time `json:"paid_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
