package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

type Wallet struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	WalletNumber string    `gorm:"uniqueIndex;size:13;not null" json:"wallet_number"`
	Balance      int64     `gorm:"not null;default:0" json:"balance"` // minor currency units, never negative
	Version      int64     `gorm:"not null;default:0" json:"-"`       // bumped on every balance change
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// GenerateWalletNumber returns a 13-digit wallet number. The leading 4 keeps
// the number from starting with zero; uniqueness is enforced by the store.
func GenerateWalletNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000_000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("4%012d", n)
}
