package models

import (
	"strings"
	"time"
)

type APIKey struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"index:idx_api_keys_owner_status;not null" json:"owner_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	KeyPrefix   string    `gorm:"size:16;not null" json:"key_prefix"`
	KeyHash     string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	Permissions string    `gorm:"size:64;not null" json:"permissions"` // comma-separated: deposit,transfer,read
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	Status      string    `gorm:"size:10;not null;index:idx_api_keys_owner_status" json:"status"` // active, revoked, expired
	CreatedAt   time.Time `json:"created_at"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (APIKey) TableName() string {
	return "api_keys"
}

func (k *APIKey) PermissionList() []string {
	if k.Permissions == "" {
		return nil
	}
	return strings.Split(k.Permissions, ",")
}
