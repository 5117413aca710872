package models

import (
	"time"

	"github.com/google/uuid"
)

// QRCode is a payment QR record shown at the counter. Only one code is
// expected to be active at a time; activation flips the others off.
type QRCode struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Label     string    `gorm:"column:label;not null"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the original schema name.
func (QRCode) TableName() string {
	return "qr_codes"
}
