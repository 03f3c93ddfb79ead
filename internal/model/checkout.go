package model

import "time"

// CheckoutRecord is the persisted snapshot of a live checkout, written after
// every transition. The state machine itself owns no persistence; this record
// is what lets a user resume an in-progress checkout after a page reload.
type CheckoutRecord struct {
	CheckoutID string `gorm:"primaryKey;size:64;not null"`
	UserID     string `gorm:"size:64;index;not null"`
	OrderID    string `gorm:"size:64;index"`
	Provider   string `gorm:"size:16"`
	State      string `gorm:"size:32;not null"`
	UpdatedAt  time.Time
}
