package models

import (
	"time"
)

const (
	DonationStatusPending   = "pending"
	DonationStatusCompleted = "completed"
	DonationStatusFailed    = "failed"
)

// Donation is a settled contribution to a project. A row reaches completed
// status only after the provider signature has been verified, and is immutable
// afterwards. DonorEmail is optional: guest giving is permitted and a donor is
// not required to be a registered account.
//
// The unique index on TransactionID is the settlement idempotency key: a
// replayed callback or retried client request cannot insert a second row for
// the same captured payment.
type Donation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProjectID     uint      `gorm:"index;not null" json:"project_id"`
	Amount        float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string    `gorm:"size:10;not null" json:"currency"`
	TransactionID string    `gorm:"uniqueIndex;size:100;not null" json:"transaction_id"`
	Status        string    `gorm:"size:20;index" json:"status"`
	DonorName     string    `gorm:"size:100" json:"name,omitempty"`
	DonorEmail    string    `gorm:"size:255;index" json:"email,omitempty"`
	Message       string    `gorm:"size:500" json:"message,omitempty"`
	DonatedAt     time.Time `json:"donated_at"`
}

func (Donation) TableName() string { return "donations" }
