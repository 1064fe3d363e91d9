package models

import "time"

// TransactionType classifies why a balance changed
type TransactionType string

const (
	TransactionTypeEarn  TransactionType = "earn"
	TransactionTypeSpend TransactionType = "spend"
	TransactionTypeBonus TransactionType = "bonus"
)

// Earn sources recognized by the coin schedule
const (
	SourceVideo      = "video"
	SourceSong       = "song"
	SourceRecreation = "recreation"
	SourceDaily      = "daily"
	SourceGame       = "game"
	SourceReward     = "reward"
)

// CoinTransaction is the append-only ledger entry. The ledger is the only
// source of truth for why a balance changed; User.Coins is a denormalized
// cache that must always equal the sum of a user's transaction amounts.
type CoinTransaction struct {
	ID     string          `gorm:"primaryKey" json:"id"`
	UserID string          `gorm:"index;not null" json:"user_id"`
	Amount int             `gorm:"not null" json:"amount"` // signed; spends are negative
	Type   TransactionType `gorm:"not null" json:"transaction_type"`

	Source      string `gorm:"index" json:"source"`
	SourceID    string `json:"source_id,omitempty"`
	Description string `json:"description"`

	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}
