package models

import (
	"time"

	"gorm.io/datatypes"
)

type RewardCategory string

const (
	RewardCategoryPremiumContent RewardCategory = "premium_content"
	RewardCategoryCustomization  RewardCategory = "customization"
	RewardCategoryPhysical       RewardCategory = "physical"
	RewardCategoryDigital        RewardCategory = "digital"
)

// Reward is a catalog entry users redeem coins against. The catalog is
// effectively read-only at runtime except for availability toggling.
type Reward struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Cost        int            `gorm:"not null" json:"cost"`
	Category    RewardCategory `gorm:"index" json:"category"`
	Type        string         `json:"type"` // video | theme | badge | download | product
	Data        datatypes.JSON `json:"data"` // type-specific payload (video ids, theme colors, ...)
	IsAvailable bool           `json:"is_available"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// UserReward records one successful redemption. Created exactly once per
// redemption, never deleted.
type UserReward struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index;not null" json:"user_id"`
	RewardID   string    `gorm:"not null" json:"reward_id"`
	RedeemedAt time.Time `json:"redeemed_at"`
	IsUsed     bool      `gorm:"default:false" json:"is_used"`
}
