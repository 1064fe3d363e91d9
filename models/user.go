package models

import (
	"time"

	"gorm.io/datatypes"
)

// User carries the coin balance and the gamified progression derived from it.
// Level is never set directly: it is recomputed from Experience on every earn
// (level = experience/20 + 1), and Coins must never go negative.
type User struct {
	ID         string `gorm:"primaryKey" json:"id"`
	Username   string `gorm:"index;not null" json:"username"`
	Email      string `json:"email"`
	Coins      int    `gorm:"default:0" json:"coins"`
	Level      int    `gorm:"default:1" json:"level"`
	Experience int    `gorm:"default:0" json:"experience"`
	StreakDays int    `gorm:"default:0" json:"streak_days"`

	LastActivity time.Time      `json:"last_activity"`
	Achievements datatypes.JSON `json:"achievements"` // unlocked achievement ids

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
