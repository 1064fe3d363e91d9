package models

import "time"

const (
	MediaCategoryAudio  = "Audio"
	MediaCategoryVideos = "Videos"
)

// MediaItem is one playable entry in the media library: a seeded video, a
// seeded audio track, or a file picked up by the indexer from static/.
type MediaItem struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `gorm:"index" json:"category"`
	Duration    string    `json:"duration"`
	PosterURL   string    `json:"poster_url,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
