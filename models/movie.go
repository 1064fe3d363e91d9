package models

import "gorm.io/datatypes"

// Movie is a static catalog record for the browse pages.
type Movie struct {
	ID          int            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Genre       string         `json:"genre"`
	Year        int            `json:"year"`
	Rating      float64        `json:"rating"`
	PosterURL   string         `json:"poster_url"`
	BackdropURL string         `json:"backdrop_url"`
	Cast        datatypes.JSON `json:"cast"`
	Director    string         `json:"director"`
	Duration    string         `json:"duration"`
	Category    string         `gorm:"index" json:"category"`
}
