package database

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"media-rewards-system/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func titleCase(s string) string {
	if s == "" {
		return "General"
	}
	return cases.Title(language.English).String(s)
}

const DefaultUserID = "user_123"

// Seed loads the default user, the reward catalog and the sample movie set.
// The store is volatile, so this runs on every boot.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	user := models.User{
		ID:           DefaultUserID,
		Username:     "WellnessUser",
		Email:        "user@wellness.com",
		Coins:        5,
		Level:        1,
		Experience:   0,
		LastActivity: now,
		Achievements: datatypes.JSON([]byte("[]")),
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	// Starting balance is backed by a ledger entry so that the balance always
	// equals the sum of transaction amounts.
	welcome := models.CoinTransaction{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Amount:      5,
		Type:        models.TransactionTypeBonus,
		Source:      "signup",
		Description: "Welcome bonus",
	}
	if err := db.Create(&welcome).Error; err != nil {
		return err
	}

	rewards := defaultRewards()
	if err := db.Create(&rewards).Error; err != nil {
		return err
	}
	movies := sampleMovies()
	if err := db.Create(&movies).Error; err != nil {
		return err
	}
	// The media library mirrors the movie set so the browse UI has data, plus
	// the bundled audio tracks.
	items := seedMediaItems()
	for _, m := range movies {
		items = append(items, models.MediaItem{
			ID:          strconv.Itoa(m.ID),
			Title:       m.Title,
			Description: m.Description,
			Category:    titleCase(m.Category),
			Duration:    m.Duration,
			PosterURL:   m.PosterURL,
		})
	}
	if err := db.Create(&items).Error; err != nil {
		return err
	}

	log.Println("✅ Seeded default user, rewards and catalog")
	return nil
}

func jsonPayload(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(b)
}

func defaultRewards() []models.Reward {
	return []models.Reward{
		{
			ID:          "reward_001",
			Name:        "Premium Meditation Pack",
			Description: "Unlock 5 exclusive guided meditation sessions",
			Cost:        10,
			Category:    models.RewardCategoryPremiumContent,
			Type:        "video",
			Data: jsonPayload(map[string]any{
				"video_ids": []string{"premium_med_1", "premium_med_2", "premium_med_3", "premium_med_4", "premium_med_5"},
			}),
			IsAvailable: true,
		},
		{
			ID:          "reward_002",
			Name:        "Dark Theme Unlock",
			Description: "Unlock beautiful dark theme for the app",
			Cost:        6,
			Category:    models.RewardCategoryCustomization,
			Type:        "theme",
			Data: jsonPayload(map[string]any{
				"theme_name": "dark_premium",
				"colors":     map[string]string{"primary": "#1a1a1a", "accent": "#e50914"},
			}),
			IsAvailable: true,
		},
		{
			ID:          "reward_003",
			Name:        "Zen Master Badge",
			Description: "Show off your meditation mastery with this exclusive badge",
			Cost:        15,
			Category:    models.RewardCategoryDigital,
			Type:        "badge",
			Data: jsonPayload(map[string]any{
				"badge_name": "zen_master",
				"rarity":     "rare",
			}),
			IsAvailable: true,
		},
		{
			ID:          "reward_004",
			Name:        "Wellness Journal Download",
			Description: "Download our premium wellness journal template",
			Cost:        8,
			Category:    models.RewardCategoryDigital,
			Type:        "download",
			Data: jsonPayload(map[string]any{
				"file_type": "pdf",
				"file_name": "wellness_journal.pdf",
			}),
			IsAvailable: true,
		},
		{
			ID:          "reward_005",
			Name:        "Yoga Mat (Physical)",
			Description: "Redeem for a premium yoga mat (shipping required)",
			Cost:        50,
			Category:    models.RewardCategoryPhysical,
			Type:        "product",
			Data: jsonPayload(map[string]any{
				"product_name":      "Premium Yoga Mat",
				"requires_shipping": true,
			}),
			IsAvailable: true,
		},
	}
}

func sampleMovies() []models.Movie {
	return []models.Movie{
		{
			Title:       "Stranger Things",
			Description: "When a young boy vanishes, a small town uncovers a mystery involving secret experiments, terrifying supernatural forces, and one strange little girl.",
			Genre:       "Sci-Fi, Horror",
			Year:        2016,
			Rating:      8.7,
			PosterURL:   "https://image.tmdb.org/t/p/w500/49WJfeN0moxb9IPfGn8AIqMGskD.jpg",
			BackdropURL: "https://image.tmdb.org/t/p/w1280/56v2KjBlU4XaOv9rVYEQypROD7P.jpg",
			Cast:        jsonPayload([]string{"Millie Bobby Brown", "Finn Wolfhard", "Gaten Matarazzo"}),
			Director:    "The Duffer Brothers",
			Duration:    "50 min",
			Category:    "trending",
		},
		{
			Title:       "The Crown",
			Description: "Follows the political rivalries and romance of Queen Elizabeth II's reign and the events that shaped the second half of the 20th century.",
			Genre:       "Drama, Biography",
			Year:        2016,
			Rating:      8.6,
			PosterURL:   "https://image.tmdb.org/t/p/w500/1M876Kj8Vfz7T8sSfGB0m4qFb61.jpg",
			BackdropURL: "https://image.tmdb.org/t/p/w1280/1M876Kj8Vfz7T8sSfGB0m4qFb61.jpg",
			Cast:        jsonPayload([]string{"Claire Foy", "Matt Smith", "Tobias Menzies"}),
			Director:    "Peter Morgan",
			Duration:    "60 min",
			Category:    "trending",
		},
		{
			Title:       "Money Heist",
			Description: "An unusual group of robbers attempt to carry out the most perfect robbery in Spanish history - stealing 2.4 billion euros from the Royal Mint of Spain.",
			Genre:       "Crime, Thriller",
			Year:        2017,
			Rating:      8.3,
			PosterURL:   "https://image.tmdb.org/t/p/w500/reEMJA1uzscCbkpeRJeTT2bjqUp.jpg",
			BackdropURL: "https://image.tmdb.org/t/p/w1280/reEMJA1uzscCbkpeRJeTT2bjqUp.jpg",
			Cast:        jsonPayload([]string{"Ursula Corbero", "Alvaro Morte", "Itziar Ituno"}),
			Director:    "Alex Pina",
			Duration:    "70 min",
			Category:    "trending",
		},
		{
			Title:       "The Witcher",
			Description: "Geralt of Rivia, a solitary monster hunter, struggles to find his place in a world where people often prove more wicked than beasts.",
			Genre:       "Fantasy, Action",
			Year:        2019,
			Rating:      8.2,
			PosterURL:   "https://image.tmdb.org/t/p/w500/7vjaCdMw15FEbXyLQTVa04URsPm.jpg",
			BackdropURL: "https://image.tmdb.org/t/p/w1280/7vjaCdMw15FEbXyLQTVa04URsPm.jpg",
			Cast:        jsonPayload([]string{"Henry Cavill", "Anya Chalotra", "Freya Allan"}),
			Director:    "Lauren Schmidt Hissrich",
			Duration:    "60 min",
			Category:    "action",
		},
		{
			Title:       "Ozark",
			Description: "A financial advisor drags his family from Chicago to the Missouri Ozarks, where he must launder money to appease a Mexican cartel.",
			Genre:       "Crime, Drama",
			Year:        2017,
			Rating:      8.1,
			PosterURL:   "https://image.tmdb.org/t/p/w500/miqV0Lc8oH6g4v0Y4R3qZ1uYtI8.jpg",
			BackdropURL: "https://image.tmdb.org/t/p/w1280/miqV0Lc8oH6g4v0Y4R3qZ1uYtI8.jpg",
			Cast:        jsonPayload([]string{"Jason Bateman", "Laura Linney", "Julia Garner"}),
			Director:    "Bill Dubuque",
			Duration:    "60 min",
			Category:    "drama",
		},
		{
			Title:       "Dark",
			Description: "A family saga with a supernatural twist, set in a German town, where the disappearance of two young children exposes the relationships among four families.",
			Genre:       "Sci-Fi, Thriller",
			Year:        2017,
			Rating:      8.7,
			PosterURL:   "https://image.tmdb.org/t/p/w500/5Vz8VhJ8VhJ8VhJ8VhJ8VhJ8VhJ8.jpg",
			BackdropURL: "https://image.tmdb.org/t/p/w1280/5Vz8VhJ8VhJ8VhJ8VhJ8VhJ8VhJ8.jpg",
			Cast:        jsonPayload([]string{"Louis Hofmann", "Karoline Eichhorn", "Lisa Vicari"}),
			Director:    "Baran bo Odar",
			Duration:    "50 min",
			Category:    "sci-fi",
		},
	}
}

func seedMediaItems() []models.MediaItem {
	return []models.MediaItem{
		{
			ID:          "audio_1",
			Title:       "Healing Meditation",
			Description: "Relaxing sounds for meditation and stress relief.",
			Category:    models.MediaCategoryAudio,
			Duration:    "5:00",
			PosterURL:   "/static/images/song_thumbnails/healing_meditation_thumb.jpg",
			VideoURL:    "/static/songs/432hz-healing-meditation-396482.mp3",
		},
		{
			ID:          "audio_2",
			Title:       "Nature Sounds",
			Description: "Soothing nature sounds for sleep and relaxation.",
			Category:    models.MediaCategoryAudio,
			Duration:    "10:00",
			PosterURL:   "/static/images/song_thumbnails/nature_meditation_thumb.jpg",
			VideoURL:    "/static/songs/nature-sounds-slow-meditation-healing-frequency-432hz-368787.mp3",
		},
		{
			ID:          "audio_3",
			Title:       "Alpha Music",
			Description: "432Hz frequency music for deep focus and meditation.",
			Category:    models.MediaCategoryAudio,
			Duration:    "8:00",
			PosterURL:   "/static/images/song_thumbnails/alpha_music_thumb.jpg",
			VideoURL:    "/static/songs/alpha-music-432hz-the-first-314853.mp3",
		},
	}
}
