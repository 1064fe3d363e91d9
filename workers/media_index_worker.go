// workers/media_index_worker.go
package workers

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-rewards-system/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var videoExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".mkv":  true,
}

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".flac": true,
}

// MediaIndexer mirrors files dropped under the static directory into the
// media_items table. Rows are keyed by a filename-derived id, so re-indexing
// the same file is a no-op.
type MediaIndexer struct {
	db        *gorm.DB
	staticDir string
	interval  time.Duration
}

func NewMediaIndexer(db *gorm.DB, staticDir string) *MediaIndexer {
	return &MediaIndexer{
		db:        db,
		staticDir: staticDir,
		interval:  1 * time.Minute,
	}
}

func (w *MediaIndexer) Start(ctx context.Context) {
	log.Println("🔁 Starting Media Index Worker (static files → media_items)…")
	go w.run(ctx)
}

func (w *MediaIndexer) run(ctx context.Context) {
	if err := w.IndexOnce(); err != nil {
		log.Printf("⚠️ Initial media index failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.IndexOnce(); err != nil {
				log.Printf("❌ Media index pass failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Media Index Worker stopped")
			return
		}
	}
}

// IndexOnce scans static/videos and static/songs and inserts any file not yet
// present in media_items. Existing rows are left alone so manual edits to
// titles or descriptions survive re-indexing.
func (w *MediaIndexer) IndexOnce() error {
	items := w.scanDir(filepath.Join(w.staticDir, "videos"), "vid_", models.MediaCategoryVideos, videoExts, "/static/videos/")
	items = append(items, w.scanDir(filepath.Join(w.staticDir, "songs"), "audio_", models.MediaCategoryAudio, audioExts, "/static/songs/")...)
	if len(items) == 0 {
		return nil
	}

	res := w.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&items)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("✅ Indexed %d new media files", res.RowsAffected)
	}
	return nil
}

func (w *MediaIndexer) scanDir(dir, idPrefix, category string, exts map[string]bool, urlPrefix string) []models.MediaItem {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var items []models.MediaItem
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !exts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		items = append(items, models.MediaItem{
			ID:          idPrefix + name,
			Title:       titleFromFilename(name),
			Description: "Relaxing content for your wellness journey",
			Category:    category,
			PosterURL:   posterFor(name),
			VideoURL:    urlPrefix + name,
			CreatedAt:   time.Now(),
		})
	}
	return items
}

// titleFromFilename turns "ocean_waves-relaxing.mp4" into "Ocean Waves Relaxing".
func titleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	return cases.Title(language.English).String(base)
}

// posterFor picks a stock thumbnail by keyword, matching the static frontend.
func posterFor(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "alpha"):
		return "/static/thumbnails/alpha.jpg"
	case strings.Contains(lower, "nature"), strings.Contains(lower, "ocean"), strings.Contains(lower, "forest"):
		return "/static/thumbnails/nature.jpg"
	case strings.Contains(lower, "comfort"), strings.Contains(lower, "cozy"):
		return "/static/thumbnails/comfort.jpg"
	default:
		return "/static/thumbnails/healing.jpg"
	}
}
