package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"media-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogService serves the browse pages: movies, the media library, search,
// and the watch/listen hooks that pay out through the ledger. It never
// credits coins itself; every award goes through LedgerService.
type CatalogService struct {
	DB          *gorm.DB
	Ledger      *LedgerService
	DefaultUser string
}

func NewCatalogService(db *gorm.DB, ledger *LedgerService, defaultUser string) *CatalogService {
	return &CatalogService{DB: db, Ledger: ledger, DefaultUser: defaultUser}
}

// --- Movies ---

func (s *CatalogService) GetMovies(c *fiber.Ctx) error {
	query := s.DB.Model(&models.Movie{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	var movies []models.Movie
	if err := query.Find(&movies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch movies"})
	}
	return c.JSON(movies)
}

func (s *CatalogService) GetMovie(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid movie id"})
	}
	var movie models.Movie
	if err := s.DB.First(&movie, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Movie not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(movie)
}

type movieRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Year        int      `json:"year"`
	Rating      float64  `json:"rating"`
	PosterURL   string   `json:"poster_url"`
	BackdropURL string   `json:"backdrop_url"`
	Cast        []string `json:"cast"`
	Director    string   `json:"director"`
	Duration    string   `json:"duration"`
	Category    string   `json:"category"`
}

func (r *movieRequest) apply(m *models.Movie) {
	m.Title = r.Title
	m.Description = r.Description
	m.Genre = r.Genre
	m.Year = r.Year
	m.Rating = r.Rating
	m.PosterURL = r.PosterURL
	m.BackdropURL = r.BackdropURL
	m.Cast = toJSONList(r.Cast)
	m.Director = r.Director
	m.Duration = r.Duration
	m.Category = r.Category
}

func toJSONList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	buf := []byte("[")
	for i, item := range items {
		if i > 0 {
			buf = append(buf, ',')
		}
		quoted := strconv.Quote(item)
		buf = append(buf, quoted...)
	}
	buf = append(buf, ']')
	return datatypes.JSON(buf)
}

func (s *CatalogService) CreateMovie(c *fiber.Ctx) error {
	var req movieRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid movie data"})
	}
	var movie models.Movie
	req.apply(&movie)
	if err := s.DB.Create(&movie).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create movie"})
	}
	return c.Status(fiber.StatusCreated).JSON(movie)
}

func (s *CatalogService) UpdateMovie(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid movie id"})
	}
	var movie models.Movie
	if err := s.DB.First(&movie, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Movie not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req movieRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid movie data"})
	}
	req.apply(&movie)
	if err := s.DB.Save(&movie).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update movie"})
	}
	return c.JSON(movie)
}

func (s *CatalogService) DeleteMovie(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid movie id"})
	}
	var movie models.Movie
	if err := s.DB.First(&movie, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Movie not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if err := s.DB.Delete(&movie).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete movie"})
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Movie '%s' deleted successfully", movie.Title)})
}

func (s *CatalogService) GetCategories(c *fiber.Ctx) error {
	var categories []string
	if err := s.DB.Model(&models.Movie{}).Distinct("category").Pluck("category", &categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch categories"})
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// --- Media library ---

func (s *CatalogService) GetMediaItems(c *fiber.Ctx) error {
	var items []models.MediaItem
	if err := s.DB.Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch videos"})
	}
	return c.JSON(items)
}

func (s *CatalogService) mediaByCategory(c *fiber.Ctx, category string) error {
	if category == "" {
		return c.JSON([]models.MediaItem{})
	}
	var items []models.MediaItem
	if err := s.DB.Where("LOWER(category) = ?", strings.ToLower(category)).Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch videos"})
	}
	return c.JSON(items)
}

func (s *CatalogService) GetMediaByCategoryQuery(c *fiber.Ctx) error {
	return s.mediaByCategory(c, c.Query("q"))
}

func (s *CatalogService) GetMediaByCategoryPath(c *fiber.Ctx) error {
	return s.mediaByCategory(c, c.Params("category"))
}

// --- Earn hooks ---

// WatchVideo awards the fixed video rate for a completed watch.
func (s *CatalogService) WatchVideo(c *fiber.Ctx) error {
	return s.completeMedia(c, models.SourceVideo, "Watched")
}

// ListenSong awards the fixed song rate for a completed listen.
func (s *CatalogService) ListenSong(c *fiber.Ctx) error {
	return s.completeMedia(c, models.SourceSong, "Listened to")
}

func (s *CatalogService) completeMedia(c *fiber.Ctx, source, verb string) error {
	id := c.Params("id")
	var item models.MediaItem
	if err := s.DB.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Media not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	userID := c.Query("user_id", s.DefaultUser)
	amount := RewardCost(source, 0, item.Category)
	txn, _, err := s.Ledger.Earn(userID, amount, source, id, fmt.Sprintf("%s: %s", verb, item.Title))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to award coins"})
	}
	return c.JSON(fiber.Map{"message": "Coins earned!", "transaction": txn})
}

// --- Search ---

type searchResult struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Score       int    `json:"score"`
}

// Search runs a normalized substring match across movies and the media
// library: title hits weigh 10, description hits 5.
func (s *CatalogService) Search(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("query", c.Query("q"))))
	if q == "" {
		return c.JSON(fiber.Map{"results": []searchResult{}})
	}
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		limit = 20
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	var candidates []searchResult

	var movies []models.Movie
	if err := s.DB.Find(&movies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Search failed"})
	}
	for _, m := range movies {
		candidates = append(candidates, searchResult{
			Type:        "movie",
			ID:          strconv.Itoa(m.ID),
			Title:       m.Title,
			Description: m.Description,
			Category:    m.Category,
		})
	}

	var items []models.MediaItem
	if err := s.DB.Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Search failed"})
	}
	for _, item := range items {
		itemType := "video"
		if strings.EqualFold(item.Category, models.MediaCategoryAudio) {
			itemType = "song"
		}
		candidates = append(candidates, searchResult{
			Type:        itemType,
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Category:    item.Category,
		})
	}

	results := []searchResult{}
	for _, cand := range candidates {
		if category != "" &&
			category != strings.ToLower(cand.Type) &&
			category != strings.ToLower(cand.Category) {
			continue
		}
		score := 0
		if strings.Contains(strings.ToLower(cand.Title), q) {
			score += 10
		}
		if strings.Contains(strings.ToLower(cand.Description), q) {
			score += 5
		}
		if score > 0 {
			cand.Score = score
			results = append(results, cand)
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return c.JSON(fiber.Map{"results": results})
}
