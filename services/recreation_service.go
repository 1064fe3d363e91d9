package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"media-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
)

var recreationExts = map[string]bool{
	".webm": true,
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
}

// RecreationService stores user-recorded recreation clips on local disk.
// There is no DB row per clip; the directory listing is the source of truth.
type RecreationService struct {
	Dir string
}

func NewRecreationService(dir string) *RecreationService {
	return &RecreationService{Dir: dir}
}

type recreationVideo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Uploaded int64  `json:"uploaded"`
}

func (s *RecreationService) list() []recreationVideo {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return []recreationVideo{}
	}
	videos := []recreationVideo{}
	for _, entry := range entries {
		if entry.IsDir() || !recreationExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		videos = append(videos, recreationVideo{
			ID:       entry.Name(),
			Filename: entry.Name(),
			URL:      "/static/recreation/" + entry.Name(),
			Size:     info.Size(),
			Uploaded: info.ModTime().Unix(),
		})
	}
	// Newest first
	sort.Slice(videos, func(i, j int) bool { return videos[i].Uploaded > videos[j].Uploaded })
	return videos
}

func (s *RecreationService) GetVideos(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"videos": s.list()})
}

func (s *RecreationService) UploadVideo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No video file provided"})
	}

	name := fileHeader.Filename
	if filepath.Ext(name) == "" {
		name += ".webm"
	}
	if !recreationExts[strings.ToLower(filepath.Ext(name))] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported video format"})
	}

	filename := utils.UploadFilename(name)
	destPath := filepath.Join(s.Dir, filename)
	if err := utils.SaveFile(fileHeader, destPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save video"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Video uploaded successfully",
		"filename": filename,
		"url":      "/static/recreation/" + filename,
	})
}

func (s *RecreationService) DeleteVideo(c *fiber.Ctx) error {
	name := filepath.Base(c.Params("id"))
	if name == "." || name == "/" || !recreationExts[strings.ToLower(filepath.Ext(name))] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid video id"})
	}
	path := filepath.Join(s.Dir, name)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Video not found"})
	}
	if err := os.Remove(path); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete video"})
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Video '%s' deleted", name)})
}
