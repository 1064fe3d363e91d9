package services

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecreationApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewRecreationService(dir)

	app := fiber.New()
	app.Get("/api/recreation/videos", svc.GetVideos)
	app.Post("/api/recreation/videos", svc.UploadVideo)
	app.Delete("/api/recreation/videos/:id", svc.DeleteVideo)
	return app, dir
}

func TestRecreationUploadAndList(t *testing.T) {
	app, dir := newRecreationApp(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("video", "My Session.webm")
	require.NoError(t, err)
	_, err = part.Write([]byte("webm-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/recreation/videos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Filename string `json:"filename"`
		URL      string `json:"url"`
	}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Contains(t, created.Filename, "my-session")
	assert.Equal(t, ".webm", filepath.Ext(created.Filename))

	_, err = os.Stat(filepath.Join(dir, created.Filename))
	require.NoError(t, err)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/recreation/videos", nil))
	require.NoError(t, err)
	var listing struct {
		Videos []recreationVideo `json:"videos"`
	}
	data, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &listing))
	require.Len(t, listing.Videos, 1)
	assert.Equal(t, created.Filename, listing.Videos[0].Filename)
}

func TestRecreationUploadRejectsUnknownExt(t *testing.T) {
	app, _ := newRecreationApp(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("video", "payload.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/recreation/videos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecreationDelete(t *testing.T) {
	app, dir := newRecreationApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.webm"), []byte("x"), 0o644))

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/recreation/videos/clip.webm", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, err = os.Stat(filepath.Join(dir, "clip.webm"))
	assert.True(t, os.IsNotExist(err))

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/recreation/videos/clip.webm", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
