package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// EnsureDir creates the directory (and parents) if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, os.ModePerm)
}

// SaveFile saves the uploaded file to the given destination path
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	// ✅ Ensure the directory for the destination file exists
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}

// UploadFilename builds a safe, timestamped filename for an upload.
// The original name is slugified so path separators and shell metacharacters
// never reach the filesystem.
func UploadFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	safe := slug.Make(base)
	if safe == "" {
		safe = "upload"
	}
	return fmt.Sprintf("%d_%s%s", time.Now().Unix(), safe, ext)
}
