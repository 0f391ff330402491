package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Uploader stores uploaded media and returns a URL clients can fetch it from.
// Remote blob stores implement this; the core only depends on the interface.
type Uploader interface {
	Upload(file *multipart.FileHeader) (string, error)
}

// DiskUploader writes uploads under a local directory served at /uploads.
type DiskUploader struct {
	Dir string
}

// NewDiskUploader creates the upload directory if needed.
func NewDiskUploader(dir string) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskUploader{Dir: dir}, nil
}

// Upload copies the file to disk under a fresh name.
func (u *DiskUploader) Upload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(u.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return "/uploads/" + name, nil
}
