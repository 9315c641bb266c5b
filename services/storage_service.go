package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService persists uploaded videos under a public directory served at
// /uploads. File names are uuid-prefixed so partner uploads never collide.
type StorageService struct {
	BaseDir string
}

func NewStorageService(baseDir string) *StorageService {
	return &StorageService{BaseDir: baseDir}
}

var allowedVideoExt = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
}

// SaveVideo writes the upload to disk and returns the public URL path.
func (ss *StorageService) SaveVideo(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedVideoExt[ext] {
		return "", errors.New("unsupported video format")
	}

	if err := os.MkdirAll(ss.BaseDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(file.Filename))
	dst := filepath.Join(ss.BaseDir, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", err
	}

	return "/uploads/" + name, nil
}
