package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Disk stores uploaded blobs in a single flat directory. Files are kept
// under generated names, never the client-supplied ones, so collisions
// and path traversal are off the table.
type Disk struct {
	baseDir string
}

func NewDisk(baseDir string) *Disk {
	return &Disk{baseDir: baseDir}
}

// StoredName builds a storage-unique name from the current time, a short
// random token and the sanitized original filename.
func (d *Disk) StoredName(originalName string) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), token, sanitizeName(originalName))
}

// Save writes the multipart payload under storedName, creating the base
// directory if needed. On a partial write the destination is removed so a
// failed save leaves nothing behind.
func (d *Disk) Save(fileHeader *multipart.FileHeader, storedName string) (string, error) {
	if err := os.MkdirAll(d.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	absPath := filepath.Join(d.baseDir, storedName)
	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write blob: %w", err)
	}

	return absPath, nil
}

func (d *Disk) Path(storedName string) string {
	return filepath.Join(d.baseDir, storedName)
}

func (d *Disk) Exists(storedName string) bool {
	info, err := os.Stat(d.Path(storedName))
	return err == nil && !info.IsDir()
}

// Remove unlinks a blob. A blob that is already gone is not an error.
func (d *Disk) Remove(storedName string) error {
	err := os.Remove(d.Path(storedName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, base)
	if len(base) > 40 {
		base = base[:40]
	}
	if base == "" {
		base = "file"
	}
	return base + strings.ToLower(ext)
}
