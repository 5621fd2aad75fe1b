package file

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fileshare/internal/domain"
	"fileshare/internal/storage"
)

// AllowedExtensions is the upload allow-list: documents, images and
// archives, matched case-insensitively.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".zip":  true,
}

// AllowedExtensionList returns the allow-list in stable order, for error
// payloads.
func AllowedExtensionList() []string {
	out := make([]string, 0, len(AllowedExtensions))
	for ext := range AllowedExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Notifier pushes an event to a connected user. The websocket hub
// satisfies this; a nil notifier disables notifications.
type Notifier interface {
	SendToUser(userID int64, message interface{}) bool
}

// Service runs the upload pipeline and guards every file operation with
// the ownership check.
type Service struct {
	repo     Repository
	disk     *storage.Disk
	maxSize  int64
	notifier Notifier
}

func NewService(repo Repository, disk *storage.Disk, maxSize int64, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		disk:     disk,
		maxSize:  maxSize,
		notifier: notifier,
	}
}

func (s *Service) MaxSize() int64 { return s.maxSize }

// Upload validates the payload, persists the blob and registers the
// custody record. Any gate failure is terminal: nothing is written and
// no record is created. A failed registration rolls the blob back so no
// metadata can point at a missing blob and vice versa.
func (s *Service) Upload(ctx context.Context, ownerID int64, fileHeader *multipart.FileHeader) (*domain.File, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !AllowedExtensions[ext] {
		return nil, ErrUnsupportedType
	}

	if fileHeader.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	storedName := s.disk.StoredName(fileHeader.Filename)
	absPath, err := s.disk.Save(fileHeader, storedName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	f := &domain.File{
		OwnerID:      ownerID,
		OriginalName: filepath.Base(fileHeader.Filename),
		StoredName:   storedName,
		MimeType:     mimeType,
		Size:         fileHeader.Size,
		StoragePath:  absPath,
		UploadedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		_ = s.disk.Remove(storedName)
		return nil, fmt.Errorf("register file: %w", err)
	}

	s.notify(ownerID, "file.uploaded", f)
	return f, nil
}

// ListByOwner returns the owner's files in upload order.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.File, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetByID resolves a record and asserts the requester owns it.
func (s *Service) GetByID(ctx context.Context, id, requesterID int64) (*domain.File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(f, requesterID); err != nil {
		return nil, err
	}
	return f, nil
}

// Download resolves a record for streaming. Metadata and blob can
// diverge, so a missing blob is reported distinctly from a missing
// record.
func (s *Service) Download(ctx context.Context, id, requesterID int64) (*domain.File, string, error) {
	f, err := s.GetByID(ctx, id, requesterID)
	if err != nil {
		return nil, "", err
	}

	if !s.disk.Exists(f.StoredName) {
		return nil, "", ErrMissingOnDisk
	}

	return f, s.disk.Path(f.StoredName), nil
}

// Delete removes the custody record and unlinks the blob. The blob
// removal is best-effort: the record is gone either way.
func (s *Service) Delete(ctx context.Context, id, requesterID int64) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := assertOwner(f, requesterID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	_ = s.disk.Remove(f.StoredName)

	s.notify(requesterID, "file.deleted", f)
	return nil
}

// assertOwner is the single enforcement point for ownership
// exclusivity. Every detail, download and delete path goes through it.
func assertOwner(f *domain.File, requesterID int64) error {
	if f.OwnerID != requesterID {
		return ErrNotOwner
	}
	return nil
}

func (s *Service) notify(userID int64, event string, f *domain.File) {
	if s.notifier == nil {
		return
	}
	s.notifier.SendToUser(userID, map[string]any{
		"event": event,
		"file":  summaryOf(f),
	})
}
