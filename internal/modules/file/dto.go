package file

import (
	"time"

	"fileshare/internal/domain"
)

// FileSummary is the outward shape used by upload and list responses.
type FileSummary struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// FileDetail additionally carries the mime type.
type FileDetail struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func summaryOf(f *domain.File) FileSummary {
	return FileSummary{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		StoredName:   f.StoredName,
		Size:         f.Size,
		UploadedAt:   f.UploadedAt,
	}
}

func detailOf(f *domain.File) FileDetail {
	return FileDetail{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		StoredName:   f.StoredName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		UploadedAt:   f.UploadedAt,
	}
}
