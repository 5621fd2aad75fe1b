package domain

import "time"

// File binds a stored blob to its owning user. The blob itself lives on
// disk under StoredName; metadata and blob lifetimes are coupled through
// the file service (delete removes both).
type File struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OwnerID      int64     `gorm:"column:owner_id;index" json:"owner_id"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	StoredName   string    `gorm:"column:stored_name;uniqueIndex" json:"stored_name"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	Size         int64     `gorm:"column:size" json:"size"`
	StoragePath  string    `gorm:"column:storage_path" json:"-"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (File) TableName() string { return "files" }
