package file

import "errors"

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrNotOwner        = errors.New("you do not own this file")
	ErrUnsupportedType = errors.New("file type is not allowed")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrMissingOnDisk   = errors.New("file metadata exists but blob is missing on disk")
	ErrStorageFailure  = errors.New("failed to store file")
)
