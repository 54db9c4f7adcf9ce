package storage

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrRecordExists   = errors.New("record already exists")
	ErrOrphanRecord   = errors.New("record media is missing")
	ErrCorruptRecord  = errors.New("record metadata is corrupt")
	ErrInvalidID      = errors.New("invalid record id")
	ErrInvalidRecord  = errors.New("invalid record")
	ErrMediaNotFound  = errors.New("media not found")

	ErrPendingNotFound   = errors.New("pending evaluation not found")
	ErrPendingSaved      = errors.New("pending evaluation already saved")
	ErrFingerprintExists = errors.New("fingerprint already has a pending evaluation")
)

// StorageWriteError is returned when a record or its media could not be written (disk full, permissions).
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage: failed to write %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }
