package media

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectReferenced = errors.New("object is referenced by a product")
	ErrSessionNotFound  = errors.New("picker session not found")
	ErrSessionClosed    = errors.New("picker session closed")
	ErrStaleResult      = errors.New("result superseded by a newer refresh")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrEmptyUpload      = errors.New("empty upload")
	ErrUploadTooLarge   = errors.New("upload too large")
	ErrInvalidImage     = errors.New("file is not a supported image")
)

// DataFetchError means the product images could not be read. No partial reference set accompanies it.
type DataFetchError struct {
	Err error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("fetch product images: %v", e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// StorageListError means a listing batch failed; the enumeration is abandoned.
type StorageListError struct {
	Offset int
	Err    error
}

func (e *StorageListError) Error() string {
	return fmt.Sprintf("list bucket at offset %d: %v", e.Offset, e.Err)
}

func (e *StorageListError) Unwrap() error { return e.Err }

type StorageUploadError struct {
	Name string
	Err  error
}

func (e *StorageUploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Name, e.Err)
}

func (e *StorageUploadError) Unwrap() error { return e.Err }

type StorageDeleteError struct {
	Names []string
	Err   error
}

func (e *StorageDeleteError) Error() string {
	return fmt.Sprintf("delete %s: %v", strings.Join(e.Names, ", "), e.Err)
}

func (e *StorageDeleteError) Unwrap() error { return e.Err }
