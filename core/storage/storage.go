package storage

import (
	"context"
	"io"
	"time"
)

// EmptyFolderPlaceholder is the marker object storage backends create to keep an empty folder alive.
const EmptyFolderPlaceholder = ".emptyFolderPlaceholder"

// Sort orders accepted by List.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Sortable columns.
const (
	SortByName      = "name"
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
)

// SortBy selects the listing order.
type SortBy struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

// ListOptions contains options for listing objects at a prefix.
type ListOptions struct {
	Prefix string
	Limit  int
	Offset int
	SortBy SortBy
}

// Metadata is the subset of object metadata the admin cares about.
type Metadata struct {
	Size     int64  `mapstructure:"size" json:"size"`
	MimeType string `mapstructure:"mimetype" json:"mimetype"`
	ETag     string `mapstructure:"eTag" json:"eTag"`
}

// Object describes one entry returned by a listing. Folders come back with an empty ID.
type Object struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Metadata  Metadata
}

// IsFolder reports whether the entry is a folder pseudo-entry rather than a stored file.
func (o Object) IsFolder() bool {
	return o.ID == ""
}

// Lister enumerates a bucket page by page and derives public URLs.
type Lister interface {
	List(ctx context.Context, opts ListOptions) ([]Object, error)
	// PublicURL is a pure function of the object name.
	PublicURL(name string) string
}

// Bucket is the object-storage collaborator used by the media service.
type Bucket interface {
	Lister
	Name() string
	Upload(ctx context.Context, name string, body io.Reader, contentType string) error
	Remove(ctx context.Context, names []string) error
}
