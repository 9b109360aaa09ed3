// Package memory is an in-process Bucket used for local development and tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sareeadmin.GO/core/storage"
)

// ErrObjectExists is returned when uploading over an existing name.
var ErrObjectExists = errors.New("object already exists")

type object struct {
	id          string
	name        string
	data        []byte
	contentType string
	createdAt   time.Time
}

// Bucket keeps objects in memory. Safe for concurrent use.
type Bucket struct {
	name    string
	baseURL string
	mu      sync.RWMutex
	objects map[string]*object
	folders map[string]time.Time
	now     func() time.Time
	lists   int
}

// NewBucket creates an empty bucket whose public URLs start with baseURL.
func NewBucket(name, baseURL string) *Bucket {
	return &Bucket{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]*object),
		folders: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Name returns the bucket name.
func (b *Bucket) Name() string {
	return b.name
}

// PublicURL derives the object's public URL.
func (b *Bucket) PublicURL(name string) string {
	return b.baseURL + "/" + url.PathEscape(b.name) + "/" + url.PathEscape(name)
}

// Put stores an object with an explicit creation time, overwriting any previous one.
func (b *Bucket) Put(name string, data []byte, createdAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[name] = &object{id: uuid.NewString(), name: name, data: data, createdAt: createdAt}
}

// AddFolder adds a folder pseudo-entry that listings return with an empty ID.
func (b *Bucket) AddFolder(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.folders[name] = b.now()
}

// Upload stores a new object. Existing names are rejected.
func (b *Bucket) Upload(ctx context.Context, name string, body io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read upload body: %w", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[name]; ok {
		return fmt.Errorf("%w: %s", ErrObjectExists, name)
	}
	b.objects[name] = &object{
		id:          uuid.NewString(),
		name:        name,
		data:        data,
		contentType: contentType,
		createdAt:   b.now(),
	}
	return nil
}

// Remove deletes the named objects. Unknown names are ignored.
func (b *Bucket) Remove(ctx context.Context, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range names {
		delete(b.objects, n)
	}
	return nil
}

// Data returns a copy of the stored bytes.
func (b *Bucket) Data(name string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.objects[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), o.data...), true
}

// Len returns the number of stored objects, folders excluded.
func (b *Bucket) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}

// ListCalls returns how many List requests were served.
func (b *Bucket) ListCalls() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lists
}

// relativeName strips the folder prefix from name. Names outside the folder do not match.
func relativeName(name, prefix string) (string, bool) {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name, true
	}
	rel, ok := strings.CutPrefix(name, prefix+"/")
	return rel, ok && rel != ""
}

// List returns one page of the folder at opts.Prefix, folders first like the hosted
// storage API. Names are relative to the folder.
func (b *Bucket) List(ctx context.Context, opts storage.ListOptions) ([]storage.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.lists++
	entries := make([]storage.Object, 0, len(b.objects)+len(b.folders))
	var folders []storage.Object
	for name, at := range b.folders {
		if rel, ok := relativeName(name, opts.Prefix); ok {
			folders = append(folders, storage.Object{Name: rel, CreatedAt: at})
		}
	}
	for _, o := range b.objects {
		rel, ok := relativeName(o.name, opts.Prefix)
		if !ok {
			continue
		}
		entries = append(entries, storage.Object{
			ID:        o.id,
			Name:      rel,
			CreatedAt: o.createdAt,
			UpdatedAt: o.createdAt,
			Metadata: storage.Metadata{
				Size:     int64(len(o.data)),
				MimeType: o.contentType,
			},
		})
	}
	b.mu.Unlock()

	sortObjects(folders, storage.SortBy{Column: storage.SortByName, Order: storage.OrderAsc})
	sortObjects(entries, opts.SortBy)
	all := append(folders, entries...)

	if opts.Offset >= len(all) {
		return []storage.Object{}, nil
	}
	end := len(all)
	if opts.Limit > 0 && opts.Offset+opts.Limit < end {
		end = opts.Offset + opts.Limit
	}
	return all[opts.Offset:end], nil
}

func sortObjects(objs []storage.Object, by storage.SortBy) {
	desc := by.Order == storage.OrderDesc
	sort.SliceStable(objs, func(i, j int) bool {
		a, c := objs[i], objs[j]
		var less, equal bool
		switch by.Column {
		case storage.SortByCreatedAt, storage.SortByUpdatedAt:
			less, equal = a.CreatedAt.Before(c.CreatedAt), a.CreatedAt.Equal(c.CreatedAt)
		default:
			less, equal = a.Name < c.Name, a.Name == c.Name
		}
		if equal {
			return a.Name < c.Name
		}
		if desc {
			return !less
		}
		return less
	})
}
