package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"sareeadmin.GO/core/storage"
)

// Bucket is a storage bucket on the hosted backend. It implements storage.Bucket.
type Bucket struct {
	client *Client
	name   string
}

// Bucket returns a handle for the named bucket. No request is made.
func (c *Client) Bucket(name string) *Bucket {
	return &Bucket{client: c, name: name}
}

// Name returns the bucket name.
func (b *Bucket) Name() string {
	return b.name
}

// PublicURL derives the public object URL. No request is made.
func (b *Bucket) PublicURL(name string) string {
	return b.client.baseURL + "/storage/v1/object/public/" + url.PathEscape(b.name) + "/" + escapeObjectPath(name)
}

type listRequest struct {
	Prefix string         `json:"prefix"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	SortBy storage.SortBy `json:"sortBy"`
}

type listEntry struct {
	Name      string                 `json:"name"`
	ID        *string                `json:"id"`
	CreatedAt *time.Time             `json:"created_at"`
	UpdatedAt *time.Time             `json:"updated_at"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// List returns one page of objects at opts.Prefix.
func (b *Bucket) List(ctx context.Context, opts storage.ListOptions) ([]storage.Object, error) {
	sortBy := opts.SortBy
	if sortBy.Column == "" {
		sortBy = storage.SortBy{Column: storage.SortByName, Order: storage.OrderAsc}
	}
	var entries []listEntry
	err := b.client.doJSON(ctx, http.MethodPost, "/storage/v1/object/list/"+url.PathEscape(b.name), listRequest{
		Prefix: opts.Prefix,
		Limit:  opts.Limit,
		Offset: opts.Offset,
		SortBy: sortBy,
	}, &entries)
	if err != nil {
		return nil, fmt.Errorf("list bucket %s at offset %d: %w", b.name, opts.Offset, err)
	}

	objects := make([]storage.Object, 0, len(entries))
	for _, e := range entries {
		obj := storage.Object{Name: e.Name}
		if e.ID != nil {
			obj.ID = *e.ID
		}
		if e.CreatedAt != nil {
			obj.CreatedAt = *e.CreatedAt
		}
		if e.UpdatedAt != nil {
			obj.UpdatedAt = *e.UpdatedAt
		}
		if e.Metadata != nil {
			md, err := decodeMetadata(e.Metadata)
			if err != nil {
				return nil, fmt.Errorf("decode metadata of %s: %w", e.Name, err)
			}
			obj.Metadata = md
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func decodeMetadata(raw map[string]interface{}) (storage.Metadata, error) {
	var md storage.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return md, err
	}
	return md, dec.Decode(raw)
}

// Upload stores body under name. Existing objects are not overwritten.
func (b *Bucket) Upload(ctx context.Context, name string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read upload body: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	err = b.client.do(ctx, request{
		method:      http.MethodPost,
		path:        "/storage/v1/object/" + url.PathEscape(b.name) + "/" + escapeObjectPath(name),
		body:        data,
		contentType: contentType,
		headers: map[string]string{
			"x-upsert":      "false",
			"cache-control": "max-age=3600",
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	return nil
}

// Remove deletes the named objects in one request.
func (b *Bucket) Remove(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	payload := struct {
		Prefixes []string `json:"prefixes"`
	}{Prefixes: names}
	if err := b.client.doJSON(ctx, http.MethodDelete, "/storage/v1/object/"+url.PathEscape(b.name), payload, nil); err != nil {
		return fmt.Errorf("remove %d objects: %w", len(names), err)
	}
	return nil
}

func escapeObjectPath(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
