package media

import (
	"context"
	"iter"
	"path"
	"strings"

	"sareeadmin.GO/core/storage"
)

// DefaultBatchSize is the listing page size.
const DefaultBatchSize = 1000

type ResolverOptions struct {
	BatchSize int
	// SortBy must be stable across calls; it defaults to name ascending.
	SortBy storage.SortBy
	// Prefix restricts listing to one folder. Listed names are relative to it and
	// are joined back so every StorageObject carries its full object name.
	Prefix string
}

// Resolver enumerates a bucket exhaustively and subtracts referenced and excluded URLs.
// It holds no per-call state, so concurrent calls are independent.
type Resolver struct {
	lister storage.Lister
	opts   ResolverOptions
}

func NewResolver(lister storage.Lister, opts ResolverOptions) *Resolver {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.SortBy.Column == "" {
		opts.SortBy.Column = storage.SortByName
	}
	if opts.SortBy.Order == "" {
		opts.SortBy.Order = storage.OrderAsc
	}
	opts.Prefix = strings.Trim(opts.Prefix, "/")
	return &Resolver{lister: lister, opts: opts}
}

func (r *Resolver) BatchSize() int { return r.opts.BatchSize }

// Prefix is the folder the resolver lists; uploads land there too.
func (r *Resolver) Prefix() string { return r.opts.Prefix }

// Objects lazily lists the bucket in sequential batches at increasing offsets.
// The sequence ends after the first batch shorter than the batch size.
// A failed batch yields one *StorageListError and stops; callers must treat
// everything yielded before it as incomplete.
func (r *Resolver) Objects(ctx context.Context) iter.Seq2[StorageObject, error] {
	return func(yield func(StorageObject, error) bool) {
		seen := make(map[string]struct{})
		limit := r.opts.BatchSize
		for offset := 0; ; offset += limit {
			if err := ctx.Err(); err != nil {
				yield(StorageObject{}, &StorageListError{Offset: offset, Err: err})
				return
			}
			batch, err := r.lister.List(ctx, storage.ListOptions{
				Prefix: r.opts.Prefix,
				Limit:  limit,
				Offset: offset,
				SortBy: r.opts.SortBy,
			})
			if err != nil {
				yield(StorageObject{}, &StorageListError{Offset: offset, Err: err})
				return
			}
			for _, o := range batch {
				if skipEntry(o) {
					continue
				}
				name := o.Name
				if r.opts.Prefix != "" {
					name = path.Join(r.opts.Prefix, name)
				}
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				obj := StorageObject{
					Name:      name,
					PublicURL: r.lister.PublicURL(name),
					CreatedAt: o.CreatedAt,
					SizeBytes: o.Metadata.Size,
				}
				if !yield(obj, nil) {
					return
				}
			}
			// Termination uses the raw batch length, before filtering.
			if len(batch) < limit {
				return
			}
		}
	}
}

func skipEntry(o storage.Object) bool {
	return o.IsFolder() || o.Name == "" || path.Base(o.Name) == storage.EmptyFolderPlaceholder
}

// ListAllObjects drains Objects. It returns either the whole listing or an error, never a prefix.
func (r *Resolver) ListAllObjects(ctx context.Context) ([]StorageObject, error) {
	var out []StorageObject
	for obj, err := range r.Objects(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// Resolve lists the bucket and keeps objects whose URL is neither referenced nor excluded.
func (r *Resolver) Resolve(ctx context.Context, refs, excl URLSet) ([]StorageObject, error) {
	objs, err := r.ListAllObjects(ctx)
	if err != nil {
		return nil, err
	}
	return Subtract(objs, refs, excl), nil
}

// Subtract keeps, in order, the objects whose URL is in neither set. Nil sets are empty.
func Subtract(objects []StorageObject, refs, excl URLSet) []StorageObject {
	out := make([]StorageObject, 0, len(objects))
	for _, o := range objects {
		if refs.Has(o.PublicURL) || excl.Has(o.PublicURL) {
			continue
		}
		out = append(out, o)
	}
	return out
}
