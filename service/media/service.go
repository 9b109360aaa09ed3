package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sareeadmin.GO/core/log"
	"sareeadmin.GO/core/storage"
)

// DefaultUploadMaxBytes caps a single upload.
const DefaultUploadMaxBytes = 10 << 20

// removeChunk bounds the number of names sent per delete call.
const removeChunk = 500

type Options struct {
	Bucket         storage.Bucket
	Cache          *ReconciliationCache
	Resolver       *Resolver
	Notifier       Notifier
	Optimizer      *Optimizer
	UploadMaxBytes int64
	Now            func() time.Time
}

// Service is the entry point used by the API, CLI and cron jobs.
type Service struct {
	bucket    storage.Bucket
	cache     *ReconciliationCache
	resolver  *Resolver
	notifier  Notifier
	optimizer *Optimizer
	maxBytes  int64
	now       func() time.Time
}

func NewService(opts Options) *Service {
	s := &Service{
		bucket:    opts.Bucket,
		cache:     opts.Cache,
		resolver:  opts.Resolver,
		notifier:  opts.Notifier,
		optimizer: opts.Optimizer,
		maxBytes:  opts.UploadMaxBytes,
		now:       opts.Now,
	}
	if s.resolver == nil {
		s.resolver = NewResolver(opts.Bucket, ResolverOptions{})
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultUploadMaxBytes
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Cache() *ReconciliationCache { return s.cache }

// GetUnorganizedImages returns the stored images not used by any product and not in excludeURLs,
// in listing order.
func (s *Service) GetUnorganizedImages(ctx context.Context, excludeURLs []string, forceRefresh bool) ([]UnorganizedImage, error) {
	objs, err := s.Unorganized(ctx, NewURLSet(excludeURLs...), forceRefresh)
	if err != nil {
		return nil, err
	}
	return toImages(objs), nil
}

// Unorganized fetches the reference set and the bucket listing concurrently, then subtracts.
func (s *Service) Unorganized(ctx context.Context, excl URLSet, forceRefresh bool) ([]StorageObject, error) {
	var (
		refs URLSet
		objs []StorageObject
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		refs, err = s.cache.Get(gctx, forceRefresh)
		return err
	})
	g.Go(func() error {
		var err error
		objs, err = s.resolver.ListAllObjects(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Subtract(objs, refs, excl), nil
}

// InvalidateCache clears the local reference set and tells peers to do the same.
func (s *Service) InvalidateCache(ctx context.Context) {
	s.cache.Invalidate()
	if err := s.notifier.Publish(ctx); err != nil {
		log.Warn().Err(err).Msg("media: broadcast invalidation failed")
	}
}

type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Upload stores one file under a fresh unique name and returns its public URL.
func (s *Service) Upload(ctx context.Context, in UploadInput) (UnorganizedImage, error) {
	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return UnorganizedImage{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return UnorganizedImage{}, ErrEmptyUpload
	}
	if int64(len(data)) > s.maxBytes {
		return UnorganizedImage{}, fmt.Errorf("%w: limit is %d bytes", ErrUploadTooLarge, s.maxBytes)
	}

	contentType := in.ContentType
	ext := strings.ToLower(path.Ext(in.Filename))
	if s.optimizer != nil {
		opt, err := s.optimizer.Optimize(data)
		if err != nil {
			return UnorganizedImage{}, err
		}
		log.Debug().Str("file", in.Filename).Int("before", len(data)).Int("after", len(opt.Data)).Msg("media: optimized upload")
		data, contentType, ext = opt.Data, opt.ContentType, opt.Ext
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := s.objectName(ext)
	if err := s.bucket.Upload(ctx, name, bytes.NewReader(data), contentType); err != nil {
		return UnorganizedImage{}, &StorageUploadError{Name: name, Err: err}
	}
	s.InvalidateCache(ctx)
	log.Info().Str("name", name).Int("bytes", len(data)).Msg("media: uploaded")
	return UnorganizedImage{Name: name, URL: s.bucket.PublicURL(name)}, nil
}

func (s *Service) objectName(ext string) string {
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return path.Join(s.resolver.Prefix(), fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext))
}

// Delete removes objects that no product references. The check uses a freshly computed reference set.
func (s *Service) Delete(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	refs, err := s.cache.Get(ctx, true)
	if err != nil {
		return err
	}
	for _, n := range names {
		if refs.Has(s.bucket.PublicURL(n)) {
			return fmt.Errorf("%w: %s", ErrObjectReferenced, n)
		}
	}
	return s.remove(ctx, names)
}

func (s *Service) remove(ctx context.Context, names []string) error {
	for i := 0; i < len(names); i += removeChunk {
		chunk := names[i:min(i+removeChunk, len(names))]
		if err := s.bucket.Remove(ctx, chunk); err != nil {
			return &StorageDeleteError{Names: chunk, Err: err}
		}
	}
	log.Info().Int("count", len(names)).Msg("media: deleted objects")
	return nil
}

// PruneReport describes unorganized objects older than a cutoff.
type PruneReport struct {
	Cutoff     time.Time       `json:"cutoff"`
	DryRun     bool            `json:"dry_run"`
	Candidates []StorageObject `json:"candidates"`
	TotalBytes int64           `json:"total_bytes"`
	Deleted    int             `json:"deleted"`
}

// Prune deletes unorganized objects created before now-olderThan. Objects without a
// creation time are never pruned.
func (s *Service) Prune(ctx context.Context, olderThan time.Duration, dryRun bool) (PruneReport, error) {
	report := PruneReport{Cutoff: s.now().Add(-olderThan), DryRun: dryRun}
	objs, err := s.Unorganized(ctx, nil, true)
	if err != nil {
		return report, err
	}
	names := make([]string, 0)
	for _, o := range objs {
		if o.CreatedAt.IsZero() || !o.CreatedAt.Before(report.Cutoff) {
			continue
		}
		report.Candidates = append(report.Candidates, o)
		report.TotalBytes += o.SizeBytes
		names = append(names, o.Name)
	}
	if dryRun || len(names) == 0 {
		return report, nil
	}
	if err := s.remove(ctx, names); err != nil {
		return report, err
	}
	report.Deleted = len(names)
	return report, nil
}
