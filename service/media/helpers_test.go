package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"sareeadmin.GO/core/cache"
	"sareeadmin.GO/core/storage"
	"sareeadmin.GO/core/storage/memory"
)

const testBaseURL = "https://cdn.test/storage/v1/object/public"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// fakeSource serves fixed image lists and counts calls. hook runs before returning, outside any lock.
type fakeSource struct {
	mu    sync.Mutex
	lists [][]string
	err   error
	calls int
	hook  func(call int)
}

func (f *fakeSource) ImageLists(ctx context.Context) ([][]string, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	lists, err, hook := f.lists, f.err, f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) set(lists ...[]string) {
	f.mu.Lock()
	f.lists = lists
	f.mu.Unlock()
}

// sliceLister pages over a fixed slice in the given order.
type sliceLister struct {
	objects []storage.Object
	calls   int
}

func (l *sliceLister) List(_ context.Context, opts storage.ListOptions) ([]storage.Object, error) {
	l.calls++
	if opts.Offset >= len(l.objects) {
		return nil, nil
	}
	end := min(opts.Offset+opts.Limit, len(l.objects))
	return l.objects[opts.Offset:end], nil
}

func (l *sliceLister) PublicURL(name string) string { return "https://cdn.test/" + name }

// failingBucket wraps a memory bucket and injects errors.
type failingBucket struct {
	*memory.Bucket
	listFailAt int // fail List calls with Offset >= listFailAt when > 0
	uploadErr  error
	removeErr  error
}

var errInjected = errors.New("injected failure")

func (b *failingBucket) List(ctx context.Context, opts storage.ListOptions) ([]storage.Object, error) {
	if b.listFailAt > 0 && opts.Offset >= b.listFailAt {
		return nil, fmt.Errorf("offset %d: %w", opts.Offset, errInjected)
	}
	return b.Bucket.List(ctx, opts)
}

func (b *failingBucket) Upload(ctx context.Context, name string, body io.Reader, contentType string) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	return b.Bucket.Upload(ctx, name, body, contentType)
}

func (b *failingBucket) Remove(ctx context.Context, names []string) error {
	if b.removeErr != nil {
		return b.removeErr
	}
	return b.Bucket.Remove(ctx, names)
}

func newTestBucket() *memory.Bucket {
	return memory.NewBucket("product-images", testBaseURL)
}

type testEnv struct {
	bucket *memory.Bucket
	source *fakeSource
	clock  *fakeClock
	cache  *ReconciliationCache
	svc    *Service
}

func newTestEnv(bucket storage.Bucket, mem *memory.Bucket) *testEnv {
	clk := newFakeClock()
	src := &fakeSource{}
	rc := NewReconciliationCache(NewAssetIndex(src), cache.NewCache(cache.WithClock(clk.Now)), DefaultReferenceTTL, WithClock(clk.Now))
	svc := NewService(Options{
		Bucket:   bucket,
		Cache:    rc,
		Resolver: NewResolver(bucket, ResolverOptions{BatchSize: 10}),
		Now:      clk.Now,
	})
	return &testEnv{bucket: mem, source: src, clock: clk, cache: rc, svc: svc}
}

func (e *testEnv) url(name string) string { return e.bucket.PublicURL(name) }

func names(objs []StorageObject) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Name
	}
	return out
}
