package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"sareeadmin.GO/core/cache"
)

func newTestCache(src *fakeSource) (*ReconciliationCache, *fakeClock) {
	clk := newFakeClock()
	store := cache.NewCache(cache.WithClock(clk.Now))
	return NewReconciliationCache(NewAssetIndex(src), store, 30*time.Second, WithClock(clk.Now)), clk
}

func TestAssetIndex_UnionsAndDedupes(t *testing.T) {
	src := &fakeSource{lists: [][]string{{"a", "b"}, nil, {"b", "", "c"}}}
	set, err := NewAssetIndex(src).ComputeReferenceSet(context.Background())
	if err != nil {
		t.Fatalf("ComputeReferenceSet: %v", err)
	}
	got := set.Sorted()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("set = %v, want [a b c]", got)
	}
}

func TestAssetIndex_FailureIsDataFetchError(t *testing.T) {
	src := &fakeSource{err: errInjected}
	set, err := NewAssetIndex(src).ComputeReferenceSet(context.Background())
	if set != nil {
		t.Errorf("set = %v, want nil", set)
	}
	var dfe *DataFetchError
	if !errors.As(err, &dfe) || !errors.Is(err, errInjected) {
		t.Errorf("err = %v, want *DataFetchError wrapping injected failure", err)
	}
}

func TestReconciliationCache_TTL(t *testing.T) {
	src := &fakeSource{lists: [][]string{{"a"}}}
	rc, clk := newTestCache(src)
	ctx := context.Background()

	if _, err := rc.Get(ctx, false); err != nil {
		t.Fatal(err)
	}
	clk.Advance(29 * time.Second)
	if _, err := rc.Get(ctx, false); err != nil {
		t.Fatal(err)
	}
	if src.Calls() != 1 {
		t.Fatalf("calls within TTL = %d, want 1", src.Calls())
	}

	clk.Advance(2 * time.Second)
	if _, err := rc.Get(ctx, false); err != nil {
		t.Fatal(err)
	}
	if src.Calls() != 2 {
		t.Errorf("calls after TTL = %d, want 2", src.Calls())
	}

	if _, err := rc.Get(ctx, true); err != nil {
		t.Fatal(err)
	}
	if src.Calls() != 3 {
		t.Errorf("calls after force = %d, want 3", src.Calls())
	}
}

func TestReconciliationCache_ExactlyAtTTLRecomputes(t *testing.T) {
	src := &fakeSource{}
	rc, clk := newTestCache(src)
	_, _ = rc.Get(context.Background(), false)
	clk.Advance(30 * time.Second)
	_, _ = rc.Get(context.Background(), false)
	if src.Calls() != 2 {
		t.Errorf("calls = %d, want 2", src.Calls())
	}
}

func TestReconciliationCache_Invalidate(t *testing.T) {
	src := &fakeSource{lists: [][]string{{"a"}}}
	rc, _ := newTestCache(src)
	ctx := context.Background()

	_, _ = rc.Get(ctx, false)
	if _, ok := rc.CachedAt(); !ok {
		t.Fatal("CachedAt empty after Get")
	}
	rc.Invalidate()
	if _, ok := rc.CachedAt(); ok {
		t.Error("CachedAt present after Invalidate")
	}

	src.set([]string{"a"}, []string{"b"})
	set, _ := rc.Get(ctx, false)
	if src.Calls() != 2 {
		t.Errorf("calls = %d, want 2", src.Calls())
	}
	if !set.Has("b") {
		t.Errorf("set = %v, want fresh set with b", set.Sorted())
	}
}

func TestReconciliationCache_InvalidateDuringComputeWins(t *testing.T) {
	src := &fakeSource{lists: [][]string{{"a"}}}
	rc, _ := newTestCache(src)
	src.hook = func(call int) {
		if call == 1 {
			rc.Invalidate()
		}
	}

	set, err := rc.Get(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if !set.Has("a") {
		t.Errorf("in-flight caller should still get its result, got %v", set.Sorted())
	}
	if _, ok := rc.CachedAt(); ok {
		t.Error("result computed before Invalidate was written back")
	}
	_, _ = rc.Get(context.Background(), false)
	if src.Calls() != 2 {
		t.Errorf("calls = %d, want 2", src.Calls())
	}
}

func TestReconciliationCache_ErrorLeavesSlotUntouched(t *testing.T) {
	src := &fakeSource{lists: [][]string{{"a"}}}
	rc, _ := newTestCache(src)
	ctx := context.Background()
	_, _ = rc.Get(ctx, false)
	at, _ := rc.CachedAt()

	src.mu.Lock()
	src.err = errInjected
	src.mu.Unlock()

	if _, err := rc.Get(ctx, true); err == nil {
		t.Fatal("expected error on forced refresh")
	}
	again, ok := rc.CachedAt()
	if !ok || !again.Equal(at) {
		t.Errorf("slot changed after failed refresh: %v %v", again, ok)
	}
}

func TestReconciliationCache_DefaultTTL(t *testing.T) {
	rc := NewReconciliationCache(NewAssetIndex(&fakeSource{}), nil, 0)
	if rc.TTL() != DefaultReferenceTTL {
		t.Errorf("TTL = %v, want %v", rc.TTL(), DefaultReferenceTTL)
	}
}
