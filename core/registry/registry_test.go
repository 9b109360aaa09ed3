package registry

import "testing"

func TestRegistry_SetGetLock(t *testing.T) {
	r := New()
	if _, ok := r.GetGlobal("k"); ok {
		t.Fatal("GetGlobal on empty registry: want false")
	}
	r.SetGlobal("k", []string{"a"})
	v, ok := r.GetGlobal("k")
	if !ok || len(v.([]string)) != 1 {
		t.Fatalf("GetGlobal = %v, %v", v, ok)
	}

	if r.IsLocked("k") {
		t.Error("new key should not be locked")
	}
	r.Lock("k")
	if !r.IsLocked("k") {
		t.Error("Lock did not lock")
	}
	r.UnlockForTesting("k")
	if r.IsLocked("k") {
		t.Error("UnlockForTesting did not unlock")
	}
}
