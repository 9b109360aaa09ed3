package media

import (
	"errors"
	"reflect"
	"testing"
)

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection([]string{"a", "b", "a"})
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if s.Toggle("a") {
		t.Error("Toggle on selected url should deselect")
	}
	if !s.Toggle("c") {
		t.Error("Toggle on new url should select")
	}
	if got := s.Commit(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Commit = %v, want [b c]", got)
	}
	if s.Toggle("") {
		t.Error("empty url must not be selected")
	}
}

func TestSelection_ReorderKeepsMembership(t *testing.T) {
	s := NewSelection([]string{"a", "b", "c", "d"})
	if err := s.Reorder(3, 0); err != nil {
		t.Fatal(err)
	}
	if got := s.Commit(); !reflect.DeepEqual(got, []string{"d", "a", "b", "c"}) {
		t.Errorf("after Reorder(3,0) = %v", got)
	}
	if main, _ := s.Main(); main != "d" {
		t.Errorf("Main = %q, want d", main)
	}
	if err := s.Reorder(0, 2); err != nil {
		t.Fatal(err)
	}
	if got := s.Commit(); !reflect.DeepEqual(got, []string{"a", "b", "d", "c"}) {
		t.Errorf("after Reorder(0,2) = %v", got)
	}
	if err := s.Reorder(1, 1); err != nil {
		t.Errorf("Reorder same index: %v", err)
	}
	if err := s.Reorder(0, 4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Reorder out of range: err = %v", err)
	}
	if err := s.Reorder(-1, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Reorder negative: err = %v", err)
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
}

func TestSelection_AppendNeverBecomesMainUnlessEmpty(t *testing.T) {
	s := NewSelection(nil)
	if _, ok := s.Main(); ok {
		t.Error("empty selection has a main image")
	}
	s.Append("up1")
	if main, _ := s.Main(); main != "up1" {
		t.Errorf("Main = %q, want up1", main)
	}
	s.Append("up2")
	if main, _ := s.Main(); main != "up1" {
		t.Errorf("Main = %q after second append, want up1", main)
	}
	if s.Append("up1") {
		t.Error("duplicate append succeeded")
	}
}

func TestSelection_CommitIsCopy(t *testing.T) {
	s := NewSelection([]string{"a"})
	out := s.Commit()
	out[0] = "mutated"
	if !s.Contains("a") {
		t.Error("Commit result aliases internal state")
	}
}
