package cache

import (
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	s := NewMemory()
	s.Set("k", "v", time.Minute)

	v, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if v != "v" {
		t.Errorf("expected v, got %s", v)
	}
}

func TestMemory_Miss(t *testing.T) {
	s := NewMemory()
	if _, ok := s.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestMemory_Expiry(t *testing.T) {
	s := NewMemory()
	s.Set("k", "v", -time.Second)

	if _, ok := s.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
	// Lazy expiration should have removed the entry.
	s.mu.RLock()
	_, present := s.entries["k"]
	s.mu.RUnlock()
	if present {
		t.Error("expected expired entry to be deleted on read")
	}
}

func TestMemory_Delete(t *testing.T) {
	s := NewMemory()
	s.Set("k", "v", time.Minute)
	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestMemory_Clear(t *testing.T) {
	s := NewMemory()
	s.Set("a", "1", time.Minute)
	s.Set("b", "2", time.Minute)
	s.Clear()
	if _, ok := s.Get("a"); ok {
		t.Error("expected miss after clear")
	}
	if _, ok := s.Get("b"); ok {
		t.Error("expected miss after clear")
	}
}

func TestMemory_Overwrite(t *testing.T) {
	s := NewMemory()
	s.Set("k", "old", time.Minute)
	s.Set("k", "new", time.Minute)
	v, _ := s.Get("k")
	if v != "new" {
		t.Errorf("expected new, got %s", v)
	}
}
