package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c, err := New[[]string](100, time.Minute)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	c.Set("tenant-1", []string{"Room A", "Room B"})
	c.Wait()

	got, ok := c.Get("tenant-1")
	if !ok {
		t.Fatal("expected cached value")
	}
	if len(got) != 2 || got[0] != "Room A" {
		t.Errorf("unexpected cached value: %v", got)
	}

	if _, ok := c.Get("tenant-2"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_Delete(t *testing.T) {
	c, err := New[int](100, time.Minute)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	c.Set("k", 42)
	c.Wait()
	c.Delete("k")

	if _, ok := c.Get("k"); ok {
		t.Error("expected key to be deleted")
	}
}

func TestCache_Expiry(t *testing.T) {
	c, err := New[int](100, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	c.Set("k", 1)
	c.Wait()
	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}
