package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPageKey(t *testing.T) {
	a := PageKey("https://velocity.example/companies")
	b := PageKey("https://velocity.example/companies/")

	if !strings.HasPrefix(a, "founderscout:v1:") {
		t.Errorf("key missing version prefix: %q", a)
	}
	if a == b {
		t.Error("distinct URLs must produce distinct keys")
	}
	if a != PageKey("https://velocity.example/companies") {
		t.Error("keys must be stable")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	key := PageKey("https://a.example/")

	if _, found := c.Get(key); found {
		t.Error("empty cache must miss")
	}

	if err := c.Set(key, []byte("<html>page</html>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get(key)
	if !found || !bytes.Equal(val, []byte("<html>page</html>")) {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("deleted key must miss")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	key := PageKey("https://a.example/")

	if err := c.Set(key, []byte("stale"), -time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expired entry must miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Hour, dir, time.Hour)
	key := PageKey("https://a.example/")

	if err := c.Set(key, []byte("page"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Fresh layered cache over the same dir: memory is cold, disk warm
	c2 := NewLayeredCache(time.Hour, dir, time.Hour)
	val, found := c2.Get(key)
	if !found || string(val) != "page" {
		t.Fatalf("disk layer miss: %q, %v", val, found)
	}

	// After promotion the memory layer serves it directly
	if val, found := c2.memory.Get(key); !found || string(val) != "page" {
		t.Errorf("disk hit was not promoted to memory: %q, %v", val, found)
	}
}
