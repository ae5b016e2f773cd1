package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New()
	c.Set("k", 42, time.Minute)
	if v, ok := c.Get("k").(int); !ok || v != 42 {
		t.Fatalf("Get = %v", c.Get("k"))
	}
	if c.Get("missing") != nil {
		t.Fatalf("expected nil for missing key")
	}
}

func TestExpiry(t *testing.T) {
	c := New()
	c.Set("k", "v", -time.Second)
	if c.Get("k") != nil {
		t.Fatalf("expired entry returned")
	}
	if e := c.GetEntry("k"); e == nil || !e.IsExpired() {
		t.Fatalf("GetEntry should still expose the expired entry")
	}

	c.Cleanup()
	if c.GetEntry("k") != nil {
		t.Fatalf("Cleanup kept an expired entry")
	}
}

func TestDelete(t *testing.T) {
	c := New()
	c.SetSlow("k", "v")
	c.Delete("k")
	if c.Get("k") != nil {
		t.Fatalf("deleted entry returned")
	}
}

func TestGlobalSingleton(t *testing.T) {
	if Global() != Global() {
		t.Fatalf("Global returned different instances")
	}
}
