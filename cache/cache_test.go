package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("featured_articles", map[string]any{"limit": 5, "page": 1})
	b := Key("featured_articles", map[string]any{"page": 1, "limit": 5})
	if a != b {
		t.Errorf("equal parameter sets produced different keys:\n%s\n%s", a, b)
	}
}

func TestKeyDistinguishesParams(t *testing.T) {
	a := Key("featured_articles", map[string]any{"limit": 5})
	b := Key("featured_articles", map[string]any{"limit": 6})
	if a == b {
		t.Error("different parameter values produced the same key")
	}

	c := Key("source_articles", map[string]any{"limit": 5})
	if a == c {
		t.Error("different operations produced the same key")
	}
}

func TestKeyWithoutParams(t *testing.T) {
	key := Key("statistics", nil)
	if key != "news_aggregator:statistics" {
		t.Errorf("key = %q, want news_aggregator:statistics", key)
	}
	if !strings.HasPrefix(Key("statistics", map[string]any{"x": 1}), "news_aggregator:statistics:") {
		t.Error("parameterized key should extend the bare operation key")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := m.Set(ctx, "k", payload{Name: "x", Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	hit, err := m.Get(ctx, "k", &out)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if out.Name != "x" || out.Count != 3 {
		t.Errorf("round trip = %+v", out)
	}

	var missing payload
	hit, err = m.Get(ctx, "absent", &missing)
	if err != nil || hit {
		t.Errorf("absent key: hit=%v err=%v, want miss without error", hit, err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", "value", 30*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out string
	if hit, _ := m.Get(ctx, "k", &out); !hit {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(time.Minute)
	if hit, _ := m.Get(ctx, "k", &out); hit {
		t.Error("expected miss after expiry")
	}
}

func TestMemoryForget(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "a", 1, time.Minute)
	m.Set(ctx, "b", 2, time.Minute)

	if err := m.Forget(ctx, "a", "never-existed"); err != nil {
		t.Fatalf("Forget: %v", err)
	}

	var out int
	if hit, _ := m.Get(ctx, "a", &out); hit {
		t.Error("forgotten key still present")
	}
	if hit, _ := m.Get(ctx, "b", &out); !hit {
		t.Error("unrelated key was evicted")
	}
}

func TestMemoryTagsUnsupported(t *testing.T) {
	m := NewMemory()
	if m.SupportsTags() {
		t.Error("memory backend must report no tag support")
	}
	if err := m.FlushTags(context.Background(), TagArticles); err != ErrTagsUnsupported {
		t.Errorf("FlushTags err = %v, want ErrTagsUnsupported", err)
	}
}
