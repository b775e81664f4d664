package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/crmgate/crmgate/internal/model"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	c, err := New(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})

	return c, mr
}

func TestDecisionRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	key := DecisionKey("token", "/companyOverview")

	if _, ok := c.GetDecision(ctx, key); ok {
		t.Fatal("expected miss before set")
	}

	if err := c.SetDecision(ctx, key, model.EffectAllow, 5*time.Minute); err != nil {
		t.Fatalf("SetDecision error: %v", err)
	}

	effect, ok := c.GetDecision(ctx, key)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if effect != model.EffectAllow {
		t.Errorf("expected Allow, got %s", effect)
	}
}

func TestDecisionExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	key := DecisionKey("token", "/getPreferences")

	if err := c.SetDecision(ctx, key, model.EffectDeny, time.Minute); err != nil {
		t.Fatalf("SetDecision error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok := c.GetDecision(ctx, key); ok {
		t.Fatal("expected miss after TTL expired")
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)

	key := DecisionKey("token", "/companyOverview")
	mr.Set(decisionCachePrefix+key, "Maybe")

	if _, ok := c.GetDecision(context.Background(), key); ok {
		t.Fatal("expected corrupted entry to read as a miss")
	}
}

func TestDecisionKey(t *testing.T) {
	base := DecisionKey("token", "/companyOverview")

	if DecisionKey("token", "/companyOverview") != base {
		t.Error("key is not deterministic")
	}
	if DecisionKey("other", "/companyOverview") == base {
		t.Error("key does not vary with token")
	}
	if DecisionKey("token", "/getPreferences") == base {
		t.Error("key does not vary with resource")
	}
	if DecisionKey("tokenX", "y") == DecisionKey("token", "Xy") {
		t.Error("token and resource are not delimited")
	}
}
