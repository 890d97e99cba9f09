package cache

import (
	"context"
	"strconv"
	"testing"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/models"

	"github.com/alicebob/miniredis/v2"
)

func setupRedisTest(t *testing.T, prefix string) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse miniredis port failed: %v", err)
	}
	if err := InitRedis(&config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port, Prefix: prefix}); err != nil {
		t.Fatalf("init redis failed: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})
	return mr
}

func TestRedisKeyPrefix(t *testing.T) {
	setupRedisTest(t, "")
	if got := Key("draft:cart"); got != "kc:draft:cart" {
		t.Fatalf("default prefix want kc:draft:cart got %s", got)
	}
	if got := Key("  "); got != "kc" {
		t.Fatalf("blank key should map to prefix, got %s", got)
	}
}

func TestRedisBytesRoundTrip(t *testing.T) {
	mr := setupRedisTest(t, "kitchen")
	ctx := context.Background()

	if err := Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if _, hit, err := GetBytes(ctx, "missing"); err != nil || hit {
		t.Fatalf("missing key should miss without error, hit=%v err=%v", hit, err)
	}
	if err := SetBytes(ctx, "slot", []byte("payload"), 0); err != nil {
		t.Fatalf("set bytes failed: %v", err)
	}
	if got, err := mr.Get("kitchen:slot"); err != nil || got != "payload" {
		t.Fatalf("value should be stored under prefixed key, got %q err=%v", got, err)
	}
	if ttl := mr.TTL("kitchen:slot"); ttl != 0 {
		t.Fatalf("zero ttl should not expire, got %s", ttl)
	}
	body, hit, err := GetBytes(ctx, "slot")
	if err != nil || !hit || string(body) != "payload" {
		t.Fatalf("unexpected get result %q hit=%v err=%v", body, hit, err)
	}
}

func TestRedisDraftCacheRoundTrip(t *testing.T) {
	mr := setupRedisTest(t, "kc")
	ctx := context.Background()
	c := NewRedisDraftCache("")

	want := []models.CartLine{{ID: "line-1", ItemID: "i1", Name: "Rice", Store: "A", Unit: "kg"}}
	if err := c.Save(ctx, want); err != nil {
		t.Fatalf("save draft failed: %v", err)
	}
	if !mr.Exists("kc:draft:cart") {
		t.Fatalf("draft should be stored under kc:draft:cart, keys=%v", mr.Keys())
	}
	got, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("load draft failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "line-1" || got[0].Name != "Rice" {
		t.Fatalf("unexpected draft: %+v", got)
	}

	if err := c.Save(ctx, nil); err != nil {
		t.Fatalf("save empty draft failed: %v", err)
	}
	if raw, _ := mr.Get("kc:draft:cart"); raw != "[]" {
		t.Fatalf("empty draft should be stored as [], got %s", raw)
	}
}

func TestCloseDisablesCache(t *testing.T) {
	setupRedisTest(t, "kc")
	if !Enabled() {
		t.Fatalf("cache should be enabled after init")
	}
	if err := Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled after close")
	}
	if err := SetBytes(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("disabled set should be noop: %v", err)
	}
}
