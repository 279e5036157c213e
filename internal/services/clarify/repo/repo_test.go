package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"autoscrum/internal/platform/store/rd"
	"autoscrum/internal/services/clarify/domain"
)

func testRepo(t *testing.T) (*KV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := rd.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return NewKV(c), mr
}

func TestGetMissingReturnsNil(t *testing.T) {
	r, _ := testRepo(t)

	fc, err := r.Get(context.Background(), "feat-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fc != nil {
		t.Fatalf("expected nil context for missing feature, got %#v", fc)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	r, _ := testRepo(t)
	ctx := context.Background()

	in := domain.FeatureContext{
		FeatureName:        "CSV export",
		FeatureDescription: "export reports as CSV",
		QuestionsAsked:     2,
	}
	if err := r.Put(ctx, "feat-1", in); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := r.Get(ctx, "feat-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.FeatureName != "CSV export" || got.QuestionsAsked != 2 {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestPutTTLDependsOnCompletion(t *testing.T) {
	r, mr := testRepo(t)
	ctx := context.Background()

	if err := r.Put(ctx, "open", domain.FeatureContext{FeatureName: "a"}); err != nil {
		t.Fatalf("put incomplete: %v", err)
	}
	if ttl := mr.TTL("feature:open:context"); ttl != IncompleteTTL {
		t.Fatalf("incomplete ttl = %v want %v", ttl, IncompleteTTL)
	}

	if err := r.Put(ctx, "done", domain.FeatureContext{FeatureName: "b", IsComplete: true}); err != nil {
		t.Fatalf("put complete: %v", err)
	}
	if ttl := mr.TTL("feature:done:context"); ttl != CompleteTTL {
		t.Fatalf("complete ttl = %v want %v", ttl, CompleteTTL)
	}
}

func TestExpiredContextIsGone(t *testing.T) {
	r, mr := testRepo(t)
	ctx := context.Background()

	if err := r.Put(ctx, "feat-1", domain.FeatureContext{FeatureName: "a"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	mr.FastForward(IncompleteTTL + time.Second)

	fc, err := r.Get(ctx, "feat-1")
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if fc != nil {
		t.Fatalf("expected expired context to read as absent, got %#v", fc)
	}
}

func TestDeleteResetsDialogue(t *testing.T) {
	r, _ := testRepo(t)
	ctx := context.Background()

	if err := r.Put(ctx, "feat-1", domain.FeatureContext{FeatureName: "a"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := r.Delete(ctx, "feat-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if fc, _ := r.Get(ctx, "feat-1"); fc != nil {
		t.Fatalf("expected context gone after delete")
	}
	// deleting a missing context is fine
	if err := r.Delete(ctx, "feat-1"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
