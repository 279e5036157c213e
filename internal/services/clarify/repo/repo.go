// Package repo persists clarification dialogue state in the KV store
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	perr "autoscrum/internal/platform/errors"
	"autoscrum/internal/platform/store"
	"autoscrum/internal/services/clarify/domain"
)

const (
	// IncompleteTTL bounds how long an abandoned dialogue lingers
	IncompleteTTL = time.Hour
	// CompleteTTL keeps a finished context around long enough for story
	// generation to pick it up
	CompleteTTL = 24 * time.Hour
)

// Contexts defines the repository contract for dialogue state
type Contexts interface {
	Get(ctx context.Context, featureID string) (*domain.FeatureContext, error)
	Put(ctx context.Context, featureID string, fc domain.FeatureContext) error
	Delete(ctx context.Context, featureID string) error
}

// KV implements Contexts on the shared KV store
type KV struct {
	kv store.KV
}

// NewKV creates a new KV-backed context repository
func NewKV(kv store.KV) *KV {
	if kv == nil {
		panic("clarify repo requires a non nil KV store")
	}
	return &KV{kv: kv}
}

func key(featureID string) string {
	return fmt.Sprintf("feature:%s:context", featureID)
}

// Get loads a feature context, returning nil when none exists
func (r *KV) Get(ctx context.Context, featureID string) (*domain.FeatureContext, error) {
	b, ok, err := r.kv.Get(ctx, key(featureID))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "clarify context get failed")
	}
	if !ok {
		return nil, nil
	}
	var fc domain.FeatureContext
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "clarify context decode failed")
	}
	return &fc, nil
}

// Put stores a feature context. Completed contexts live longer than
// in-flight ones
func (r *KV) Put(ctx context.Context, featureID string, fc domain.FeatureContext) error {
	b, err := json.Marshal(fc)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "clarify context encode failed")
	}
	ttl := IncompleteTTL
	if fc.IsComplete {
		ttl = CompleteTTL
	}
	if err := r.kv.Set(ctx, key(featureID), b, ttl); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "clarify context set failed")
	}
	return nil
}

// Delete removes a feature context
func (r *KV) Delete(ctx context.Context, featureID string) error {
	if err := r.kv.Delete(ctx, key(featureID)); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "clarify context delete failed")
	}
	return nil
}
