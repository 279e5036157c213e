// Package repo reads clarified feature contexts from the KV store
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	perr "autoscrum/internal/platform/errors"
	"autoscrum/internal/platform/store"
	"autoscrum/internal/services/stories/domain"
)

// KV implements domain.ContextSource over the shared KV store.
// It reads the same keys the clarification service writes
type KV struct {
	kv store.KV
}

// NewKV creates a new KV-backed context source
func NewKV(kv store.KV) *KV {
	if kv == nil {
		panic("stories repo requires a non nil KV store")
	}
	return &KV{kv: kv}
}

// Context loads the clarified context for a feature, nil when none exists
func (r *KV) Context(ctx context.Context, featureID string) (*domain.Context, error) {
	b, ok, err := r.kv.Get(ctx, fmt.Sprintf("feature:%s:context", featureID))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "stories context get failed")
	}
	if !ok {
		return nil, nil
	}
	var fc domain.Context
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "stories context decode failed")
	}
	return &fc, nil
}
