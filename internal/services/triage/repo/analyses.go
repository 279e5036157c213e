package repo

import (
	"context"
	"fmt"
	"time"

	"autoscrum/internal/platform/store"
)

// AnalysisTTL keeps a sprint analysis around for a week
const AnalysisTTL = 7 * 24 * time.Hour

// Analyses caches run results per sprint in the KV store
type Analyses struct {
	kv store.KV
}

// NewAnalyses creates the KV-backed analysis cache. kv may be nil, in which
// case all operations are no-ops
func NewAnalyses(kv store.KV) *Analyses { return &Analyses{kv: kv} }

func analysisKey(sprintID string) string {
	return fmt.Sprintf("transcript:%s:analysis", sprintID)
}

// Put stores a sprint analysis snapshot
func (a *Analyses) Put(ctx context.Context, sprintID string, payload []byte) error {
	if a == nil || a.kv == nil || sprintID == "" {
		return nil
	}
	return a.kv.Set(ctx, analysisKey(sprintID), payload, AnalysisTTL)
}

// Get loads the last analysis for a sprint, absent when never run or expired
func (a *Analyses) Get(ctx context.Context, sprintID string) ([]byte, bool, error) {
	if a == nil || a.kv == nil || sprintID == "" {
		return nil, false, nil
	}
	return a.kv.Get(ctx, analysisKey(sprintID))
}
