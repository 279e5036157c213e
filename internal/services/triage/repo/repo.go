// Package repo provides postgres access for the triage action ledger and
// decision log
package repo

import (
	"context"

	"autoscrum/internal/modkit/repokit"
	"autoscrum/internal/platform/store"
)

// ActionRow is one row of the idempotency ledger
type ActionRow struct {
	ActionKey  string
	Person     string
	Story      string
	Diagnosis  string
	Confidence float64
	Payload    []byte
	Response   []byte
}

// DecisionRow is one audit row of a triage run
type DecisionRow struct {
	ID         string
	SprintID   string
	Person     string
	Story      string
	Diagnosis  string
	Confidence float64
	ActionKey  string
	Dispatched bool
	SkipReason string
	CreatedAt  string
}

// Repo defines the repository contract for triage
type Repo interface {
	// InsertAction claims an action key. Returns false when another run
	// already holds it; the database constraint is what makes dispatch
	// exactly-once
	InsertAction(ctx context.Context, row ActionRow) (bool, error)
	ActionExists(ctx context.Context, actionKey string) (bool, error)
	SetActionResponse(ctx context.Context, actionKey string, response []byte) error
	InsertDecision(ctx context.Context, row DecisionRow) error
	RecentDecisions(ctx context.Context, limit int) ([]DecisionRow, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) InsertAction(ctx context.Context, row ActionRow) (bool, error) {
	const sql = `
insert into triage_actions (action_key, person, story, diagnosis, confidence, payload, response)
values ($1, $2, nullif($3, ''), $4, $5, $6, $7)
on conflict (action_key) do nothing
`
	tag, err := r.q.Exec(ctx, sql,
		row.ActionKey,
		row.Person,
		row.Story,
		row.Diagnosis,
		row.Confidence,
		row.Payload,
		row.Response,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *queries) ActionExists(ctx context.Context, actionKey string) (bool, error) {
	const sql = `select exists (select 1 from triage_actions where action_key = $1)`
	var exists bool
	if err := r.q.QueryRow(ctx, sql, actionKey).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *queries) SetActionResponse(ctx context.Context, actionKey string, response []byte) error {
	const sql = `update triage_actions set response = $2 where action_key = $1`
	_, err := r.q.Exec(ctx, sql, actionKey, response)
	return err
}

func (r *queries) InsertDecision(ctx context.Context, row DecisionRow) error {
	const sql = `
insert into triage_decisions (id, sprint_id, person, story, diagnosis, confidence, action_key, dispatched, skip_reason)
values ($1, nullif($2, ''), $3, nullif($4, ''), $5, $6, $7, $8, nullif($9, ''))
`
	_, err := r.q.Exec(ctx, sql,
		row.ID,
		row.SprintID,
		row.Person,
		row.Story,
		row.Diagnosis,
		row.Confidence,
		row.ActionKey,
		row.Dispatched,
		row.SkipReason,
	)
	return err
}

func (r *queries) RecentDecisions(ctx context.Context, limit int) ([]DecisionRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const sql = `
select id::text, coalesce(sprint_id, ''), person, coalesce(story, ''), diagnosis, confidence,
action_key, dispatched, coalesce(skip_reason, ''), created_at::text
from triage_decisions
order by created_at desc
limit $1
`
	return store.Many(ctx, r.q, func(row store.Row) (DecisionRow, error) {
		var d DecisionRow
		err := row.Scan(
			&d.ID,
			&d.SprintID,
			&d.Person,
			&d.Story,
			&d.Diagnosis,
			&d.Confidence,
			&d.ActionKey,
			&d.Dispatched,
			&d.SkipReason,
			&d.CreatedAt,
		)
		return d, err
	}, sql, limit)
}
