package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rshade/spongekit/internal/cost"
	"github.com/rshade/spongekit/internal/hydro"
	"github.com/rshade/spongekit/internal/rainfall"
	"github.com/rshade/spongekit/internal/scenario"
)

// ErrNotFound is returned by Load when no run has the requested ID.
var ErrNotFound = errors.New("scenario run not found")

var errNoPool = errors.New("database pool not configured")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scenario_runs (
	run_id        TEXT PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL,
	place         TEXT NOT NULL DEFAULT '',
	mode          TEXT NOT NULL,
	depth_mm      DOUBLE PRECISION NOT NULL,
	total_area_m2 DOUBLE PRECISION NOT NULL,
	baseline_m3   DOUBLE PRECISION NOT NULL,
	roof_count    INTEGER NOT NULL,
	hydrology     JSONB NOT NULL,
	cost          JSONB NOT NULL,
	rows          JSONB NOT NULL
)`

const insertSQL = `
INSERT INTO scenario_runs (
	run_id, created_at, place, mode, depth_mm, total_area_m2,
	baseline_m3, roof_count, hydrology, cost, rows
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (run_id) DO UPDATE SET
	place = EXCLUDED.place,
	hydrology = EXCLUDED.hydrology,
	cost = EXCLUDED.cost,
	rows = EXCLUDED.rows`

const selectSQL = `
SELECT run_id, created_at, place, mode, depth_mm, total_area_m2,
	baseline_m3, roof_count, hydrology, cost, rows
FROM scenario_runs WHERE run_id = $1`

// Run is a stored scenario table together with the assumptions behind it.
type Run struct {
	Place     string
	Hydrology hydro.Params
	Cost      cost.Params
	Table     *scenario.Table
}

// querier is the subset of *pgxpool.Pool used by RunRepo.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RunRepo stores scenario runs.
type RunRepo struct {
	db querier
}

// NewRunRepo creates a repository on the given pool. A nil pool yields a
// repository whose calls all fail.
func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	if pool == nil {
		return &RunRepo{}
	}
	return &RunRepo{db: pool}
}

// EnsureSchema creates the scenario_runs table if it does not exist.
func (r *RunRepo) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return errNoPool
	}
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save upserts a run keyed by its table's run ID.
func (r *RunRepo) Save(ctx context.Context, run *Run) error {
	if r.db == nil {
		return errNoPool
	}
	args, err := encodeRun(run)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.Table.RunID, err)
	}
	return nil
}

// Load fetches a run by ID.
func (r *RunRepo) Load(ctx context.Context, runID string) (*Run, error) {
	if r.db == nil {
		return nil, errNoPool
	}

	run := &Run{Table: &scenario.Table{}}
	var (
		mode                          string
		hydroJSON, costJSON, rowsJSON []byte
	)
	err := r.db.QueryRow(ctx, selectSQL, runID).Scan(
		&run.Table.RunID, &run.Table.CreatedAt, &run.Place, &mode,
		&run.Table.DepthMM, &run.Table.TotalAreaM2, &run.Table.BaselineM3,
		&run.Table.RoofCount, &hydroJSON, &costJSON, &rowsJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	run.Table.Mode = rainfall.Mode(mode)
	if err := decodeJSONB(hydroJSON, costJSON, rowsJSON, run); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return run, nil
}

func encodeRun(run *Run) ([]any, error) {
	if run == nil || run.Table == nil {
		return nil, errors.New("run has no table")
	}
	t := run.Table
	if t.RunID == "" {
		return nil, errors.New("run has no ID")
	}

	hydroJSON, err := json.Marshal(run.Hydrology)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hydrology params: %w", err)
	}
	costJSON, err := json.Marshal(run.Cost)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cost params: %w", err)
	}
	rows := t.Rows
	if rows == nil {
		rows = []scenario.Row{}
	}
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rows: %w", err)
	}

	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	return []any{
		t.RunID, created, run.Place, string(t.Mode), t.DepthMM, t.TotalAreaM2,
		t.BaselineM3, t.RoofCount, hydroJSON, costJSON, rowsJSON,
	}, nil
}

func decodeJSONB(hydroJSON, costJSON, rowsJSON []byte, run *Run) error {
	if err := json.Unmarshal(hydroJSON, &run.Hydrology); err != nil {
		return fmt.Errorf("failed to decode hydrology params: %w", err)
	}
	if err := json.Unmarshal(costJSON, &run.Cost); err != nil {
		return fmt.Errorf("failed to decode cost params: %w", err)
	}
	if err := json.Unmarshal(rowsJSON, &run.Table.Rows); err != nil {
		return fmt.Errorf("failed to decode rows: %w", err)
	}
	return nil
}
