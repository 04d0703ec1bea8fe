package store

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rshade/spongekit/internal/cost"
	"github.com/rshade/spongekit/internal/hydro"
	"github.com/rshade/spongekit/internal/rainfall"
	"github.com/rshade/spongekit/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB records Exec calls and serves the last saved row to QueryRow.
type fakeDB struct {
	execSQL []string
	saved   map[string][]any
	execErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{saved: make(map[string][]any)}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if strings.Contains(sql, "INSERT INTO scenario_runs") {
		f.saved[args[0].(string)] = args
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	values, ok := f.saved[args[0].(string)]
	return fakeRow{values: values, found: ok}
}

type fakeRow struct {
	values []any
	found  bool
}

func (r fakeRow) Scan(dest ...any) error {
	if !r.found {
		return pgx.ErrNoRows
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func sampleRun() *Run {
	return &Run{
		Place:     "Amsterdam, Netherlands",
		Hydrology: hydro.DefaultParams(),
		Cost:      cost.DefaultParams(),
		Table: &scenario.Table{
			RunID:       "run-1",
			CreatedAt:   time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
			Mode:        rainfall.ModeDepth,
			DepthMM:     50,
			TotalAreaM2: 170,
			BaselineM3:  7.65,
			RoofCount:   3,
			Rows: []scenario.Row{
				{CoverageFraction: 0.5, GreenAreaM2: 100, RetainedM3: 3.75, CostPerM3: scenario.Finite(5568.04)},
				{CoverageFraction: 0, CostPerM3: scenario.NotMeaningful()},
			},
		},
	}
}

// TestRunRepo_SaveLoad verifies a run survives a save and load through
// the JSONB encoding.
func TestRunRepo_SaveLoad(t *testing.T) {
	db := newFakeDB()
	repo := &RunRepo{db: db}
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	assert.Contains(t, db.execSQL[0], "CREATE TABLE IF NOT EXISTS scenario_runs")

	want := sampleRun()
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want.Place, got.Place)
	assert.Equal(t, want.Hydrology, got.Hydrology)
	assert.Equal(t, want.Cost, got.Cost)
	assert.Equal(t, want.Table.Mode, got.Table.Mode)
	assert.Equal(t, want.Table.CreatedAt, got.Table.CreatedAt)
	require.Len(t, got.Table.Rows, 2)
	assert.Equal(t, want.Table.Rows[0].CostPerM3, got.Table.Rows[0].CostPerM3)
	assert.False(t, got.Table.Rows[1].CostPerM3.IsMeaningful())
}

// TestRunRepo_LoadMissing verifies unknown IDs map to ErrNotFound.
func TestRunRepo_LoadMissing(t *testing.T) {
	repo := &RunRepo{db: newFakeDB()}
	_, err := repo.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestRunRepo_NoPool verifies a repository without a pool fails cleanly.
func TestRunRepo_NoPool(t *testing.T) {
	repo := NewRunRepo(nil)
	ctx := context.Background()

	assert.Error(t, repo.EnsureSchema(ctx))
	assert.Error(t, repo.Save(ctx, sampleRun()))
	_, err := repo.Load(ctx, "run-1")
	assert.Error(t, err)
}

// TestRunRepo_SaveErrors verifies invalid runs and driver errors.
func TestRunRepo_SaveErrors(t *testing.T) {
	db := newFakeDB()
	repo := &RunRepo{db: db}
	ctx := context.Background()

	assert.Error(t, repo.Save(ctx, nil))
	assert.Error(t, repo.Save(ctx, &Run{}))
	assert.Error(t, repo.Save(ctx, &Run{Table: &scenario.Table{}}))
	assert.Empty(t, db.execSQL)

	db.execErr = errors.New("connection reset")
	err := repo.Save(ctx, sampleRun())
	assert.ErrorContains(t, err, "connection reset")
}

// TestEncodeRun verifies empty rows encode as an empty array and a zero
// timestamp is filled in.
func TestEncodeRun(t *testing.T) {
	run := sampleRun()
	run.Table.Rows = nil
	run.Table.CreatedAt = time.Time{}

	args, err := encodeRun(run)
	require.NoError(t, err)
	require.Len(t, args, 11)
	assert.Equal(t, "[]", string(args[10].([]byte)))
	assert.False(t, args[1].(time.Time).IsZero())
	assert.Equal(t, "depth", args[3])
}

// TestInitDB_NoURL verifies a missing URL is reported.
func TestInitDB_NoURL(t *testing.T) {
	err := InitDB(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDatabase)
	assert.Nil(t, GetPool())
	Close()
}
