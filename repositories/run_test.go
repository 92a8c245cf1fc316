package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"user-flag/observability"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func makeRecord(endedAt time.Time) RunRecord {
	return RunRecord{
		ID:         uuid.New(),
		StartedAt:  endedAt.Add(-2 * time.Second),
		EndedAt:    endedAt,
		InputPath:  "/data/input.csv",
		OutputPath: "/data/input_output.csv",
		Metrics: observability.PipelineMetrics{
			RowsTotal:     10,
			RowsSucceeded: 9,
			RowsFailed:    1,
			RetriesTotal:  4,
			Users:         3,
			ElapsedMs:     1200,
		},
	}
}

func TestRunRepository_StoreAndList(t *testing.T) {
	req := require.New(t)
	repo := NewRunRepository(openTestDB(t), slog.Default())

	record := makeRecord(time.Now().UTC().Truncate(time.Millisecond))
	req.NoError(repo.StoreRun(record))

	records, err := repo.ListRuns(10)
	req.NoError(err)
	req.Len(records, 1)
	req.Equal(record.ID, records[0].ID)
	req.Equal(record.Metrics, records[0].Metrics)
	req.True(record.EndedAt.Equal(records[0].EndedAt))
}

func TestRunRepository_ListsMostRecentFirst(t *testing.T) {
	req := require.New(t)
	repo := NewRunRepository(openTestDB(t), slog.Default())

	base := time.Now().UTC()
	oldest := makeRecord(base.Add(-2 * time.Hour))
	middle := makeRecord(base.Add(-1 * time.Hour))
	newest := makeRecord(base)

	// Insertion order deliberately scrambled: key ordering must win
	req.NoError(repo.StoreRun(middle))
	req.NoError(repo.StoreRun(newest))
	req.NoError(repo.StoreRun(oldest))

	records, err := repo.ListRuns(10)
	req.NoError(err)
	req.Len(records, 3)
	req.Equal(newest.ID, records[0].ID)
	req.Equal(middle.ID, records[1].ID)
	req.Equal(oldest.ID, records[2].ID)
}

func TestRunRepository_RespectsLimit(t *testing.T) {
	req := require.New(t)
	repo := NewRunRepository(openTestDB(t), slog.Default())

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repo.StoreRun(makeRecord(base.Add(time.Duration(i) * time.Minute))))
	}

	records, err := repo.ListRuns(2)
	req.NoError(err)
	req.Len(records, 2)
}

func TestRunRepository_EmptyHistory(t *testing.T) {
	req := require.New(t)
	repo := NewRunRepository(openTestDB(t), slog.Default())

	records, err := repo.ListRuns(10)
	req.NoError(err)
	req.Empty(records)
}
