package csvio

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"user-flag/domain"
)

func readBack(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteReport_RoundsToFourDecimals(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "report.csv")

	aggregates := []domain.UserAggregate{
		{UserID: "u1", TotalMessages: 3, AvgScore: 1.0 / 3.0},
		{UserID: "u2", TotalMessages: 1, AvgScore: 0.5},
		{UserID: "u3", TotalMessages: 2, AvgScore: 0.0},
	}

	req.NoError(WriteReport(path, aggregates, slog.Default()))

	records := readBack(t, path)
	req.Equal([]string{"user_id", "total_messages", "avg_score"}, records[0])
	req.Equal([]string{"u1", "3", "0.3333"}, records[1])
	req.Equal([]string{"u2", "1", "0.5"}, records[2])
	req.Equal([]string{"u3", "2", "0"}, records[3])
}

func TestWriteReport_EmptyAggregates(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "empty.csv")

	req.NoError(WriteReport(path, nil, slog.Default()))

	records := readBack(t, path)
	req.Len(records, 1, "header only")
}

func TestWriteReport_CreatesMissingDirectories(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "nested", "deeper", "report.csv")

	aggregates := []domain.UserAggregate{{UserID: "u1", TotalMessages: 1, AvgScore: 0.25}}
	req.NoError(WriteReport(path, aggregates, slog.Default()))

	records := readBack(t, path)
	req.Len(records, 2)
}
