package csvio

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"user-flag/domain"
)

// WriteReport writes the aggregates as `user_id,total_messages,avg_score`.
// Callers pass the slice already in deterministic order (see aggregate.Sorted).
// Averages are rounded to 4 decimals in the emitted report only; internal
// sums stay exact.
func WriteReport(path string, aggregates []domain.UserAggregate, log *slog.Logger) error {
	if len(aggregates) == 0 {
		log.Warn("No aggregates to write", "path", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"user_id", "total_messages", "avg_score"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, agg := range aggregates {
		record := []string{
			agg.UserID,
			strconv.Itoa(agg.TotalMessages),
			formatScore(agg.AvgScore),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	log.Info("Report written", "path", path, "users", len(aggregates))
	return nil
}

func formatScore(score float64) string {
	rounded := math.Round(score*1e4) / 1e4
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
