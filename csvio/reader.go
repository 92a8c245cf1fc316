// Package csvio is the tabular boundary of the pipeline: it streams input
// rows in and writes the aggregated report out. Structurally broken rows are
// filtered here, before the core ever sees them.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"user-flag/domain"
	"user-flag/errors"
)

// ReadRows parses a UTF-8 CSV file with a `user_id,message` header into the
// ordered batch the scheduler consumes. A BOM is tolerated, header names are
// trimmed, and rows with an empty user_id or message are logged and skipped
// (they are boundary noise, not pipeline failures).
func ReadRows(path string, log *slog.Logger) ([]domain.Row, error) {
	if err := ensureTextFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	userIdx, messageIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case "user_id":
			userIdx = i
		case "message":
			messageIdx = i
		}
	}
	if userIdx == -1 || messageIdx == -1 {
		return nil, errors.ErrMissingColumns
	}

	var rows []domain.Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Error("Failed to parse row", "line", line, "error", err)
			continue
		}
		if userIdx >= len(record) || messageIdx >= len(record) {
			log.Warn("Row has too few fields", "line", line)
			continue
		}
		userID := strings.TrimSpace(record[userIdx])
		message := strings.TrimSpace(record[messageIdx])
		if userID == "" || message == "" {
			log.Warn("Empty user_id or message", "line", line)
			continue
		}
		rows = append(rows, domain.Row{UserID: userID, Message: message})
	}
	return rows, nil
}

// ensureTextFile sniffs the file's magic bytes so a binary dropped into the
// input directory fails fast instead of producing garbage rows.
func ensureTextFile(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("sniff input: %w", err)
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") || m.Is("text/csv") {
			return nil
		}
	}
	return fmt.Errorf("%w: detected %s", errors.ErrNotTextFile, mtype.String())
}
