//go:generate go run go.uber.org/mock/mockgen -source=run.go -destination=../mocks/mock_run_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"user-flag/observability"
)

type IRunRepository interface {
	StoreRun(record RunRecord) error
	ListRuns(limit int) ([]RunRecord, error)
}

// RunRecord is the persisted trace of one pipeline execution.
type RunRecord struct {
	ID         uuid.UUID                     `json:"id"`
	StartedAt  time.Time                     `json:"started_at"`
	EndedAt    time.Time                     `json:"ended_at"`
	InputPath  string                        `json:"input_path"`
	OutputPath string                        `json:"output_path"`
	Metrics    observability.PipelineMetrics `json:"metrics"`
}

type RunRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRunRepository(db *badger.DB, log *slog.Logger) RunRepository {
	return RunRepository{db: db, log: log}
}

// StoreRun persists a run record in BadgerDB.
// The key is formatted as "run:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     runs end at the same nanosecond.
func (r RunRepository) StoreRun(record RunRecord) error {
	key := fmt.Sprintf("run:%019d:%s", record.EndedAt.UnixNano(), record.ID)
	value, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// ListRuns returns up to limit run records, most recent first. The padded
// timestamp in the key makes a reverse prefix scan naturally time-ordered.
func (r RunRepository) ListRuns(limit int) ([]RunRecord, error) {
	var records []RunRecord
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("run:")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key, then walk backwards
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) == limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d run records reached", limit))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var record RunRecord
				if err := json.Unmarshal(value, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
