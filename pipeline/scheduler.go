package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"user-flag/domain"
	"user-flag/errors"
)

// Scheduler runs the row processor over a batch with a bounded number of
// rows in flight. Workers pull indices from a shared queue and write each
// outcome into a pre-sized slot, so completion order never leaks into the
// returned sequence.
type Scheduler struct {
	processor *RowProcessor
	limit     int
	log       *slog.Logger
}

func NewScheduler(processor *RowProcessor, limit int, log *slog.Logger) *Scheduler {
	return &Scheduler{processor: processor, limit: limit, log: log}
}

// RunAll processes every row and returns outcomes in input order. A row's
// failure is recorded in its slot and processing continues; the only fatal
// error is an invalid concurrency limit, detected before any row is
// scheduled. On cancellation the unfinished slots are filled with
// Failure{Cancelled} and the partial ordered sequence is returned.
func (s *Scheduler) RunAll(ctx context.Context, rows []domain.Row) ([]domain.RowOutcome, error) {
	if s.limit < 1 {
		return nil, errors.ErrInvalidConcurrency
	}

	outcomes := make([]domain.RowOutcome, len(rows))
	completed := make([]bool, len(rows))
	jobs := make(chan int)

	workers := s.limit
	if len(rows) < workers {
		workers = len(rows)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					outcomes[i] = s.processor.Process(ctx, rows[i])
					completed[i] = true
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range rows {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	for i := range rows {
		if !completed[i] {
			outcomes[i] = domain.Failure(rows[i].UserID, domain.ReasonCancelled, 0)
		}
	}
	if err := ctx.Err(); err != nil {
		s.log.Warn("Batch interrupted before completion", "rows", len(rows), "error", err)
	}
	return outcomes, nil
}
