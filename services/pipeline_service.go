//go:generate go run go.uber.org/mock/mockgen -source=pipeline_service.go -destination=../mocks/mock_pipeline_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"user-flag/aggregate"
	"user-flag/csvio"
	"user-flag/domain"
	"user-flag/enrichment"
	"user-flag/moderation"
	"user-flag/observability"
	"user-flag/pipeline"
	"user-flag/repositories"
)

type IPipelineService interface {
	Execute(ctx context.Context, inputPath string) (RunSummary, error)
}

// RunSummary is what one end-to-end execution hands back to the caller.
type RunSummary struct {
	Record     repositories.RunRecord
	Aggregates []domain.UserAggregate
}

// PipelineService wires the boundary collaborators around the enrichment
// core: CSV in, moderation, concurrent enrichment, CSV out, run history.
type PipelineService struct {
	log       *slog.Logger
	client    enrichment.Client
	moderator moderation.Moderator
	metrics   *observability.Recorder
	runs      repositories.IRunRepository
	cfg       pipeline.Config
	outputDir string
}

func NewPipelineService(
	log *slog.Logger,
	client enrichment.Client,
	moderator moderation.Moderator,
	metrics *observability.Recorder,
	runs repositories.IRunRepository,
	cfg pipeline.Config,
	outputDir string,
) *PipelineService {
	return &PipelineService{
		log:       log,
		client:    client,
		moderator: moderator,
		metrics:   metrics,
		runs:      runs,
		cfg:       cfg,
		outputDir: outputDir,
	}
}

// Execute runs the full pipeline for one input file and returns the stored
// run record. The caller blocks until the batch is drained; cancellation of
// ctx stops in-flight rows and yields a partial report.
func (s *PipelineService) Execute(ctx context.Context, inputPath string) (RunSummary, error) {
	startedAt := time.Now().UTC()

	rows, err := csvio.ReadRows(inputPath, s.log)
	if err != nil {
		return RunSummary{}, fmt.Errorf("reading %s: %w", inputPath, err)
	}
	s.log.Info("Input parsed", "path", inputPath, "rows", len(rows))

	// Censoring happens before any text leaves the process.
	censored := make([]domain.Row, len(rows))
	for i, row := range rows {
		clean, _ := s.moderator.Censor(row.Message)
		censored[i] = domain.Row{UserID: row.UserID, Message: clean}
	}

	result, err := pipeline.Run(ctx, censored, s.cfg, s.client, s.metrics, s.log)
	if err != nil {
		return RunSummary{}, err
	}

	aggregates := aggregate.Sorted(result.Aggregates)
	outputPath := s.outputPath(inputPath)
	if err := csvio.WriteReport(outputPath, aggregates, s.log); err != nil {
		return RunSummary{}, err
	}

	record := repositories.RunRecord{
		ID:         uuid.New(),
		StartedAt:  startedAt,
		EndedAt:    time.Now().UTC(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Metrics:    result.Metrics,
	}
	if err := s.runs.StoreRun(record); err != nil {
		// The report is already on disk; losing history is worth a warning,
		// not a failed run.
		s.log.Warn("Failed to store run record", "error", err)
	}

	return RunSummary{Record: record, Aggregates: aggregates}, nil
}

// outputPath derives "abc.csv" -> "abc_output.csv" inside the configured
// output directory (or next to the input when none is configured).
func (s *PipelineService) outputPath(inputPath string) string {
	name := filepath.Base(inputPath)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	dir := s.outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, stem+"_output"+ext)
}
