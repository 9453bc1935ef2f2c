package dataprocessing

import (
	"context"
	"log/slog"

	"github.com/ryanbbrown/ut-grades-dashboard/internal/config"
	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
	"github.com/ryanbbrown/ut-grades-dashboard/pkg/contracts/domain"
)

// Sink is the abstract destination for a completed table set. The
// processor hands over all three tables at once; a sink must never
// persist a partial set.
type Sink interface {
	WriteTables(ctx context.Context, set domain.TableSet) error
}

// Processor runs the complete preparation pipeline:
// load → enrich → aggregate → sink.
type Processor struct {
	logger *slog.Logger
	paths  *config.Paths
	cfg    config.PipelineConfig
	tables Tables
	sink   Sink
}

// NewProcessor creates a processor writing to the given sink.
func NewProcessor(logger *slog.Logger, paths *config.Paths, cfg config.PipelineConfig, sink Sink) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger: logger,
		paths:  paths,
		cfg:    cfg,
		tables: DefaultTables(),
		sink:   sink,
	}
}

// Run executes one pipeline run over the configured raw input files and
// returns the data-quality report. Any returned error means no output
// was produced; partial output is never valid.
func (p *Processor) Run(ctx context.Context) (*apperrors.Report, error) {
	report := apperrors.NewReport()

	set, err := p.Prepare(ctx, report)
	if err != nil {
		return report, err
	}

	if err := p.sink.WriteTables(ctx, set); err != nil {
		return report, err
	}

	p.logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("semester_count", len(set.Semesters)),
		slog.Int("warning_count", report.Len()))

	return report, nil
}

// Prepare loads and transforms the raw inputs into the table set without
// writing anything.
func (p *Processor) Prepare(ctx context.Context, report *apperrors.Report) (domain.TableSet, error) {
	gradesTable, err := ReadTable(p.paths.GetRawPath(p.cfg.RawGradesFile))
	if err != nil {
		return domain.TableSet{}, err
	}
	collegeTable, err := ReadTable(p.paths.GetRawPath(p.cfg.PrefixCollegeFile))
	if err != nil {
		return domain.TableSet{}, err
	}

	raws, err := LoadGradeRecords(ctx, p.logger, gradesTable)
	if err != nil {
		return domain.TableSet{}, err
	}
	prefixToCollege, err := LoadPrefixCollegeMap(ctx, p.logger, collegeTable, report)
	if err != nil {
		return domain.TableSet{}, err
	}

	enricher := NewEnricher(p.logger, p.tables, prefixToCollege, EnricherConfig{Strict: p.cfg.StrictParsing})
	enriched, semesters, err := enricher.EnrichAll(ctx, raws, report)
	if err != nil {
		return domain.TableSet{}, err
	}

	return NewAggregator(p.logger).BuildTableSet(ctx, enriched, semesters)
}
