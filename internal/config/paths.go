package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for all file locations the pipeline
// reads and writes. The layout mirrors the data directory the dashboard
// expects:
//
//	data/
//	  ├── raw/        (downloaded registrar exports)
//	  └── processed/  (the three derived tables)
//	logs/
type Paths struct {
	DataDir      string
	RawDir       string
	ProcessedDir string
	LogsDir      string
}

// Well-known processed file names, one per output table.
const (
	PrefixSummaryCSV     = "prefix_scatter_df.csv"
	CourseSummaryCSV     = "course_scatter_df.csv"
	GradeDistributionCSV = "bar_df.csv"
)

// NewPaths builds the path set from the configured directories.
// Relative directories are resolved against the working directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	logsDir, err := filepath.Abs(cfg.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir: %w", err)
	}

	return &Paths{
		DataDir:      dataDir,
		RawDir:       filepath.Join(dataDir, "raw"),
		ProcessedDir: filepath.Join(dataDir, "processed"),
		LogsDir:      logsDir,
	}, nil
}

// EnsureDirectories creates every directory the pipeline needs.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.RawDir, p.ProcessedDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetRawPath returns the full path of a file in the raw data directory.
func (p *Paths) GetRawPath(name string) string {
	return filepath.Join(p.RawDir, name)
}

// GetProcessedPath returns the full path of a file in the processed
// data directory.
func (p *Paths) GetProcessedPath(name string) string {
	return filepath.Join(p.ProcessedDir, name)
}

// GetLogPath returns the full path of a file in the logs directory.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}
