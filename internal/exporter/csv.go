package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ryanbbrown/ut-grades-dashboard/internal/config"
	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
	"github.com/ryanbbrown/ut-grades-dashboard/pkg/contracts/domain"
)

// CSVSink persists a TableSet as the three processed CSV files the
// dashboard loads. Column names are renamed for display here; the
// aggregator's output stays storage-agnostic.
type CSVSink struct {
	logger *slog.Logger
	paths  *config.Paths

	// bom prepends a UTF-8 byte order mark so Excel opens the files
	// correctly.
	bom bool
}

// NewCSVSink creates a CSV sink writing into the processed directory.
func NewCSVSink(logger *slog.Logger, paths *config.Paths) *CSVSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSink{logger: logger, paths: paths, bom: true}
}

// Display headers per table, matching the aggregation keys.
var (
	prefixHeaders = []string{"College", "Course Prefix", "Department", "Total Students", "Average Grade", "semester"}
	courseHeaders = []string{"College", "Course Prefix", "Course Number", "Department", "Course Name", "Division", "Total Students", "Average Grade", "semester"}
	gradeHeaders  = []string{"College", "Course Prefix", "Course Number", "Department", "Letter Grade", "Grade Points", "Course Name", "Total Students", "semester"}
)

// WriteTables writes all three tables. Each file is written to a temp
// path and renamed into place only after every table succeeded, so a
// failed run never leaves a partial, internally inconsistent set behind.
func (s *CSVSink) WriteTables(ctx context.Context, set domain.TableSet) error {
	if err := os.MkdirAll(s.paths.ProcessedDir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create processed directory", err)
	}

	files := []struct {
		name    string
		final   string
		headers []string
		records [][]string
	}{
		{domain.TablePrefixSummary, s.paths.GetProcessedPath(config.PrefixSummaryCSV), prefixHeaders, prefixRecords(set.PrefixSummary)},
		{domain.TableCourseSummary, s.paths.GetProcessedPath(config.CourseSummaryCSV), courseHeaders, courseRecords(set.CourseSummary)},
		{domain.TableGradeDistribution, s.paths.GetProcessedPath(config.GradeDistributionCSV), gradeHeaders, gradeRecords(set.GradeDistribution)},
	}

	tempPaths := make([]string, 0, len(files))
	cleanup := func() {
		for _, p := range tempPaths {
			os.Remove(p)
		}
	}

	for _, f := range files {
		temp := f.final + ".tmp"
		if err := s.writeFile(ctx, temp, f.headers, f.records); err != nil {
			cleanup()
			return err
		}
		tempPaths = append(tempPaths, temp)

		s.logger.InfoContext(ctx, "wrote table",
			slog.String("table", f.name),
			slog.Int("row_count", len(f.records)))
	}

	for i, f := range files {
		if err := os.Rename(tempPaths[i], f.final); err != nil {
			cleanup()
			return apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", f.final), err)
		}
	}

	return nil
}

// writeFile writes one CSV file with an optional BOM.
func (s *CSVSink) writeFile(ctx context.Context, path string, headers []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	if s.bom {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return apperrors.NewStorageError("failed to write header row", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("failed to write data row", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to flush %s", filepath.Base(path)), err)
	}
	return nil
}

func prefixRecords(rows []domain.PrefixSummaryRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.College, r.CoursePrefix, r.Department,
			formatFloat(r.TotalStudents), formatOptional(r.AverageGrade), r.Semester,
		})
	}
	return out
}

func courseRecords(rows []domain.CourseSummaryRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.College, r.CoursePrefix, r.CourseNumber, r.Department, r.CourseName,
			string(r.Division), formatFloat(r.TotalStudents), formatOptional(r.AverageGrade), r.Semester,
		})
	}
	return out
}

func gradeRecords(rows []domain.GradeDistributionRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.College, r.CoursePrefix, r.CourseNumber, r.Department, r.LetterGrade,
			formatOptional(r.GradePoints), r.CourseName, formatFloat(r.TotalStudents), r.Semester,
		})
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional renders an undefined value as an empty cell.
func formatOptional(v domain.OptionalFloat) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.Value)
}
