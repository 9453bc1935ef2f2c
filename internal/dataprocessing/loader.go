package dataprocessing

import (
	"context"
	"log/slog"

	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
	"github.com/ryanbbrown/ut-grades-dashboard/pkg/contracts/domain"
)

// Column names of the raw_grades input table.
const (
	colCoursePrefix   = "course_prefix"
	colCourseNumber   = "course_number"
	colDepartment     = "department"
	colSemester       = "semester"
	colLetterGrade    = "letter_grade"
	colNumStudents    = "num_students"
	colCourseFullName = "course_full_name"
)

// Column names of the prefix_to_college input table.
const (
	colPrefixCode = "COURSE_CODE"
	colCollege    = "COLLEGE"
)

// LoadGradeRecords converts the raw grades table into GradeRecords.
// It fails with a SchemaError when required columns are missing; field
// values are carried through untouched, parsing belongs to the enricher.
func LoadGradeRecords(ctx context.Context, logger *slog.Logger, table *Table) ([]domain.GradeRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	err := table.RequireColumns("raw_grades",
		colCoursePrefix, colCourseNumber, colDepartment, colSemester,
		colLetterGrade, colNumStudents, colCourseFullName)
	if err != nil {
		return nil, err
	}

	records := make([]domain.GradeRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, domain.GradeRecord{
			CoursePrefix:   table.Cell(row, colCoursePrefix),
			CourseNumber:   table.Cell(row, colCourseNumber),
			Department:     table.Cell(row, colDepartment),
			Semester:       table.Cell(row, colSemester),
			LetterGrade:    table.Cell(row, colLetterGrade),
			NumStudents:    table.Cell(row, colNumStudents),
			CourseFullName: table.Cell(row, colCourseFullName),
		})
	}

	logger.InfoContext(ctx, "loaded raw grade rows",
		slog.Int("row_count", len(records)))

	return records, nil
}

// LoadPrefixCollegeMap converts the prefix-to-college table into a map.
// Duplicate prefixes are last-write-wins and flagged as a data-quality
// concern on the report.
func LoadPrefixCollegeMap(ctx context.Context, logger *slog.Logger, table *Table, report *apperrors.Report) (map[string]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := table.RequireColumns("prefix_to_college", colPrefixCode, colCollege); err != nil {
		return nil, err
	}

	mapping := make(map[string]string, len(table.Rows))
	for i, row := range table.Rows {
		prefix := table.Cell(row, colPrefixCode)
		college := table.Cell(row, colCollege)
		if prefix == "" {
			continue
		}
		if _, dup := mapping[prefix]; dup && report != nil {
			report.Add(apperrors.WarnDuplicatePrefix,
				"duplicate course prefix in prefix_to_college, keeping the later row",
				map[string]interface{}{"course_prefix": prefix, "row_index": i})
		}
		mapping[prefix] = college
	}

	logger.InfoContext(ctx, "loaded prefix to college mapping",
		slog.Int("prefix_count", len(mapping)))

	return mapping, nil
}

// CollegeSet derives the known-college set from the mapping's values.
// A looked-up college outside this set (or a prefix with no mapping at
// all) normalizes to the "Other" sentinel.
func CollegeSet(prefixToCollege map[string]string) map[string]struct{} {
	set := make(map[string]struct{}, len(prefixToCollege))
	for _, college := range prefixToCollege {
		set[college] = struct{}{}
	}
	return set
}
