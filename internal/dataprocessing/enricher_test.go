package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
	"github.com/ryanbbrown/ut-grades-dashboard/pkg/contracts/domain"
)

func testPrefixMap() map[string]string {
	return map[string]string{
		"CS":  "Natural Sciences",
		"M":   "Natural Sciences",
		"ARC": "Architecture",
		"UDN": "Architecture",
		"ECE": "Engineering",
	}
}

func newTestEnricher(strict bool) *Enricher {
	return NewEnricher(slog.Default(), DefaultTables(), testPrefixMap(), EnricherConfig{Strict: strict})
}

func rawRow(prefix, number, dept, semester, grade, students string) domain.GradeRecord {
	return domain.GradeRecord{
		CoursePrefix:   prefix,
		CourseNumber:   number,
		Department:     dept,
		Semester:       semester,
		LetterGrade:    grade,
		NumStudents:    students,
		CourseFullName: prefix + " " + number + " COURSE no. 01",
	}
}

func TestEnrich_DerivedFields(t *testing.T) {
	e := newTestEnricher(true)

	rec, err := e.Enrich(rawRow("CS", "314", "Computer Science", "Fall 2021", "A", "1,204"), 0, nil)
	require.NoError(t, err)

	assert.Equal(t, "Natural Sciences", rec.College)
	assert.Equal(t, 1204.0, rec.StudentCount)
	assert.Equal(t, "A", rec.SimplifiedGrade)
	require.True(t, rec.GPAPoints.Valid)
	assert.Equal(t, 4.0, rec.GPAPoints.Value)
	require.True(t, rec.GPAWeightedSum.Valid)
	assert.Equal(t, 4816.0, rec.GPAWeightedSum.Value)
	assert.Equal(t, "Fall", rec.SemesterName)
	assert.Equal(t, 2021, rec.SemesterYear)
	assert.Equal(t, "CS 314", rec.CourseDisplayName)
	assert.Equal(t, "01", rec.SectionNumber)
	// digits of "314" with the leading digit discarded
	assert.Equal(t, 14, rec.CourseNumberInt)
	assert.Equal(t, domain.DivisionLower, rec.Division)
	assert.Equal(t, time.Date(2021, 8, 25, 0, 0, 0, 0, time.UTC), rec.TermDate)
}

func TestEnrich_DivisionBoundaries(t *testing.T) {
	tests := []struct {
		number string
		want   domain.Division
	}{
		{"019", domain.DivisionLower},
		{"020", domain.DivisionUpper},
		{"079", domain.DivisionUpper},
		{"080", domain.DivisionGraduate},
		{"000", domain.DivisionLower},
		{"395T", domain.DivisionGraduate}, // suffix stripped, 95 remains
	}

	e := newTestEnricher(true)
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			rec, err := e.Enrich(rawRow("CS", tt.number, "", "Fall 2021", "A", "10"), 0, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Division)
		})
	}
}

func TestEnrich_OtherGradeHasNoGPA(t *testing.T) {
	e := newTestEnricher(true)

	rec, err := e.Enrich(rawRow("CS", "314", "", "Fall 2021", "Other", "25"), 0, nil)
	require.NoError(t, err)

	assert.False(t, rec.GPAPoints.Valid)
	assert.False(t, rec.GPAWeightedSum.Valid)
	assert.Equal(t, 25.0, rec.StudentCount)
}

func TestEnrich_GradeSimplification(t *testing.T) {
	e := newTestEnricher(true)

	rec, err := e.Enrich(rawRow("CS", "314", "", "Fall 2021", "A+", "10"), 0, nil)
	require.NoError(t, err)

	assert.Equal(t, "A", rec.SimplifiedGrade)
	require.True(t, rec.GPAPoints.Valid)
	assert.Equal(t, 4.0, rec.GPAPoints.Value)
}

func TestEnrich_ParseFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.GradeRecord
	}{
		{
			name: "semester missing the space",
			raw:  rawRow("CS", "314", "", "Summer2019", "A", "10"),
		},
		{
			name: "semester with extra token",
			raw:  rawRow("CS", "314", "", "Fall 2021 Extra", "A", "10"),
		},
		{
			name: "semester year not an integer",
			raw:  rawRow("CS", "314", "", "Fall Year", "A", "10"),
		},
		{
			name: "student count not numeric",
			raw:  rawRow("CS", "314", "", "Fall 2021", "A", "many"),
		},
		{
			name: "course number with no numeric remainder",
			raw:  rawRow("CS", "5", "", "Fall 2021", "A", "10"),
		},
		{
			name: "course number with no digits",
			raw:  rawRow("CS", "XYZ", "", "Fall 2021", "A", "10"),
		},
	}

	e := newTestEnricher(true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Enrich(tt.raw, 7, nil)
			require.Error(t, err)
			assert.True(t, apperrors.IsParse(err))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 7, appErr.Context["row_index"])
			assert.Equal(t, tt.raw.CoursePrefix, appErr.Context["course_prefix"])
		})
	}
}

func TestEnrich_CollegeFallsBackToOther(t *testing.T) {
	e := newTestEnricher(true)
	report := apperrors.NewReport()

	rec, err := e.Enrich(rawRow("ZZZ", "314", "Mystery", "Fall 2021", "A", "10"), 0, report)
	require.NoError(t, err)

	assert.Equal(t, domain.CollegeOther, rec.College)

	var codes []apperrors.WarningCode
	for _, w := range report.Warnings() {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, apperrors.WarnUnknownCollege)
}

// The override table fills in the department for rows that ship without
// one, but the college is still decided from the prefix lookup alone.
// The source data pipeline behaves exactly this way; keep it.
func TestEnrich_DepartmentOverrideDoesNotFeedCollege(t *testing.T) {
	e := newTestEnricher(true)

	rec, err := e.Enrich(rawRow("UDN", "610", "", "Spring 2020", "B", "15"), 0, nil)
	require.NoError(t, err)

	assert.Equal(t, "Urban Design", rec.Department)
	// college comes from the prefix map, not from the overridden department
	assert.Equal(t, "Architecture", rec.College)

	// a non-empty department is never overridden
	rec, err = e.Enrich(rawRow("ECE", "319K", "Something Else", "Spring 2020", "B", "15"), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "Something Else", rec.Department)
}

func TestEnrich_UnknownTermHasZeroDate(t *testing.T) {
	e := newTestEnricher(true)
	report := apperrors.NewReport()

	rec, err := e.Enrich(rawRow("CS", "314", "", "Winter 2021", "A", "10"), 0, report)
	require.NoError(t, err)

	assert.True(t, rec.TermDate.IsZero())

	var codes []apperrors.WarningCode
	for _, w := range report.Warnings() {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, apperrors.WarnUnknownTerm)
}

func TestEnrichAll_StrictAbortsOnBadRow(t *testing.T) {
	e := newTestEnricher(true)

	_, _, err := e.EnrichAll(context.Background(), []domain.GradeRecord{
		rawRow("CS", "314", "", "Fall 2021", "A", "10"),
		rawRow("CS", "314", "", "Summer2019", "A", "10"),
	}, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsParse(err))
}

func TestEnrichAll_LenientSkipsAndReports(t *testing.T) {
	e := newTestEnricher(false)
	report := apperrors.NewReport()

	enriched, semesters, err := e.EnrichAll(context.Background(), []domain.GradeRecord{
		rawRow("CS", "314", "", "Fall 2021", "A", "10"),
		rawRow("CS", "314", "", "Summer2019", "A", "10"),
		rawRow("CS", "314", "", "Spring 2022", "B", "20"),
	}, report)

	require.NoError(t, err)
	assert.Len(t, enriched, 2)
	assert.Equal(t, []string{"Fall 2021", "Spring 2022"}, semesters)

	var codes []apperrors.WarningCode
	for _, w := range report.Warnings() {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, apperrors.WarnSkippedRow)
}

func TestDistinctSemesters_OrderedByTermDate(t *testing.T) {
	e := newTestEnricher(true)

	raws := []domain.GradeRecord{
		rawRow("CS", "314", "", "Fall 2021", "A", "10"),
		rawRow("CS", "314", "", "Spring 2020", "A", "10"),
		rawRow("CS", "314", "", "Summer 2020", "A", "10"),
		rawRow("CS", "314", "", "Fall 2021", "B", "10"), // duplicate semester
		rawRow("CS", "314", "", "Fall 2019", "A", "10"),
	}

	enriched, semesters, err := e.EnrichAll(context.Background(), raws, nil)
	require.NoError(t, err)
	require.Len(t, enriched, 5)

	assert.Equal(t, []string{"Fall 2019", "Spring 2020", "Summer 2020", "Fall 2021"}, semesters)
}
