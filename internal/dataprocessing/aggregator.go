package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
	"github.com/ryanbbrown/ut-grades-dashboard/pkg/contracts/domain"
)

// Aggregator reduces the enriched record set into the three output
// tables. Every reducer follows the same two-pass pattern: one "All"
// slice over the whole dataset, then one slice per distinct semester,
// concatenated in semester order.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// BuildTableSet produces the three aggregate tables. The reducers share
// no mutable state, so they run concurrently. Aggregation never fails on
// empty semester subsets; the only failure mode is missing grouping data,
// which indicates an enricher contract violation upstream.
func (a *Aggregator) BuildTableSet(ctx context.Context, records []domain.EnrichedRecord, semesters []string) (domain.TableSet, error) {
	set := domain.TableSet{
		Semesters:   semesters,
		GeneratedAt: time.Now().UTC(),
	}

	for _, rec := range records {
		if rec.Division == "" || rec.CourseDisplayName == "" {
			return domain.TableSet{}, apperrors.NewSchemaError(
				"enriched record is missing derived grouping fields", nil).
				WithRow(rec.CoursePrefix, rec.Semester, -1)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set.PrefixSummary = a.prefixSummary(gctx, records, semesters)
		return nil
	})
	g.Go(func() error {
		set.CourseSummary = a.courseSummary(gctx, records, semesters)
		return nil
	})
	g.Go(func() error {
		set.GradeDistribution = a.gradeDistribution(gctx, records, semesters)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.TableSet{}, err
	}

	a.logger.InfoContext(ctx, "aggregation complete",
		slog.Int("prefix_rows", len(set.PrefixSummary)),
		slog.Int("course_rows", len(set.CourseSummary)),
		slog.Int("grade_rows", len(set.GradeDistribution)),
		slog.Int("semester_count", len(semesters)))

	return set, nil
}

// groupTotals accumulates the two sums every grade-bearing table needs.
// GPA mass from rows with an undefined GPA is excluded; their student
// count still lands in the total.
type groupTotals struct {
	totalStudents float64
	gpaTotal      float64
}

func (t *groupTotals) add(rec domain.EnrichedRecord) {
	t.totalStudents += rec.StudentCount
	if rec.GPAWeightedSum.Valid {
		t.gpaTotal += rec.GPAWeightedSum.Value
	}
}

// averageGrade derives the rounded average, undefined for an empty group
// so a zero total can never fault.
func (t *groupTotals) averageGrade() domain.OptionalFloat {
	if t.totalStudents == 0 {
		return domain.OptionalFloat{}
	}
	return domain.Float(round4(t.gpaTotal / t.totalStudents))
}

// round4 rounds to 4 decimal places.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// eachSlice runs fn once over all records labeled "All", then once per
// semester over the filtered subset, in semester-list order.
func eachSlice(records []domain.EnrichedRecord, semesters []string, fn func(label string, subset []domain.EnrichedRecord)) {
	fn(domain.SemesterAll, records)
	for _, semester := range semesters {
		var subset []domain.EnrichedRecord
		for _, rec := range records {
			if rec.Semester == semester {
				subset = append(subset, rec)
			}
		}
		fn(semester, subset)
	}
}

// prefixKey groups the prefix summary table.
type prefixKey struct {
	college    string
	prefix     string
	department string
}

func (a *Aggregator) prefixSummary(ctx context.Context, records []domain.EnrichedRecord, semesters []string) []domain.PrefixSummaryRow {
	var rows []domain.PrefixSummaryRow

	eachSlice(records, semesters, func(label string, subset []domain.EnrichedRecord) {
		groups := make(map[prefixKey]*groupTotals)
		for _, rec := range subset {
			key := prefixKey{college: rec.College, prefix: rec.CoursePrefix, department: rec.Department}
			totals, ok := groups[key]
			if !ok {
				totals = &groupTotals{}
				groups[key] = totals
			}
			totals.add(rec)
		}

		keys := make([]prefixKey, 0, len(groups))
		for key := range groups {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := keys[i], keys[j]
			if a.college != b.college {
				return a.college < b.college
			}
			if a.prefix != b.prefix {
				return a.prefix < b.prefix
			}
			return a.department < b.department
		})

		for _, key := range keys {
			totals := groups[key]
			rows = append(rows, domain.PrefixSummaryRow{
				Semester:      label,
				College:       key.college,
				CoursePrefix:  key.prefix,
				Department:    key.department,
				TotalStudents: totals.totalStudents,
				AverageGrade:  totals.averageGrade(),
			})
		}
	})

	return rows
}

// courseKey groups the course summary table.
type courseKey struct {
	college     string
	prefix      string
	number      string
	department  string
	displayName string
	division    domain.Division
}

func (a *Aggregator) courseSummary(ctx context.Context, records []domain.EnrichedRecord, semesters []string) []domain.CourseSummaryRow {
	var rows []domain.CourseSummaryRow

	eachSlice(records, semesters, func(label string, subset []domain.EnrichedRecord) {
		groups := make(map[courseKey]*groupTotals)
		for _, rec := range subset {
			key := courseKey{
				college:     rec.College,
				prefix:      rec.CoursePrefix,
				number:      rec.CourseNumber,
				department:  rec.Department,
				displayName: rec.CourseDisplayName,
				division:    rec.Division,
			}
			totals, ok := groups[key]
			if !ok {
				totals = &groupTotals{}
				groups[key] = totals
			}
			totals.add(rec)
		}

		keys := make([]courseKey, 0, len(groups))
		for key := range groups {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := keys[i], keys[j]
			if a.college != b.college {
				return a.college < b.college
			}
			if a.prefix != b.prefix {
				return a.prefix < b.prefix
			}
			if a.number != b.number {
				return a.number < b.number
			}
			if a.department != b.department {
				return a.department < b.department
			}
			return a.displayName < b.displayName
		})

		for _, key := range keys {
			totals := groups[key]
			rows = append(rows, domain.CourseSummaryRow{
				Semester:      label,
				College:       key.college,
				CoursePrefix:  key.prefix,
				CourseNumber:  key.number,
				Department:    key.department,
				CourseName:    key.displayName,
				Division:      key.division,
				TotalStudents: totals.totalStudents,
				AverageGrade:  totals.averageGrade(),
			})
		}
	})

	return rows
}

// gradeKey groups the grade distribution table. GradePoints rides along
// as part of the key; it is fully determined by the letter grade, with
// the undefined value standing in for the "Other" bucket.
type gradeKey struct {
	college     string
	prefix      string
	number      string
	department  string
	letterGrade string
	gradePoints domain.OptionalFloat
	displayName string
}

func (a *Aggregator) gradeDistribution(ctx context.Context, records []domain.EnrichedRecord, semesters []string) []domain.GradeDistributionRow {
	var rows []domain.GradeDistributionRow

	eachSlice(records, semesters, func(label string, subset []domain.EnrichedRecord) {
		groups := make(map[gradeKey]float64)
		for _, rec := range subset {
			key := gradeKey{
				college:     rec.College,
				prefix:      rec.CoursePrefix,
				number:      rec.CourseNumber,
				department:  rec.Department,
				letterGrade: rec.SimplifiedGrade,
				gradePoints: rec.GPAPoints,
				displayName: rec.CourseDisplayName,
			}
			groups[key] += rec.StudentCount
		}

		keys := make([]gradeKey, 0, len(groups))
		for key := range groups {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := keys[i], keys[j]
			if a.college != b.college {
				return a.college < b.college
			}
			if a.prefix != b.prefix {
				return a.prefix < b.prefix
			}
			if a.number != b.number {
				return a.number < b.number
			}
			if a.department != b.department {
				return a.department < b.department
			}
			return a.letterGrade < b.letterGrade
		})

		for _, key := range keys {
			rows = append(rows, domain.GradeDistributionRow{
				Semester:      label,
				College:       key.college,
				CoursePrefix:  key.prefix,
				CourseNumber:  key.number,
				Department:    key.department,
				LetterGrade:   key.letterGrade,
				GradePoints:   key.gradePoints,
				CourseName:    key.displayName,
				TotalStudents: groups[key],
			})
		}
	})

	return rows
}
