// Package dataprocessing implements the core grades transformation
// pipeline: ingesting raw per-section grade rows and producing the three
// derived tables the dashboard consumes.
//
// # Architecture
//
// The package is organized into four components:
//
//  1. Loader: reads the two tabular inputs (CSV or xlsx) and the
//     prefix-to-college mapping
//  2. Enricher: derives every computed field, row by row
//  3. Aggregator: reduces the enriched set into the prefix summary,
//     course summary, and grade distribution tables
//  4. Processor: wires the three together and hands the result to a Sink
//
// # Data Flow
//
//	raw_grades + prefix_to_college → Loader → GradeRecords
//	  → Enricher → EnrichedRecords + ordered semesters
//	  → Aggregator → TableSet → Sink
//
// Enrichment is pure and row-independent: every derivation reads only its
// own row plus immutable lookup tables, so processing order never matters.
// The three reducers share no mutable state and run concurrently.
//
// # Error Handling
//
// A missing input column is a SchemaError and aborts the run before any
// output is written. A row that fails to parse is a ParseError carrying
// the course prefix, semester, and row index; the configured row policy
// decides whether it aborts the run or skips the row. Everything softer
// (duplicate prefixes, unknown grades, prefixes resolving to the Other
// college) lands on the data-quality Report and never halts processing.
package dataprocessing
