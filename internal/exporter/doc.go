// Package exporter persists completed table sets. The CSV sink is the
// production destination; it owns all display renaming and guarantees
// that a failed run leaves no partial output behind.
package exporter
