// Package http exposes the processed tables over a small chi router so
// the dashboard can load its data by URL. It serves files the pipeline
// already wrote; it performs no transformation of its own.
package http
