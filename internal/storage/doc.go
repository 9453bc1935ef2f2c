// Package storage is the thin transfer plumbing around the pipeline:
// fetching the raw registrar exports from their public URLs and pushing
// the processed tables to an S3-compatible bucket.
package storage
