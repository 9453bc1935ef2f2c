package storage

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
)

func TestDownloadRawData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/grades.csv":
			w.Write([]byte("course_prefix,semester\nCS,Fall 2021\n"))
		case "/prefix_to_college.csv":
			w.Write([]byte("COURSE_CODE,COLLEGE\nCS,Natural Sciences\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	rawDir := filepath.Join(t.TempDir(), "raw")
	d := NewDownloader(slog.Default())

	err := d.DownloadRawData(context.Background(), []string{
		server.URL + "/grades.csv",
		server.URL + "/prefix_to_college.csv",
	}, rawDir)
	require.NoError(t, err)

	// files are named by the last URL path segment
	content, err := os.ReadFile(filepath.Join(rawDir, "grades.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "course_prefix")

	_, err = os.Stat(filepath.Join(rawDir, "prefix_to_college.csv"))
	assert.NoError(t, err)
}

func TestDownloadRawData_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	rawDir := filepath.Join(t.TempDir(), "raw")
	d := NewDownloader(slog.Default())

	err := d.DownloadRawData(context.Background(), []string{server.URL + "/grades.csv"}, rawDir)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNetwork))

	// nothing half-written
	_, statErr := os.Stat(filepath.Join(rawDir, "grades.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadRawData_StopsOnFirstFailure(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	d := NewDownloader(slog.Default())
	err := d.DownloadRawData(context.Background(), []string{
		server.URL + "/a.csv",
		server.URL + "/b.csv",
	}, filepath.Join(t.TempDir(), "raw"))

	require.Error(t, err)
	assert.Equal(t, 1, hits)
}

func TestDownloadRawData_UnreachableHost(t *testing.T) {
	d := NewDownloader(slog.Default())
	err := d.DownloadRawData(context.Background(),
		[]string{"http://127.0.0.1:1/grades.csv"},
		filepath.Join(t.TempDir(), "raw"))

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNetwork))
}
