package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/ryanbbrown/ut-grades-dashboard/internal/config"
)

// tableFiles maps URL-safe table names to their processed file names.
var tableFiles = map[string]string{
	"prefix-summary":     config.PrefixSummaryCSV,
	"course-summary":     config.CourseSummaryCSV,
	"grade-distribution": config.GradeDistributionCSV,
}

// DataHandler serves the processed tables to the dashboard, which loads
// its chart data by URL.
type DataHandler struct {
	logger *slog.Logger
	paths  *config.Paths
}

// NewDataHandler creates a data handler.
func NewDataHandler(logger *slog.Logger, paths *config.Paths) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		logger: logger.With(slog.String("component", "data_handler")),
		paths:  paths,
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/tables", h.ListTables)
	r.Get("/tables/{name}", h.GetTable)
	return r
}

// tableInfo describes one available table.
type tableInfo struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	Available bool   `json:"available"`
}

// ListTables reports which processed tables exist.
func (h *DataHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	infos := make([]tableInfo, 0, len(tableFiles))
	for name, file := range tableFiles {
		_, err := os.Stat(h.paths.GetProcessedPath(file))
		infos = append(infos, tableInfo{Name: name, File: file, Available: err == nil})
	}
	render.JSON(w, r, map[string]interface{}{"tables": infos})
}

// GetTable streams one processed table as CSV.
func (h *DataHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	file, ok := tableFiles[name]
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "unknown table: " + name})
		return
	}

	path := h.paths.GetProcessedPath(file)
	if _, err := os.Stat(path); err != nil {
		h.logger.WarnContext(r.Context(), "requested table not yet generated",
			slog.String("table", name))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "table not yet generated: " + name})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	http.ServeFile(w, r, path)
}
