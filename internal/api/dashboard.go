package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/contextia/website/internal/httputil"
	"github.com/contextia/website/internal/testruns"
	"go.uber.org/zap"
)

const (
	defaultQueriesPerDay = 100
	defaultTableLimit    = 50
	defaultActivityLimit = 100
)

func (h *Handler) loadRuns(w http.ResponseWriter) ([]testruns.TestRun, bool) {
	runs, err := h.store.Load()
	if err != nil {
		h.logger.Error("Failed to load test runs", zap.Error(err))
		httputil.RespondResult(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return runs, true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}

// handleSummary returns the headline figures and ROI projections
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	queries, err := queryInt(r, "queries_per_day", defaultQueriesPerDay)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	runs, ok := h.loadRuns(w)
	if !ok {
		return
	}

	summary := testruns.Summarize(runs)
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"summary":         summary,
		"queries_per_day": queries,
		"roi":             testruns.PresetROIs(summary, queries),
	})
}

// handleCharts returns every chart dataset
func (h *Handler) handleCharts(w http.ResponseWriter, r *http.Request) {
	runs, ok := h.loadRuns(w)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, testruns.Charts(runs))
}

// handleResults returns the filtered, sorted results table
func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := queryInt(r, "limit", defaultTableLimit)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sortCol := q.Get("sort")
	if sortCol != "" && !testruns.IsSortColumn(sortCol) {
		httputil.RespondError(w, http.StatusBadRequest, "unknown sort column: "+sortCol)
		return
	}

	dir := q.Get("dir")
	if dir != "" && dir != "asc" && dir != "desc" {
		httputil.RespondError(w, http.StatusBadRequest, "dir must be asc or desc")
		return
	}

	runs, ok := h.loadRuns(w)
	if !ok {
		return
	}

	httputil.RespondJSON(w, http.StatusOK, testruns.Rows(runs, testruns.Filter{
		Category: q.Get("category"),
		Sort:     sortCol,
		Desc:     dir != "asc",
		Limit:    limit,
	}))
}

// handleExport streams the results as a CSV attachment
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	runs, ok := h.loadRuns(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := testruns.WriteCSV(&buf, runs); err != nil {
		h.logger.Error("CSV export failed", zap.Error(err))
		httputil.RespondResult(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, testruns.ExportFilename(h.now())))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("Failed to write CSV export", zap.Error(err))
	}
}

// handleActivity lists recent audit events; limit=0 means the default
func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultActivityLimit)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit == 0 {
		limit = defaultActivityLimit
	}

	events, err := h.activity.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list activity", zap.Error(err))
		httputil.RespondResult(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, events)
}
