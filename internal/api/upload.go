package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/contextia/website/internal/activity"
	"github.com/contextia/website/internal/httputil"
	"github.com/contextia/website/internal/testruns"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleUpload replaces the dashboard data with an uploaded JSON array. The
// file comes in the multipart field "file"; a raw application/json body is
// accepted too.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	uploadID := uuid.New().String()
	log := h.logger.With(zap.String("upload_id", uploadID))

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	raw, status, msg := h.readUpload(r)
	if status != 0 {
		log.Warn("Upload rejected", zap.String("reason", msg))
		httputil.RespondResult(w, status, msg)
		return
	}

	count, err := h.store.Save(raw)
	switch {
	case errors.Is(err, testruns.ErrInvalidJSON):
		httputil.RespondResult(w, http.StatusBadRequest, "Invalid JSON file")
		return
	case errors.Is(err, testruns.ErrNotArray):
		httputil.RespondResult(w, http.StatusBadRequest, "JSON must be an array of test runs")
		return
	case err != nil:
		log.Error("Upload failed", zap.Error(err))
		httputil.RespondResult(w, http.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", err))
		return
	}

	log.Info("Data uploaded", zap.Int("records", count), zap.String("path", h.store.Path()))
	h.record(r, activity.KindUpload, "ok", fmt.Sprintf("%s: %d runs", uploadID, count))

	httputil.RespondJSON(w, http.StatusOK, httputil.Result{
		Success:     true,
		Message:     "Data uploaded successfully",
		RecordCount: &count,
	})
}

// readUpload extracts the uploaded bytes. A non-zero status means rejection.
func (h *Handler) readUpload(r *http.Request) ([]byte, int, string) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, http.StatusBadRequest, uploadReadError(err)
		}
		return raw, 0, ""
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusBadRequest, uploadReadError(err)
		}
		return nil, http.StatusBadRequest, "No file provided"
	}
	defer file.Close()

	if !strings.HasSuffix(header.Filename, ".json") {
		return nil, http.StatusBadRequest, "Only JSON files are allowed"
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusBadRequest, uploadReadError(err)
	}
	return raw, 0, ""
}

func uploadReadError(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("File too large (limit %d bytes)", tooLarge.Limit)
	}
	return "Failed to read upload"
}

// handleGetData returns the stored runs verbatim
func (h *Handler) handleGetData(w http.ResponseWriter, r *http.Request) {
	raw, err := h.store.LoadRaw()
	if err != nil {
		h.logger.Warn("Get data error", zap.Error(err))
		raw = []byte("[]")
	}
	httputil.RespondJSON(w, http.StatusOK, httputil.Result{Success: true, Data: raw})
}

// handleClearData removes the stored runs
func (h *Handler) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		h.logger.Error("Clear data error", zap.Error(err))
		httputil.RespondResult(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.record(r, activity.KindUpload, "cleared", "")
	httputil.RespondResult(w, http.StatusOK, "Data cleared")
}
