package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/minjae-im/paperlens"
	"github.com/minjae-im/paperlens/extract"
)

// uploadLimit leaves headroom over the PDF size cap for multipart framing.
const uploadLimit = extract.MaxFileSize + 1<<20

type handler struct {
	engine paperlens.Engine
}

func newHandler(e paperlens.Engine) *handler {
	return &handler{engine: e}
}

// POST /papers
// Multipart upload: field "file" carries the PDF; the stored paper name is
// the uploaded filename.
func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, uploadLimit)
	if err := r.ParseMultipartForm(uploadLimit); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart upload with a 'file' field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		slog.Error("reading upload", "error", err)
		return
	}

	// Sanitise filename to prevent path traversal.
	name := filepath.Base(header.Filename)

	report, err := h.engine.Analyze(ctx, name, data)
	if err != nil {
		if errors.Is(err, paperlens.ErrInvalidPDF) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "analysis failed")
		slog.Error("analyze error", "paper", name, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GET /papers
func (h *handler) handleList(w http.ResponseWriter, r *http.Request) {
	papers, err := h.engine.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list papers")
		slog.Error("list error", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"papers": papers,
	})
}

// GET /papers/{name}
func (h *handler) handleGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	report, err := h.engine.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, paperlens.ErrPaperNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load paper")
		slog.Error("get error", "paper", name, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DELETE /papers/{name}
func (h *handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.engine.Delete(r.Context(), name); err != nil {
		if errors.Is(err, paperlens.ErrPaperNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "delete failed")
		slog.Error("delete error", "paper", name, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /papers/{name}/export?format=csv|xlsx
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var contentType, ext string
	switch format {
	case "csv":
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case "xlsx":
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		writeError(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", name+"_analysis."+ext))

	if err := h.engine.Export(r.Context(), name, format, w); err != nil {
		if errors.Is(err, paperlens.ErrPaperNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		// Headers are already out; log and drop.
		slog.Error("export error", "paper", name, "format", format, "error", err)
	}
}

// POST /compare
func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	var req struct {
		Names []string `json:"names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cmp, err := h.engine.Compare(ctx, req.Names...)
	if err != nil {
		switch {
		case errors.Is(err, paperlens.ErrNotEnoughPapers):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, paperlens.ErrPaperNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "comparison failed")
			slog.Error("compare error", "names", req.Names, "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, cmp)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
