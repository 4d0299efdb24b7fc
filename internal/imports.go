package internal

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"assets-manager/internal/listview"
	"assets-manager/internal/store"
	"assets-manager/pkg/importer"

	"go.uber.org/zap"
)

const (
	maxImportBytes = 20 << 20 // 20 MB
	xlsxType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// importExcel handles Excel uploads. Rows are upserted by serial number.
func (s *Server) importExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		http.Error(w, "content-type must be multipart/form-data", http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	dryRun := r.FormValue("dry_run") == "true"
	maxErrors := 0
	if v := r.FormValue("max_errors"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "max_errors must be a positive integer", http.StatusBadRequest)
			return
		}
		maxErrors = n
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !isXLSX(header) {
		http.Error(w, "only .xlsx files are accepted", http.StatusBadRequest)
		return
	}

	existing, err := s.Store.List(r.Context(), store.Filter{})
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	sum, impErr := importer.ImportExcel(r.Context(), s.Store, file, importer.ImportOptions{
		DryRun:    dryRun,
		MaxErrors: maxErrors,
		Existing:  existing,
	})
	s.Log.Info("excel import",
		zap.String("file", header.Filename),
		zap.Bool("dry_run", dryRun),
		zap.Int("inserted", sum.Inserted),
		zap.Int("updated", sum.Updated),
		zap.Int("errors", sum.Errors),
		zap.String("request_id", RequestIDFromContext(r.Context())),
	)
	if impErr != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "IMPORT_FAILED",
			"details": impErr.Error(),
			"data":    sum,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": sum,
		"meta": map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// exportExcel returns the listing, narrowed by the usual filters, as xlsx.
func (s *Server) exportExcel(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := s.Store.List(r.Context(), filter)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := listview.ExportXLSX(&buf, listview.New(s.Log).Project(records)); err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", `attachment; filename="ativos.xlsx"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.Log.Warn("write export", zap.Error(err))
	}
}

func isXLSX(h *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(h.Filename), ".xlsx")
}
