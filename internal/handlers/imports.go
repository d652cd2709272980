package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/frotaops-platform/api/internal/httpx"
	"github.com/frotaops-platform/api/internal/legacyimport"
	"github.com/frotaops-platform/api/internal/middleware"
)

// importFormFields maps multipart field names to feed kinds, in the order
// the importer consumes them. Every field is optional; an import run with
// only a subset of feeds is normal.
var importFormFields = []struct {
	Field string
	Kind  legacyimport.Kind
}{
	{"cars", legacyimport.KindCars},
	{"maintenance", legacyimport.KindMaintenance},
	{"services", legacyimport.KindServices},
	{"income", legacyimport.KindIncome},
	{"car_expenses", legacyimport.KindCarExpenses},
	{"drivers", legacyimport.KindDrivers},
	{"addresses", legacyimport.KindAddresses},
	{"driver_cars", legacyimport.KindDriverCars},
	{"pendencies", legacyimport.KindPendencies},
}

// PostImports accepts a multipart upload of legacy CSV exports, runs the
// import synchronously, and returns the consolidated report. The run itself
// is recorded in importRuns so it stays inspectable after the response.
func (s *Server) PostImports(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		httpx.WriteError(w, r, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected multipart/form-data", nil)
		return
	}

	if err := r.ParseMultipartForm(s.Config.ImportMaxFileBytes); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_multipart", "could not parse multipart form", nil)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	var files []legacyimport.File
	var filenames []string
	for _, ff := range importFormFields {
		headers := r.MultipartForm.File[ff.Field]
		for _, fh := range headers {
			if fh.Size > s.Config.ImportMaxFileBytes {
				httpx.WriteError(w, r, http.StatusRequestEntityTooLarge, "file_too_large", "uploaded file "+fh.Filename+" exceeds the size limit", nil)
				return
			}
			data, err := readMultipartFile(fh)
			if err != nil {
				httpx.WriteError(w, r, http.StatusBadRequest, "invalid_upload", "could not read uploaded file "+fh.Filename, nil)
				return
			}
			files = append(files, legacyimport.File{Kind: ff.Kind, Name: fh.Filename, Data: data})
			filenames = append(filenames, fh.Filename)
		}
	}

	if len(files) == 0 {
		httpx.WriteError(w, r, http.StatusBadRequest, "no_files", "no recognized import files in the upload", nil)
		return
	}

	ctx := r.Context()
	requestID := middleware.RequestIDFromContext(ctx)

	runID, err := s.Audit.StartRun(ctx, filenames, requestID)
	if err != nil {
		s.Logger.Error("import_run_start_failed", "error", err, "request_id", requestID)
		httpx.WriteInternal(w, r, "could not record the import run")
		return
	}

	importer := legacyimport.New(s.Store, s.Config.BasePath, s.Config.CompanyID, s.Logger)
	importer.MaxRows = s.Config.ImportMaxRows
	report := importer.Run(ctx, files)

	status := "completed"
	if len(report.Errors) > 0 {
		status = "completed_with_errors"
	}
	if err := s.Audit.CompleteRun(ctx, runID, status, report); err != nil {
		s.Logger.Error("import_run_complete_failed", "error", err, "run_id", runID, "request_id", requestID)
	}

	s.Logger.Info("import_run_finished",
		"run_id", runID,
		"status", status,
		"files", len(files),
		"summary", report.Summary(),
	)

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"importRunId": runID,
		"status":      status,
		"report":      report,
		"requestId":   requestID,
	})
}

// GetImportRun returns one recorded import run by id.
func (s *Server) GetImportRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "importRunId")
	if runID == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", "importRunId is required", nil)
		return
	}

	fields, err := s.Audit.FindRun(r.Context(), runID)
	if err != nil {
		s.Logger.Error("import_run_lookup_failed", "error", err, "run_id", runID)
		httpx.WriteInternal(w, r, "could not load the import run")
		return
	}
	if fields == nil {
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", "import run not found", nil)
		return
	}

	payload := map[string]any{"id": runID}
	for k, v := range fields {
		payload[k] = v
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
