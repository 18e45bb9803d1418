package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Handler exposes the import pipeline as an HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	userID := strings.TrimSpace(r.FormValue("userId"))
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	req := Request{
		UserID:   userID,
		FileName: header.Filename,
		Data:     bytes.NewReader(data),
	}

	result, err := h.service.Import(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForImportError(err), map[string]any{"error": err.Error()})
		return
	}

	writeResult(w, result)
}

// writeResult maps the aggregated outcome onto one of the four response
// shapes: validation failure, total commit failure, partial success, or
// full success.
func writeResult(w http.ResponseWriter, result Result) {
	switch {
	case result.Gated():
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":            "validation failed",
			"validationErrors": result.ValidationErrors,
		})
	case result.TotalFailure():
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":  "no rows could be imported",
			"errors": result.Errors,
		})
	case result.Partial:
		writeJSON(w, http.StatusOK, map[string]any{
			"partialSuccess": true,
			"successCount":   result.Created,
			"errorCount":     len(result.Errors),
			"errors":         result.Errors,
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"count":   result.Created,
		})
	}
}

// statusForImportError distinguishes bad uploads from unexpected failures.
func statusForImportError(err error) int {
	var parseErr *ParseError
	if errors.As(err, &parseErr) || errors.Is(err, ErrNoRecords) || errors.Is(err, ErrUnsupportedFormat) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
