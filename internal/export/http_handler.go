package export

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a GET download endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := Request{
		Comuna: strings.TrimSpace(r.URL.Query().Get("comuna")),
	}

	// The workbook is buffered so a mid-export failure can still turn
	// into a clean error response.
	buf := &bytes.Buffer{}
	count, err := h.service.Export(r.Context(), buf, req)
	if err != nil {
		log.Printf("[EXPORT] failed: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxMimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Record-Count", strconv.Itoa(count))
	_, _ = buf.WriteTo(w)
}
