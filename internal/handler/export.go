package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/pkordes/trippacks/internal/export"
)

// GetExport implements GET /export.
// It returns one flat row per stop, with trip fields repeated.
// Use ?format=csv or ?format=yaml to change the encoding; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	if s.export == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "export unavailable")
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	// Encode into a buffer first so an encoding failure can still become a 500.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if format == export.CSV {
		w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}
