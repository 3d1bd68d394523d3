package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkordes/trippacks/internal/notify"
)

// keepAlive is how often an idle change stream sends a comment line so
// proxies do not close it.
var keepAlive = 25 * time.Second

// StreamChanges implements GET /changes as a server-sent event stream.
// Every change is one "change" event whose data is the JSON notify.Change.
// Observers should re-query the target; the event carries no row data.
// The stream ends when the client disconnects.
func (s *Server) StreamChanges(w http.ResponseWriter, r *http.Request) {
	if s.changes == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "change stream unavailable")
		return
	}

	rc := http.NewResponseController(w)
	// The server's write timeout would otherwise cut the stream.
	_ = rc.SetWriteDeadline(time.Time{})

	ch, cancel := s.changes.Subscribe(notify.DefaultBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.log.WarnContext(r.Context(), "change stream cannot flush", "error", err)
		return
	}

	tick := time.NewTicker(keepAlive)
	defer tick.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-tick.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case c, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(c)
			if err != nil {
				s.log.ErrorContext(r.Context(), "encode change", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: change\ndata: %s\n\n", c.ID, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
