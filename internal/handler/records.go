package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trippacks/internal/domain"
	"github.com/pkordes/trippacks/internal/validation"
)

// ListResponse is the body of every GET on a record target.
type ListResponse struct {
	Type domain.TargetType `json:"type"`
	Rows []domain.Row      `json:"rows"`
}

// WriteRequest is the body of POST and PATCH on a record target.
type WriteRequest struct {
	Values domain.Values `json:"values"`
}

// InsertResponse is returned with 201 Created.
type InsertResponse struct {
	Type domain.TargetType `json:"type"`
	ID   int64             `json:"id"`
	Path string            `json:"path"`
}

// CountResponse reports rows changed by an update or delete.
type CountResponse struct {
	Count int64 `json:"count"`
}

// DeleteAllResponse reports rows removed from each table.
type DeleteAllResponse struct {
	Trips int64 `json:"trips"`
	Stops int64 `json:"stops"`
}

// Query parameters with a meaning of their own. Every other query parameter
// is an equality filter on the column of the same name.
const (
	paramColumns = "columns"
	paramSort    = "sort"
	paramPage    = "page"
	paramLimit   = "limit"
)

var reservedParams = map[string]bool{
	paramColumns: true, paramSort: true, paramPage: true, paramLimit: true,
}

// ListRecords handles GET /{collection} and GET /{collection}/{id}.
//
//	?columns=trip_number,state   projection
//	?sort=-trip_number,id        order; "-" means descending
//	?page=2&limit=50             pagination
//	?state=101                   equality filter (collections only)
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "records unavailable")
		return
	}
	target, ok := s.target(w, r)
	if !ok {
		return
	}

	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	rows, err := s.records.Query(r.Context(), target, q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if target.IsItem() && len(rows) == 0 {
		writeError(w, http.StatusNotFound, codeNotFound, target.Entity().String()+" not found")
		return
	}

	tag, err := s.records.Type(target)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Type: tag, Rows: rows})
}

// InsertRecord handles POST /{collection}. Posting to an item path is 400.
// A rejected write is 422 and lists every field that failed its checks.
func (s *Server) InsertRecord(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "records unavailable")
		return
	}
	target, ok := s.target(w, r)
	if !ok {
		return
	}
	values, ok := decodeValues(w, r)
	if !ok {
		return
	}

	var msgs validation.Collector
	ctx := validation.NewContext(r.Context(), &msgs)

	item, inserted, err := s.records.Insert(ctx, target, values)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if !inserted {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "insert rejected", msgs.Messages...)
		return
	}

	tag, err := s.records.Type(item)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", item.Path())
	writeJSON(w, http.StatusCreated, InsertResponse{Type: tag, ID: item.ID, Path: item.Path()})
}

// UpdateRecords handles PATCH /{collection} and PATCH /{collection}/{id}.
// Query parameters filter a collection update.
func (s *Server) UpdateRecords(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "records unavailable")
		return
	}
	target, ok := s.target(w, r)
	if !ok {
		return
	}
	values, ok := decodeValues(w, r)
	if !ok {
		return
	}

	var msgs validation.Collector
	ctx := validation.NewContext(r.Context(), &msgs)

	n, err := s.records.Update(ctx, target, values, filterFrom(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if len(msgs.Messages) > 0 {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "update rejected", msgs.Messages...)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// DeleteRecords handles DELETE /{collection} and DELETE /{collection}/{id}.
// A collection delete without query parameters removes every row.
func (s *Server) DeleteRecords(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "records unavailable")
		return
	}
	target, ok := s.target(w, r)
	if !ok {
		return
	}

	n, err := s.records.Delete(r.Context(), target, filterFrom(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// DeleteAll handles DELETE /: every trip and every stop.
func (s *Server) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, "records unavailable")
		return
	}
	trips, stops, err := s.records.DeleteAll(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteAllResponse{Trips: trips, Stops: stops})
}

// --- request helpers --------------------------------------------------------

// target resolves the route's {collection} and {id} to a domain.Target,
// answering 400 itself when the path names nothing addressable.
func (s *Server) target(w http.ResponseWriter, r *http.Request) (domain.Target, bool) {
	path := "/" + chi.URLParam(r, "collection")
	if id := chi.URLParam(r, "id"); id != "" {
		path += "/" + id
	}
	t, err := domain.ParseTarget(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeUnsupportedTarget, unwrapMessage(err))
		return domain.Target{}, false
	}
	return t, true
}

// decodeValues reads a WriteRequest body. A missing or malformed body is 400;
// a body over the size limit is 413.
func decodeValues(w http.ResponseWriter, r *http.Request) (domain.Values, bool) {
	var req WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "request body must be {\"values\": {...}}")
		return nil, false
	}
	if req.Values == nil {
		req.Values = domain.Values{}
	}
	return req.Values, true
}

// parseQuery binds columns, sort, page, and limit, and turns every other
// query parameter into a filter.
func parseQuery(r *http.Request) (domain.Query, error) {
	params := r.URL.Query()

	var (
		columns     []string
		sort        []string
		page, limit *int
	)
	if err := runtime.BindQueryParameter("form", false, false, paramColumns, params, &columns); err != nil {
		return domain.Query{}, err
	}
	if err := runtime.BindQueryParameter("form", false, false, paramSort, params, &sort); err != nil {
		return domain.Query{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, paramPage, params, &page); err != nil {
		return domain.Query{}, err
	}
	if err := runtime.BindQueryParameter("form", true, false, paramLimit, params, &limit); err != nil {
		return domain.Query{}, err
	}

	q := domain.Query{Columns: columns, Filter: filterFrom(r)}
	for _, key := range sort {
		q.Sort = append(q.Sort, parseSort(key))
	}
	if page != nil || limit != nil {
		p := domain.NewPaginationParams(page, limit)
		q.Page = &p
	}
	return q, nil
}

// parseSort turns "-trip_number" into a descending numeric sort.
// trip_number holds integers as text, so it is always compared numerically.
func parseSort(key string) domain.Sort {
	s := domain.Sort{Column: key}
	if rest, ok := strings.CutPrefix(key, "-"); ok {
		s.Column, s.Desc = rest, true
	}
	s.Numeric = s.Column == domain.ColTripNumber
	return s
}

// filterFrom collects every non-reserved query parameter. Only the first
// value of a repeated parameter is used.
func filterFrom(r *http.Request) domain.Filter {
	var f domain.Filter
	for k, vs := range r.URL.Query() {
		if reservedParams[k] || len(vs) == 0 {
			continue
		}
		if f == nil {
			f = domain.Filter{}
		}
		f[k] = vs[0]
	}
	return f
}
