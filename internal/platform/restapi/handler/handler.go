// Package handler implements the HTTP handlers for the REST facade named
// in spec.md §6: list tables, schema, select with limit/offset/filters,
// get by id, and mutations. Every handler calls QueryEngine only through
// its public contract (spec.md §4.7) — it never touches the catalog,
// decoder, or file readers directly.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ficengine/internal/application"
	"ficengine/internal/domain"
)

// Handler groups every route's dependencies behind the engine it was
// built around, mirroring the teacher's one-handler-struct-per-resource
// pattern.
type Handler struct {
	engine *application.QueryEngine
}

// New returns a Handler backed by engine.
func New(engine *application.QueryEngine) *Handler {
	return &Handler{engine: engine}
}

// ListTables handles GET /api/v1/tables.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tables": h.engine.ListTables()})
}

// Schema handles GET /api/v1/tables/{table}/schema.
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	schema, err := h.engine.Schema(table)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schemaResponse(table, schema))
}

// Get handles GET /api/v1/tables/{table}/records/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	id, err := parseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	record, err := h.engine.Get(table, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse(record))
}

// Select handles GET /api/v1/tables/{table}/records, applying limit, offset,
// and any other query parameter as an exact-match field filter.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	filters := application.SelectFilters{Filters: map[string]string{}}

	query := r.URL.Query()
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filters.Limit = n
	}
	if v := query.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		filters.Offset = n
	}
	for name, values := range query {
		if name == "limit" || name == "offset" || len(values) == 0 {
			continue
		}
		filters.Filters[name] = values[0]
	}

	result, err := h.engine.Select(table, filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selectResponse(result))
}

// Delete handles DELETE /api/v1/tables/{table}/records/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	id, err := parseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.engine.Delete(table, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Insert handles POST /api/v1/tables/{table}/records. The core may signal
// Unsupported (spec.md §4.7) if this build has no durable write path; that
// surfaces as 501, not a handler bug.
func (h *Handler) Insert(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	fields, err := decodeFieldValues(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.engine.Insert(table, fields); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Update handles PUT /api/v1/tables/{table}/records/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	id, err := parseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	fields, err := decodeFieldValues(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.engine.Update(table, id, fields); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseRecordID(raw string) (uint32, error) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// decodeFieldValues reads a JSON body shaped {"field": "rendered value"} —
// insert/update accept the same rendered-string representation select's
// filters use, since the core has no write-path type coercion of its own.
func decodeFieldValues(r *http.Request) (map[string]domain.TypedValue, error) {
	var raw map[string]string
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	fields := make(map[string]domain.TypedValue, len(raw))
	for name, v := range raw {
		fields[name] = domain.NewStringValue(v)
	}
	return fields, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a domain.Error's Kind to the HTTP status category
// spec.md §7 calls for ("NotFound and OutOfRange are distinguished from
// malformed-data errors so layered surfaces can map them to distinct
// status categories").
func writeError(w http.ResponseWriter, err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	status := http.StatusInternalServerError
	switch kind {
	case domain.KindNotFound, domain.KindOutOfRange:
		status = http.StatusNotFound
	case domain.KindInvalidFormat, domain.KindSchemaInvalid, domain.KindTruncated:
		status = http.StatusUnprocessableEntity
	case domain.KindReadOnly:
		status = http.StatusForbidden
	case domain.KindUnsupported:
		status = http.StatusNotImplemented
	case domain.KindIO:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind.String()})
}
