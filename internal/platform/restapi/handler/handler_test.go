package handler

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"ficengine/internal/application"
	"ficengine/internal/platform/activity"
	"ficengine/internal/platform/catalog"
	"ficengine/internal/platform/datafile"
	"ficengine/internal/platform/decoder"
	"ficengine/internal/platform/schema"
)

// buildEngine writes a CLIENT.fic with five 64-byte records (the
// structural default schema: id at offset 0, flags at offset 4, trailing
// data) and wires a QueryEngine over it.
func buildEngine(t *testing.T, readOnly bool) *application.QueryEngine {
	t.Helper()
	dir := t.TempDir()
	const recordLength = 64

	path := filepath.Join(dir, "CLIENT.fic")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	header := make([]byte, datafile.HeaderSize)
	copy(header[0:4], []byte("PCS\x00"))
	binary.LittleEndian.PutUint16(header[8:10], recordLength)
	binary.LittleEndian.PutUint16(header[10:12], 5)
	if _, err := f.Write(header); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		rec := make([]byte, recordLength)
		binary.LittleEndian.PutUint32(rec[1:5], uint32(i))
		if _, err := f.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	cat := catalog.New(schema.New(nil), func(dataPath string) (uint32, uint32, error) {
		r, err := datafile.Open(dataPath)
		if err != nil {
			return 0, 0, err
		}
		header := r.Header()
		return header.RecordLength, uint32(header.RecordCount), nil
	})
	if err := cat.Rescan(dir); err != nil {
		t.Fatal(err)
	}
	return application.New(cat, decoder.New(), activity.NoopPublisher{}, readOnly)
}

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/v1/tables", h.ListTables)
	r.Get("/api/v1/tables/{table}/schema", h.Schema)
	r.Get("/api/v1/tables/{table}/records", h.Select)
	r.Get("/api/v1/tables/{table}/records/{id}", h.Get)
	r.Delete("/api/v1/tables/{table}/records/{id}", h.Delete)
	return r
}

func TestListTablesHandler(t *testing.T) {
	h := New(buildEngine(t, true))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables", nil)
	newTestRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string][]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body["tables"]) != 1 || body["tables"][0] != "CLIENT" {
		t.Fatalf("got %v, want [CLIENT]", body["tables"])
	}
}

func TestSchemaHandler(t *testing.T) {
	h := New(buildEngine(t, true))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/CLIENT/schema", nil)
	newTestRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body schemaResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.RecordLength != 64 {
		t.Fatalf("record_length = %d, want 64", body.RecordLength)
	}
}

func TestSchemaHandlerUnknownTableIs404(t *testing.T) {
	h := New(buildEngine(t, true))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/GHOST/schema", nil)
	newTestRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestSelectHandlerAppliesLimit(t *testing.T) {
	h := New(buildEngine(t, true))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/CLIENT/records?limit=2", nil)
	newTestRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body selectResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Records) != 2 || body.Total != 5 {
		t.Fatalf("got %d records / total %d, want 2 / 5", len(body.Records), body.Total)
	}
}

func TestSelectHandlerFiltersByFieldValue(t *testing.T) {
	h := New(buildEngine(t, true))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/CLIENT/records?id=3", nil)
	newTestRouter(h).ServeHTTP(rr, req)

	var body selectResponseBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Records) != 1 || body.Records[0].Index != 3 {
		t.Fatalf("got %+v, want exactly record index 3", body.Records)
	}
}

func TestGetHandlerOutOfRangeIs404(t *testing.T) {
	h := New(buildEngine(t, true))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/CLIENT/records/99", nil)
	newTestRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestDeleteHandlerRejectedWhenReadOnly(t *testing.T) {
	h := New(buildEngine(t, true))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tables/CLIENT/records/1", nil)
	newTestRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
}

func TestDeleteHandlerSucceedsWhenWritable(t *testing.T) {
	h := New(buildEngine(t, false))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tables/CLIENT/records/1", nil)
	newTestRouter(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
}
