package service

import (
	"testing"

	"ficengine/internal/domain"
	"ficengine/internal/platform/decoder"
)

func TestGetServiceReturnsDeletedRecordWithIndicator(t *testing.T) {
	dir := t.TempDir()
	cat := buildCatalog(t, dir, 10, 7)

	svc := NewGetService(cat, decoder.New())
	result, err := svc.Execute(GetQuery{Table: "CLIENT", ID: 7})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Record.Deleted {
		t.Fatal("expected Deleted=true")
	}
	idValue, ok := result.Record.Get("id")
	if !ok || idValue.Int != 7 {
		t.Fatalf("id field = %+v, want 7", idValue)
	}
}

func TestGetServiceOutOfRange(t *testing.T) {
	dir := t.TempDir()
	cat := buildCatalog(t, dir, 10, -1)

	svc := NewGetService(cat, decoder.New())
	if _, err := svc.Execute(GetQuery{Table: "CLIENT", ID: 10}); err == nil {
		t.Fatal("expected OutOfRange error")
	} else if kind, _ := domain.KindOf(err); kind != domain.KindOutOfRange {
		t.Fatalf("got kind %v, want OutOfRange", kind)
	}
}

func TestGetServiceUnknownTable(t *testing.T) {
	dir := t.TempDir()
	cat := buildCatalog(t, dir, 10, -1)

	svc := NewGetService(cat, decoder.New())
	if _, err := svc.Execute(GetQuery{Table: "ORDERS", ID: 0}); err == nil {
		t.Fatal("expected NotFound error")
	} else if kind, _ := domain.KindOf(err); kind != domain.KindNotFound {
		t.Fatalf("got kind %v, want NotFound", kind)
	}
}
