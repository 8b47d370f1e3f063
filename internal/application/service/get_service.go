package service

import (
	"ficengine/internal/domain"
	"ficengine/internal/platform/catalog"
	"ficengine/internal/platform/decoder"
)

// GetService reads and decodes a single record by id.
type GetService struct {
	catalog *catalog.Catalog
	decoder *decoder.Decoder
}

// NewGetService returns a GetService.
func NewGetService(cat *catalog.Catalog, dec *decoder.Decoder) *GetService {
	return &GetService{catalog: cat, decoder: dec}
}

// GetQuery names the table and record id to fetch.
type GetQuery struct {
	Table string
	ID    uint32
}

// GetResult is the outcome of Execute.
type GetResult struct {
	Record domain.TypedRecord
}

// Execute implements spec.md §4.7's get(table, id): a deleted record is
// still returned, with Record.Deleted set, letting the caller decide.
func (s *GetService) Execute(query GetQuery) (GetResult, error) {
	entry, schema, reader, err := openTable(s.catalog, query.Table)
	if err != nil {
		return GetResult{}, err
	}
	frame, err := reader.ReadRecord(query.ID)
	if err != nil {
		return GetResult{}, err
	}
	record, err := s.decoder.Decode(frame, schema, memoReaderFor(entry, s.decoder.Policy()))
	if err != nil {
		return GetResult{}, err
	}
	return GetResult{Record: record}, nil
}
