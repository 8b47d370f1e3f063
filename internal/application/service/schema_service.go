package service

import (
	"ficengine/internal/domain"
	"ficengine/internal/platform/catalog"
)

// SchemaService returns a table's cached schema.
type SchemaService struct {
	catalog *catalog.Catalog
}

// NewSchemaService returns a SchemaService backed by cat.
func NewSchemaService(cat *catalog.Catalog) *SchemaService {
	return &SchemaService{catalog: cat}
}

// SchemaQuery names the table to look up.
type SchemaQuery struct {
	Table string
}

// SchemaResult is the outcome of Execute.
type SchemaResult struct {
	Schema *domain.TableSchema
}

// Execute implements spec.md §4.7's schema(table). A missing table
// surfaces catalog.Resolve's NotFound error unchanged.
func (s *SchemaService) Execute(query SchemaQuery) (SchemaResult, error) {
	schema, err := s.catalog.Schema(query.Table)
	if err != nil {
		return SchemaResult{}, err
	}
	return SchemaResult{Schema: schema}, nil
}
