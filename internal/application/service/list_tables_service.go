package service

import "ficengine/internal/platform/catalog"

// ListTablesService returns the catalog's known table names.
type ListTablesService struct {
	catalog *catalog.Catalog
}

// NewListTablesService returns a ListTablesService backed by cat.
func NewListTablesService(cat *catalog.Catalog) *ListTablesService {
	return &ListTablesService{catalog: cat}
}

// ListTablesResult is the outcome of Execute.
type ListTablesResult struct {
	Tables []string
}

// Execute implements spec.md §4.7's list_tables().
func (s *ListTablesService) Execute() ListTablesResult {
	return ListTablesResult{Tables: s.catalog.ListTables()}
}
