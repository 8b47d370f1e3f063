package service

import "ficengine/internal/platform/catalog"

// DeleteService flips a record's deletion flag.
type DeleteService struct {
	catalog *catalog.Catalog
}

// NewDeleteService returns a DeleteService.
func NewDeleteService(cat *catalog.Catalog) *DeleteService {
	return &DeleteService{catalog: cat}
}

// DeleteCommand names the table and record id to delete.
type DeleteCommand struct {
	Table string
	ID    uint32
}

// DeleteResult is the outcome of Execute.
type DeleteResult struct {
	ID uint32
}

// Execute implements spec.md §4.7's delete(table, id): sets the deletion
// flag in place, never compacting the file.
func (s *DeleteService) Execute(command DeleteCommand) (DeleteResult, error) {
	_, _, reader, err := openTable(s.catalog, command.Table)
	if err != nil {
		return DeleteResult{}, err
	}
	if err := reader.SetDeleted(command.ID, true); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{ID: command.ID}, nil
}
