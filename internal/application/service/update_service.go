package service

import "ficengine/internal/domain"

// UpdateService would rewrite an existing record's fields in place. Like
// InsertService, it signals Unsupported: spec.md §4.7 requires update to
// either fully write or leave no bytes changed, and a multi-field update
// touching more than the single deletion-flag byte has no such guarantee
// here.
type UpdateService struct{}

// NewUpdateService returns an UpdateService.
func NewUpdateService() *UpdateService { return &UpdateService{} }

// UpdateCommand names the table, record id, and field values to write.
type UpdateCommand struct {
	Table  string
	ID     uint32
	Fields map[string]domain.TypedValue
}

// UpdateResult is the outcome of Execute.
type UpdateResult struct{}

// Execute always returns Unsupported.
func (s *UpdateService) Execute(command UpdateCommand) (UpdateResult, error) {
	return UpdateResult{}, domain.Unsupportedf("update is not available: no durable transactional write path for table %q", command.Table)
}
