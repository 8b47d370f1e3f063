// Package application composes the per-operation services into
// QueryEngine, the single public contract described in spec.md §4.7.
package application

import (
	"time"

	"ficengine/internal/application/service"
	"ficengine/internal/domain"
	"ficengine/internal/platform/catalog"
	"ficengine/internal/platform/decoder"
)

// QueryEngine is the public facade every external surface (REST, a future
// SQL adapter, a CLI) talks to. It never exposes the underlying catalog,
// decoder, or file readers directly.
type QueryEngine struct {
	readOnly bool
	activity domain.ActivityPublisher

	listTables *service.ListTablesService
	schema     *service.SchemaService
	get        *service.GetService
	selectSvc  *service.SelectService
	insert     *service.InsertService
	update     *service.UpdateService
	delete     *service.DeleteService
}

// New builds a QueryEngine over cat, using dec to decode records. activity
// may be activity.NoopPublisher{} when tracking is disabled.
func New(cat *catalog.Catalog, dec *decoder.Decoder, activity domain.ActivityPublisher, readOnly bool) *QueryEngine {
	return &QueryEngine{
		readOnly:   readOnly,
		activity:   activity,
		listTables: service.NewListTablesService(cat),
		schema:     service.NewSchemaService(cat),
		get:        service.NewGetService(cat, dec),
		selectSvc:  service.NewSelectService(cat, dec),
		insert:     service.NewInsertService(),
		update:     service.NewUpdateService(),
		delete:     service.NewDeleteService(cat),
	}
}

// ListTables returns table names in catalog-insertion order.
func (e *QueryEngine) ListTables() []string {
	return e.listTables.Execute().Tables
}

// Schema returns table's cached schema.
func (e *QueryEngine) Schema(table string) (*domain.TableSchema, error) {
	result, err := e.schema.Execute(service.SchemaQuery{Table: table})
	if err != nil {
		return nil, err
	}
	return result.Schema, nil
}

// Get reads and decodes a single record, deleted or not.
func (e *QueryEngine) Get(table string, id uint32) (domain.TypedRecord, error) {
	result, err := e.get.Execute(service.GetQuery{Table: table, ID: id})
	if err != nil {
		return domain.TypedRecord{}, err
	}
	return result.Record, nil
}

// SelectFilters is the optional filter/pagination bundle spec.md §4.7
// names for select(table, filters).
type SelectFilters struct {
	Limit   int
	Offset  int
	Filters map[string]string
}

// QueryResult mirrors spec.md §4.7's QueryResult: matches in index order,
// the total before pagination, the applied offset/limit, and the
// skip-and-continue decode failures encountered along the way.
type QueryResult struct {
	Records        []domain.TypedRecord
	Total          int
	Offset         int
	Limit          int
	DecodeFailures []service.DecodeFailure
}

// Select enumerates table, applies filters, then offset and limit in that
// order.
func (e *QueryEngine) Select(table string, filters SelectFilters) (QueryResult, error) {
	result, err := e.selectSvc.Execute(service.SelectQuery{
		Table:   table,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
		Filters: filters.Filters,
	})
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{
		Records:        result.Records,
		Total:          result.Total,
		Offset:         result.Offset,
		Limit:          result.Limit,
		DecodeFailures: result.DecodeFailures,
	}, nil
}

// Insert is available only when the engine is not read-only.
func (e *QueryEngine) Insert(table string, fields map[string]domain.TypedValue) error {
	if e.readOnly {
		return domain.ReadOnlyf("insert rejected: engine is read-only")
	}
	_, err := e.insert.Execute(service.InsertCommand{Table: table, Fields: fields})
	return err
}

// Update is available only when the engine is not read-only.
func (e *QueryEngine) Update(table string, id uint32, fields map[string]domain.TypedValue) error {
	if e.readOnly {
		return domain.ReadOnlyf("update rejected: engine is read-only")
	}
	_, err := e.update.Execute(service.UpdateCommand{Table: table, ID: id, Fields: fields})
	return err
}

// Delete is available only when the engine is not read-only. On success it
// publishes an ActivityEvent best-effort.
func (e *QueryEngine) Delete(table string, id uint32) error {
	if e.readOnly {
		return domain.ReadOnlyf("delete rejected: engine is read-only")
	}
	if _, err := e.delete.Execute(service.DeleteCommand{Table: table, ID: id}); err != nil {
		return err
	}
	e.activity.Publish(domain.NewActivityEvent(table, "delete", id, time.Now().Unix()))
	return nil
}
