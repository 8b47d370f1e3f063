package service

import (
	"fmt"

	"ficengine/internal/domain"
	"ficengine/internal/platform/catalog"
	"ficengine/internal/platform/decoder"
)

const (
	defaultSelectLimit = 100
)

// SelectService enumerates, filters, and paginates a table's records.
type SelectService struct {
	catalog *catalog.Catalog
	decoder *decoder.Decoder
}

// NewSelectService returns a SelectService.
func NewSelectService(cat *catalog.Catalog, dec *decoder.Decoder) *SelectService {
	return &SelectService{catalog: cat, decoder: dec}
}

// SelectQuery is spec.md §4.7's select(table, filters): Limit/Offset of
// zero take the documented defaults (100 / 0); Filters maps a field name
// to the exact rendered-string match it must equal.
type SelectQuery struct {
	Table   string
	Limit   int
	Offset  int
	Filters map[string]string
}

// DecodeFailure pairs a record index with the error that failed its decode,
// under the skip-and-continue policy (spec.md §4.7).
type DecodeFailure struct {
	Index uint32
	Err   error
}

// SelectResult is the outcome of Execute.
type SelectResult struct {
	Records        []domain.TypedRecord
	Total          int
	Offset         int
	Limit          int
	DecodeFailures []DecodeFailure
}

// Execute implements spec.md §4.7's select: enumerate, filter, then apply
// offset and limit in that order. Decode failures are skipped and
// accumulated into DecodeFailures rather than aborting the whole call.
func (s *SelectService) Execute(query SelectQuery) (SelectResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultSelectLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	entry, schema, reader, err := openTable(s.catalog, query.Table)
	if err != nil {
		return SelectResult{}, err
	}
	memo := memoReaderFor(entry, s.decoder.Policy())

	cursor, err := reader.ReadAll()
	if err != nil {
		return SelectResult{}, err
	}
	defer cursor.Close()

	var matches []domain.TypedRecord
	var failures []DecodeFailure
	var nextIndex uint32

	for {
		frame, ok, err := cursor.Next()
		if err != nil {
			// A truncated/malformed record mid-scan (the one other-than-memo
			// way a single record can fail to decode) is recovered locally
			// under the default skip-and-continue policy (spec.md §7): it is
			// attached to the result instead of aborting the whole select.
			// The cursor has already closed itself and reads are strictly
			// sequential, so there is no record past this point to resume
			// from; every match gathered so far is still returned.
			failures = append(failures, DecodeFailure{Index: nextIndex, Err: err})
			break
		}
		if !ok {
			break
		}
		nextIndex = frame.Index + 1

		record, err := s.decoder.Decode(frame, schema, memo)
		if err != nil {
			failures = append(failures, DecodeFailure{Index: frame.Index, Err: err})
			continue
		}
		if recordMatches(record, query.Filters) {
			matches = append(matches, record)
		}
	}

	total := len(matches)
	page := paginate(matches, offset, limit)

	return SelectResult{
		Records:        page,
		Total:          total,
		Offset:         offset,
		Limit:          limit,
		DecodeFailures: failures,
	}, nil
}

// recordMatches reports whether record passes every filter entry: each
// filter's field value, rendered canonically, must equal the filter string
// exactly. A null field, or a field the schema doesn't have, never matches.
func recordMatches(record domain.TypedRecord, filters map[string]string) bool {
	for name, want := range filters {
		value, ok := record.Get(name)
		if !ok {
			return false
		}
		rendered, ok := value.Render()
		if !ok {
			return false
		}
		if rendered != want {
			return false
		}
	}
	return true
}

func paginate(records []domain.TypedRecord, offset, limit int) []domain.TypedRecord {
	if offset >= len(records) {
		return nil
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	out := make([]domain.TypedRecord, end-offset)
	copy(out, records[offset:end])
	return out
}

// Error renders a DecodeFailure in the teacher's plain error-wrapping
// style, used when a caller wants a single combined error for logging.
func (f DecodeFailure) Error() string {
	return fmt.Sprintf("record %d: %v", f.Index, f.Err)
}
