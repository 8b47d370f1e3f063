package handler

import (
	"ficengine/internal/application"
	"ficengine/internal/domain"
)

// fieldResponse mirrors domain.FieldDescriptor's JSON shape; kept separate
// so a future field addition to the internal type doesn't silently change
// the wire contract.
type fieldResponse struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

type schemaResponseBody struct {
	Table           string          `json:"table"`
	RecordLength    int             `json:"record_length"`
	RecordCountFile uint32          `json:"record_count_file_header"`
	Fields          []fieldResponse `json:"fields"`
}

func schemaResponse(table string, schema *domain.TableSchema) schemaResponseBody {
	fields := make([]fieldResponse, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		fields = append(fields, fieldResponse{Name: f.Name, Type: f.Type.String(), Offset: f.Offset, Length: f.Length})
	}
	return schemaResponseBody{Table: table, RecordLength: schema.RecordLength, RecordCountFile: schema.RecordCountFile, Fields: fields}
}

type recordResponseBody struct {
	Index   uint32            `json:"index"`
	Deleted bool              `json:"deleted"`
	Fields  map[string]any    `json:"fields"`
	Memos   map[string]string `json:"memos,omitempty"`
}

// recordResponse renders a TypedRecord's fields as native JSON values
// (numbers as numbers, binary as lowercase hex, null as null) rather than
// the canonical-decimal strings select's filter matching uses internally.
func recordResponse(record domain.TypedRecord) recordResponseBody {
	fields := make(map[string]any, len(record.Fields))
	for _, name := range record.FieldOrder {
		fields[name] = renderFieldValue(record.Fields[name])
	}
	return recordResponseBody{Index: record.Index, Deleted: record.Deleted, Fields: fields, Memos: record.Memos}
}

func renderFieldValue(v domain.TypedValue) any {
	switch v.Kind {
	case domain.ValueInteger:
		return v.Int
	case domain.ValueFloat:
		return v.Flt
	case domain.ValueString:
		return v.Str
	case domain.ValueBinary:
		s, _ := v.Render()
		return s
	default:
		return nil
	}
}

type decodeFailureResponse struct {
	Index uint32 `json:"index"`
	Error string `json:"error"`
}

type selectResponseBody struct {
	Records        []recordResponseBody    `json:"records"`
	Total          int                     `json:"total"`
	Offset         int                     `json:"offset"`
	Limit          int                     `json:"limit"`
	DecodeFailures []decodeFailureResponse `json:"decode_failures,omitempty"`
}

func selectResponse(result application.QueryResult) selectResponseBody {
	records := make([]recordResponseBody, 0, len(result.Records))
	for _, r := range result.Records {
		records = append(records, recordResponse(r))
	}
	var failures []decodeFailureResponse
	for _, f := range result.DecodeFailures {
		failures = append(failures, decodeFailureResponse{Index: f.Index, Error: f.Err.Error()})
	}
	return selectResponseBody{
		Records:        records,
		Total:          result.Total,
		Offset:         result.Offset,
		Limit:          result.Limit,
		DecodeFailures: failures,
	}
}
