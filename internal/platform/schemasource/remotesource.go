package schemasource

import (
	"net/http"

	"github.com/go-resty/resty/v2"

	"ficengine/internal/domain"
)

// tableSchemaEndpoint is appended to the registry's base URL, with the
// table name as the final path segment.
const tableSchemaEndpoint = "/api/v1/schemas"

// RemoteSource loads table schemas from an HTTP(S) schema registry,
// following the same resty client pattern the teacher repo uses for its
// config server. A missing table (404) is reported as ok=false rather
// than an error, matching FileSource's behavior for an absent entry.
type RemoteSource struct {
	client    *resty.Client
	serverURL string
}

// NewRemoteSource returns a RemoteSource pointed at baseURL.
func NewRemoteSource(baseURL string) *RemoteSource {
	return &RemoteSource{
		client:    resty.New(),
		serverURL: baseURL,
	}
}

// Load implements domain.SchemaSource.
func (s *RemoteSource) Load(table string) ([]domain.FieldDescriptor, bool, error) {
	var fields []domain.FieldDescriptor
	uri := s.serverURL + tableSchemaEndpoint + "/" + table

	resp, err := s.client.R().SetResult(&fields).Get(uri)
	if err != nil {
		return nil, false, domain.IO(uri, 0, 0, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.IsError() {
		return nil, false, domain.InvalidFormatf("schema registry %s: status %d", uri, resp.StatusCode())
	}
	return fields, true, nil
}
