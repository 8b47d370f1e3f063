// Package bootstrap wires the engine's constructors together with
// go.uber.org/dig, mirroring the teacher's own bootstrap.Run(): every
// component is a dig-provided constructor, and Run resolves and starts the
// REST facade.
package bootstrap

import (
	"os"
	"strings"

	"go.uber.org/dig"

	"ficengine/internal/application"
	"ficengine/internal/domain"
	"ficengine/internal/platform/activity"
	"ficengine/internal/platform/catalog"
	"ficengine/internal/platform/config"
	"ficengine/internal/platform/datafile"
	"ficengine/internal/platform/decoder"
	"ficengine/internal/platform/encoding"
	"ficengine/internal/platform/restapi"
	"ficengine/internal/platform/restapi/handler"
	"ficengine/internal/platform/schema"
	"ficengine/internal/platform/schemasource"
)

// Run builds the container and starts the REST facade. It blocks until the
// HTTP listener fails.
func Run() error {
	container := dig.New()
	constructors := []interface{}{
		loadConfig,
		textPolicy,
		externalSchemaSource,
		schemaInspector,
		recordLengthLookup,
		dataCatalog,
		recordDecoder,
		activityPublisher,
		queryEngine,
		handler.New,
		restapi.NewServer,
	}
	for _, c := range constructors {
		if err := container.Provide(c); err != nil {
			return err
		}
	}
	return container.Invoke(func(s *restapi.Server) error {
		return s.Run()
	})
}

// configFilePath resolves the YAML config file's path: FICENGINE_CONFIG_FILE
// if set, otherwise the conventional "ficengine.yaml" in the working
// directory. config.Load tolerates the file not existing.
func configFilePath() string {
	if v := os.Getenv("FICENGINE_CONFIG_FILE"); v != "" {
		return v
	}
	return "ficengine.yaml"
}

func loadConfig() (config.Config, error) {
	return config.Load(configFilePath())
}

func textPolicy(cfg config.Config) (encoding.Policy, error) {
	return encoding.NewPolicy(cfg.StringEncodingPrimary, cfg.StringEncodingFallback)
}

// externalSchemaSource builds the schema_source backend named in spec.md
// §6: a plain path loads a local JSON document, an http(s) URL loads a
// remote registry, and an unset option leaves every table on the
// structural default schema.
func externalSchemaSource(cfg config.Config) domain.SchemaSource {
	switch {
	case cfg.SchemaSource == "":
		return nil
	case strings.HasPrefix(cfg.SchemaSource, "http://"), strings.HasPrefix(cfg.SchemaSource, "https://"):
		return schemasource.NewRemoteSource(cfg.SchemaSource)
	default:
		return schemasource.NewFileSource(cfg.SchemaSource)
	}
}

func schemaInspector(source domain.SchemaSource) *schema.Inspector {
	return schema.New(source)
}

func recordLengthLookup() catalog.RecordLengthLookup {
	return func(dataPath string) (uint32, uint32, error) {
		r, err := datafile.Open(dataPath)
		if err != nil {
			return 0, 0, err
		}
		header := r.Header()
		return header.RecordLength, uint32(header.RecordCount), nil
	}
}

func dataCatalog(inspector *schema.Inspector, lookup catalog.RecordLengthLookup, cfg config.Config) (*catalog.Catalog, error) {
	cat := catalog.New(inspector, lookup)
	if err := cat.Rescan(cfg.DataDir); err != nil {
		return nil, err
	}
	return cat, nil
}

func recordDecoder(policy encoding.Policy) *decoder.Decoder {
	return decoder.NewWithPolicy(policy)
}

// activityPublisher builds the optional activity broadcaster (SPEC_FULL.md
// §6). Disabled by default: NoopPublisher keeps QueryEngine's mutation
// path identical whether or not a subscriber is listening.
func activityPublisher(cfg config.Config) (domain.ActivityPublisher, error) {
	if !cfg.ActivityEnabled {
		return activity.NoopPublisher{}, nil
	}
	broadcaster, err := activity.NewBroadcaster(cfg.ActivityAddress)
	if err != nil {
		return nil, err
	}
	return broadcaster, nil
}

func queryEngine(cat *catalog.Catalog, dec *decoder.Decoder, pub domain.ActivityPublisher, cfg config.Config) *application.QueryEngine {
	return application.New(cat, dec, pub, cfg.ReadOnly)
}
