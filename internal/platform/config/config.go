// Package config loads the engine's configuration (spec.md §6), layered
// from defaults up through a YAML file, a .env file, the environment, and
// command-line flags, in ascending priority — the layering the teacher
// repo uses for its own settings, generalized to this engine's options.
package config

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	dataDirFlag  = flag.String("data-dir", "", "directory to scan for tables")
	readOnlyFlag = flag.Bool("read-only", true, "reject all mutating operations")
	restPortFlag = flag.Int("port", 8080, "REST facade listen port")
)

// Config holds the options named in spec.md §6 plus the homes this
// expansion gives them (REST port, activity broadcaster address).
type Config struct {
	DataDir                string `yaml:"data_dir"`
	ReadOnly               bool   `yaml:"read_only"`
	StringEncodingPrimary  string `yaml:"string_encoding_primary"`
	StringEncodingFallback string `yaml:"string_encoding_fallback"`
	SchemaSource           string `yaml:"schema_source"`

	RESTPort        int    `yaml:"rest_port"`
	ActivityEnabled bool   `yaml:"activity_enabled"`
	ActivityAddress string `yaml:"activity_address"`
}

// defaults returns the built-in baseline, the lowest layer. ReadOnly
// defaults to true (spec.md §6): a build must opt into mutating a data
// file in place, not opt out of it.
func defaults() Config {
	return Config{
		ReadOnly:               true,
		StringEncodingPrimary:  "windows-1252",
		StringEncodingFallback: "utf-8",
		RESTPort:               8080,
		ActivityAddress:        "tcp://*:7001",
	}
}

// Load builds a Config from, in ascending priority: built-in defaults, the
// YAML file at yamlPath (if it exists), a .env file in the working
// directory, environment variables, and the process's command-line flags.
func Load(yamlPath string) (Config, error) {
	cfg := defaults()

	if yamlPath != "" {
		if raw, err := os.ReadFile(yamlPath); err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, err
			}
		} else if !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	godotenv.Load(".env")

	if v := os.Getenv("FICENGINE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FICENGINE_READ_ONLY"); v != "" {
		cfg.ReadOnly = v == "true" || v == "1"
	}
	if v := os.Getenv("FICENGINE_STRING_ENCODING_PRIMARY"); v != "" {
		cfg.StringEncodingPrimary = v
	}
	if v := os.Getenv("FICENGINE_STRING_ENCODING_FALLBACK"); v != "" {
		cfg.StringEncodingFallback = v
	}
	if v := os.Getenv("FICENGINE_SCHEMA_SOURCE"); v != "" {
		cfg.SchemaSource = v
	}
	if v := os.Getenv("FICENGINE_ACTIVITY_ADDRESS"); v != "" {
		cfg.ActivityAddress = v
	}
	if v := os.Getenv("FICENGINE_ACTIVITY_ENABLED"); v != "" {
		cfg.ActivityEnabled = v == "true" || v == "1"
	}

	// flag.Parse() is called by cmd/ficengine's main before Load runs;
	// Load only reads the already-parsed values. readOnlyFlag defaults to
	// true, so it can't distinguish "absent" from "explicitly false" by
	// value alone; flag.Visit only reports flags actually set on the
	// command line, letting a lower layer's read_only: false survive
	// unless -read-only was passed. -port is handled the same way, so a
	// lower layer's rest_port is not overwritten by the flag's default.
	if *dataDirFlag != "" {
		cfg.DataDir = *dataDirFlag
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "read-only":
			cfg.ReadOnly = *readOnlyFlag
		case "port":
			cfg.RESTPort = *restPortFlag
		}
	})

	return cfg, nil
}
