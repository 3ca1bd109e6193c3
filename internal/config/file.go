package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
)

//go:embed config.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// File is the optional YAML configuration file. The token is intentionally
// absent; it only comes from flags or the environment.
type File struct {
	AppID          string        `yaml:"app_id"`
	Platform       string        `yaml:"platform"`
	BuildStack     string        `yaml:"build_stack"`
	BuildType      string        `yaml:"build_type"`
	Certificate    string        `yaml:"certificate"`
	Environment    string        `yaml:"environment"`
	NativeConfig   string        `yaml:"native_config"`
	Destinations   string        `yaml:"destinations"`
	Filename       string        `yaml:"filename"`
	WebPreview     bool          `yaml:"web_preview"`
	APIURL         string        `yaml:"api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	MaxPollErrors  int           `yaml:"max_poll_errors"`
	MetricsFile    string        `yaml:"metrics_file"`
	NATS           NATSConfig    `yaml:"nats"`
}

// NATSConfig configures build state notifications.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// DefaultPath is the config file used when --config is not given.
//
//	Linux:   $XDG_CONFIG_HOME/appflowbuild/config.yaml
//	macOS:   ~/Library/Application Support/appflowbuild/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "appflowbuild", "config.yaml")
}

// LoadFile reads and validates a config file. When path is empty the default
// location is tried and a missing file yields (nil, nil); an explicitly given
// path must exist.
func LoadFile(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, errors.ConfigError(fmt.Sprintf("configuration file not readable: %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return ParseFile(data, path)
}

// ParseFile validates data against the embedded schema and decodes it.
func ParseFile(data []byte, path string) (*File, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse configuration file %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if raw == nil {
		return &File{}, nil
	}

	if err := validateSchema(raw); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid configuration file %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to decode configuration file %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return &f, nil
}

func validateSchema(doc any) error {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("config.schema.json", schemaJSON)
	})
	if schemaErr != nil {
		return fmt.Errorf("failed to compile schema: %w", schemaErr)
	}

	// Round-trip through JSON so the validator sees plain JSON types.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert configuration: %w", err)
	}
	var jsonDoc any
	if err := json.Unmarshal(b, &jsonDoc); err != nil {
		return fmt.Errorf("failed to convert configuration: %w", err)
	}
	return schema.Validate(jsonDoc)
}
