package adapters

import (
	"bytes"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"project-upgrader/internal/ports"
	"project-upgrader/internal/types"
)

// ConfigFileAdapter reads an upgrade configuration from YAML. Unknown keys
// are rejected so typos do not silently fall back to defaults.
type ConfigFileAdapter struct{}

func NewConfigFileAdapter() ConfigFileAdapter {
	return ConfigFileAdapter{}
}

func (a ConfigFileAdapter) Load(path string) (types.Config, error) {
	if strings.TrimSpace(path) == "" {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("config file not found").
			WithCause(err)
	}
	var cfg types.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid config format").
			WithCause(err)
	}
	return cfg, nil
}

var _ ports.ConfigLoaderPort = ConfigFileAdapter{}
