package mapping

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configurations for several content types, eg as loaded from a single file.
type ConfigSet []Config

// Finds the configuration for an entity type and bundle. If several match, the last one wins.
func (s ConfigSet) Lookup(typeID, bundle string) (Config, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].TargetEntityTypeID == typeID && s[i].TargetBundle == bundle {
			return s[i], true
		}
	}
	return Config{}, false
}

// Finds the configuration which applies to the entity's content type.
func (s ConfigSet) For(ent Entity) (Config, bool) {
	if ent == nil {
		return Config{}, false
	}
	return s.Lookup(ent.Ref().TypeID, ent.Bundle())
}

type configFile struct {
	Types []Config `yaml:"types"`
}

// Reads mapping configuration from a YAML file. See [ParseConfig] for the format.
func LoadConfig(path string) (ConfigSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping config: %w", err)
	}
	set, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parses YAML mapping configuration. The document is either a single configuration, or has a top-level "types" list of configurations. Unset target entity type and bundle fall back to the defaults.
func ParseConfig(data []byte) (ConfigSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidConfig)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(file.Types) > 0 {
		set := make(ConfigSet, 0, len(file.Types))
		for _, c := range file.Types {
			set = append(set, c.withDefaults())
		}
		return set, nil
	}

	var single Config
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return ConfigSet{single.withDefaults()}, nil
}

func (c Config) withDefaults() Config {
	if c.TargetEntityTypeID == "" {
		c.TargetEntityTypeID = DefaultEntityTypeID
	}
	if c.TargetBundle == "" {
		c.TargetBundle = DefaultBundle
	}
	if c.FieldMapping == nil {
		c.FieldMapping = []PropertyMapping{}
	}
	return c
}
