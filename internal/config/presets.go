package config

import (
	"fmt"
	"os"

	"battle-features/internal/features"

	"gopkg.in/yaml.v3"
)

// presetFile is the YAML layout of a presets file:
//
//	presets:
//	  - name: strict
//	    base: default
//	    low_hp_threshold: 0.1
//	    status:
//	      statuses: [nostatus, slp]
type presetFile struct {
	Presets []yaml.Node `yaml:"presets"`
}

type presetHeader struct {
	Name string `yaml:"name"`
	Base string `yaml:"base"`
}

// LoadPresetFile parses preset definitions. Each entry starts from its base
// preset (default when omitted) and overrides only the keys it sets.
func LoadPresetFile(path string) ([]features.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	configs := make([]features.Config, 0, len(file.Presets))
	for i := range file.Presets {
		node := &file.Presets[i]

		var head presetHeader
		if err := node.Decode(&head); err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		if head.Name == "" {
			return nil, fmt.Errorf("preset %d: missing name", i)
		}
		if head.Base == "" {
			head.Base = features.DefaultPreset
		}

		cfg, err := features.Preset(head.Base)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", head.Name, err)
		}
		if err := node.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("preset %s: %w", head.Name, err)
		}
		cfg.Name = head.Name

		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// RegisterPresetFile loads a presets file and makes its presets available by name
func RegisterPresetFile(path string) ([]string, error) {
	configs, err := LoadPresetFile(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		if err := features.Register(cfg); err != nil {
			return nil, err
		}
		names = append(names, cfg.Name)
	}
	return names, nil
}

// ResolvePreset returns the named preset with the settings' threshold applied
func (s *Settings) ResolvePreset(name string) (features.Config, error) {
	if name == "" {
		name = s.Preset
	}
	cfg, err := features.Preset(name)
	if err != nil {
		return features.Config{}, err
	}
	if s.LowHPThreshold > 0 {
		cfg.LowHPThreshold = s.LowHPThreshold
	}
	return cfg, nil
}
