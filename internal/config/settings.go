package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is looked up in the working directory when no explicit
// settings path is given.
const DefaultSettingsFile = "contextia.yaml"

// Settings are the file-based defaults that environment variables override
type Settings struct {
	DataDir      string `yaml:"data_dir"`
	ContactEmail string `yaml:"contact_email"`
	ContactFrom  string `yaml:"contact_from"`
	Links        Links  `yaml:"links"`
}

// LoadSettings reads the YAML settings file. An explicit path must exist; the
// default file is optional.
func LoadSettings(path string) (Settings, error) {
	var settings Settings

	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings writes settings as YAML to path
func SaveSettings(path string, settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
