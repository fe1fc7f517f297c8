package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the prismatic.yaml configuration file. Flags
// override file values; file values override defaults.
type Config struct {
	// Schema is the path to the schema file.
	Schema string `yaml:"schema,omitempty"`

	Docs     DocsConfig     `yaml:"docs,omitempty"`
	Generate GenerateConfig `yaml:"generate,omitempty"`
}

// DocsConfig holds the Markdown renderer settings.
type DocsConfig struct {
	Out    string `yaml:"out,omitempty"`
	Title  string `yaml:"title,omitempty"`
	Pinned string `yaml:"pinned,omitempty"`
}

// GenerateConfig holds the code generator settings.
type GenerateConfig struct {
	Out     string `yaml:"out,omitempty"`
	Package string `yaml:"package,omitempty"`
}

// loadConfig reads the config file at path, or prismatic.yaml in the
// working directory when path is empty. A missing default file is not
// an error; an explicitly named missing file is.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = "prismatic.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
