// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config holds the project-local configuration consumed by the
// supastate commands. The configuration is loaded once per invocation
// and passed by parameter; there is no ambient global state.
package config

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"gopkg.in/yaml.v2"
)

// DefaultPath is the project-local configuration file name.
const DefaultPath = "supastate.yaml"

const (
	defaultStateFile     = ".supastate/state.sql"
	defaultContainerName = "supabase_db_app"
)

// Config is the per-project configuration. It is immutable for the
// duration of a command.
type Config struct {
	// StateFile is the path the database snapshot is written to on
	// stop and read from on start.
	StateFile string `yaml:"state-file"`

	// ContainerName identifies the database container of the local
	// stack.
	ContainerName string `yaml:"container-name"`

	// Services lists auxiliary services managed by scaffolding
	// commands. The snapshot engine never reads it.
	Services []string `yaml:"services,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		StateFile:     defaultStateFile,
		ContainerName: defaultContainerName,
	}
}

// Load reads the configuration at path. A missing file is not an
// error; the defaults apply. Fields absent from the file also fall
// back to their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Trace(err)
	}
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Annotatef(err, "parsing %q", path)
	}
	if cfg.StateFile == "" {
		cfg.StateFile = defaultStateFile
	}
	if cfg.ContainerName == "" {
		cfg.ContainerName = defaultContainerName
	}
	return cfg, nil
}

// Write serialises the configuration to path, creating parent
// directories as needed.
func (c Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Trace(err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(os.WriteFile(path, data, 0644))
}

// BackupFile is the path the previous snapshot is rotated to when a
// new one is saved.
func (c Config) BackupFile() string {
	return c.StateFile + ".backup"
}
