// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sprunk

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"

	"gopkg.in/src-d/go-sprunk.v0/query/lexer"
)

var (
	// ErrInvalidRecovery is returned when the config names an unknown
	// recovery mode.
	ErrInvalidRecovery = errors.NewKind("invalid config: %s")

	// ErrInvalidLogLevel is returned when the config names an unknown log
	// level.
	ErrInvalidLogLevel = errors.NewKind("invalid config: unknown log level %q")
)

const (
	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"
	// DefaultSavedSearches is the default path of the saved searches file.
	DefaultSavedSearches = "searches.db"
)

// Config holds the engine settings read from a YAML file.
type Config struct {
	// Recovery is the lexer recovery mode, "stop" or "skip".
	Recovery string `yaml:"recovery"`
	// LogLevel is one of the logrus level names.
	LogLevel string `yaml:"log_level"`
	// SavedSearches is the path of the saved searches database.
	SavedSearches string `yaml:"saved_searches"`
}

// NewConfig returns a config with the default settings.
func NewConfig() *Config {
	return &Config{
		Recovery:      lexer.Stop.String(),
		LogLevel:      DefaultLogLevel,
		SavedSearches: DefaultSavedSearches,
	}
}

// RecoveryMode returns the lexer recovery mode of the config.
func (c *Config) RecoveryMode() (lexer.Recovery, error) {
	r, err := lexer.ParseRecovery(c.Recovery)
	if err != nil {
		return lexer.Stop, ErrInvalidRecovery.Wrap(err, err)
	}
	return r, nil
}

// Validate checks every setting of the config.
func (c *Config) Validate() error {
	if _, err := c.RecoveryMode(); err != nil {
		return err
	}
	_, err := parseLogLevel(c.LogLevel)
	return err
}

// ReadConfigFile reads a config from the YAML file at path. Settings missing
// from the file keep their default values.
func ReadConfigFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriteConfigFile writes the config as YAML to path, creating its directory
// if needed.
func WriteConfigFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(path, data, 0640)
}
