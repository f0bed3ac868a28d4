// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultLogFile       = "output.log"
	DefaultDelimiter     = ","
	DefaultMaxNameLength = 89
)

var (
	// ErrInvalidConfig marks configuration problems that abort a run before
	// anything is searched.
	ErrInvalidConfig = errors.Base("invalid configuration")

	// ErrTemplateCreated is returned by Bootstrap after it wrote a template
	// that has to be edited before the next run.
	ErrTemplateCreated = errors.Base("config template created")
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool

	// 📄 Template returns a config with placeholder values in this format
	Template() []byte
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config is the settings of a single run. It is built once at startup and
// handed to the manifest reader and the search as a parameter.
type Config struct {
	Manifest      string   `json:"manifest" yaml:"manifest" hcl:"manifest,optional"`
	SearchRoot    string   `json:"search_root" yaml:"search_root" hcl:"search_root,optional"`
	Output        string   `json:"output" yaml:"output" hcl:"output,optional"`
	Dev           bool     `json:"dev,omitempty" yaml:"dev,omitempty" hcl:"dev,optional"`
	LogFile       string   `json:"log_file,omitempty" yaml:"log_file,omitempty" hcl:"log_file,optional"`
	Report        string   `json:"report,omitempty" yaml:"report,omitempty" hcl:"report,optional"`
	Exclude       []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Delimiter     string   `json:"delimiter,omitempty" yaml:"delimiter,omitempty" hcl:"delimiter,optional"`
	MaxNameLength int      `json:"max_name_length,omitempty" yaml:"max_name_length,omitempty" hcl:"max_name_length,optional"`
}

// 🔧 Overrides replace loaded values when set, e.g. from command line flags
type Overrides struct {
	Manifest   string
	SearchRoot string
	Output     string
	Dev        bool
}

func (o Overrides) apply(cfg *Config) {
	if o.Manifest != "" {
		cfg.Manifest = o.Manifest
	}
	if o.SearchRoot != "" {
		cfg.SearchRoot = o.SearchRoot
	}
	if o.Output != "" {
		cfg.Output = o.Output
	}
	if o.Dev {
		cfg.Dev = true
	}
}

// 🎯 Load reads the configuration at path, applies overrides and validates it.
// The format is picked from the file name.
func Load(ctx context.Context, path string, overrides Overrides) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%w: no parser found for file: %s", ErrInvalidConfig, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("%w: parsing %s: %w", ErrInvalidConfig, path, err)
	}

	overrides.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks required fields, fills in defaults and cleans paths
func (cfg *Config) Validate() error {
	cfg.Manifest = strings.TrimSpace(cfg.Manifest)
	cfg.SearchRoot = strings.TrimSpace(cfg.SearchRoot)
	cfg.Output = strings.TrimSpace(cfg.Output)

	// Check required fields
	if cfg.Manifest == "" {
		return errors.Errorf("%w: manifest is required", ErrInvalidConfig)
	}
	if cfg.SearchRoot == "" {
		return errors.Errorf("%w: search root is required", ErrInvalidConfig)
	}
	if cfg.Output == "" {
		return errors.Errorf("%w: output is required", ErrInvalidConfig)
	}
	if cfg.MaxNameLength < 0 {
		return errors.Errorf("%w: max name length must not be negative", ErrInvalidConfig)
	}

	// Set defaults
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = DefaultDelimiter
	}
	if cfg.MaxNameLength == 0 {
		cfg.MaxNameLength = DefaultMaxNameLength
	}
	if utf8.RuneCountInString(cfg.Delimiter) != 1 {
		return errors.Errorf("%w: delimiter must be a single character, got %q", ErrInvalidConfig, cfg.Delimiter)
	}

	// Clean up paths
	cfg.Manifest = filepath.Clean(cfg.Manifest)
	cfg.SearchRoot = filepath.Clean(cfg.SearchRoot)
	cfg.Output = filepath.Clean(cfg.Output)
	cfg.LogFile = filepath.Clean(cfg.LogFile)
	if cfg.Report != "" {
		cfg.Report = filepath.Clean(cfg.Report)
	}

	return nil
}

// 📂 CheckPaths verifies that the manifest is an existing file and that the
// search root and output are existing directories
func (cfg *Config) CheckPaths() error {
	if info, err := os.Stat(cfg.Manifest); err != nil || info.IsDir() {
		return errors.Errorf("%w: manifest %s not found, make sure the config has the proper path", ErrInvalidConfig, cfg.Manifest)
	}
	if info, err := os.Stat(cfg.SearchRoot); err != nil || !info.IsDir() {
		return errors.Errorf("%w: invalid search root %s, make sure the config has the proper path", ErrInvalidConfig, cfg.SearchRoot)
	}
	if info, err := os.Stat(cfg.Output); err != nil || !info.IsDir() {
		return errors.Errorf("%w: invalid output %s, make sure the config has the proper path", ErrInvalidConfig, cfg.Output)
	}
	return nil
}

// DelimiterRune returns the manifest delimiter as a rune.
func (cfg *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(cfg.Delimiter)
	return r
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s: %s -> %s", cfg.Manifest, cfg.SearchRoot, cfg.Output)
}
