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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Keys read from a .env file. A non-empty variable already set in the process
// environment takes precedence over the file.
const (
	EnvManifest      = "CSV"
	EnvSearchRoot    = "SEARCH_ROOT"
	EnvOutput        = "OUTPUT"
	EnvDev           = "DEV"
	EnvLogFile       = "LOG_FILE"
	EnvReport        = "REPORT"
	EnvExclude       = "EXCLUDE"
	EnvDelimiter     = "DELIMITER"
	EnvMaxNameLength = "MAX_NAME_LENGTH"
)

// 🔧 EnvParser implements the Parser interface for dotenv files
type EnvParser struct{}

func init() {
	Register(&EnvParser{})
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *EnvParser) CanParse(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	return strings.HasSuffix(base, ".env")
}

// 📝 Parse parses the config from dotenv bytes
func (p *EnvParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	values, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, errors.Errorf("parsing dotenv: %w", err)
	}

	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			zerolog.Ctx(ctx).Debug().Str("key", key).Msg("using value from environment")
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(values[key])
	}

	cfg := &Config{
		Manifest:   get(EnvManifest),
		SearchRoot: get(EnvSearchRoot),
		Output:     get(EnvOutput),
		LogFile:    get(EnvLogFile),
		Report:     get(EnvReport),
		Delimiter:  get(EnvDelimiter),
	}

	if v := get(EnvDev); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Errorf("parsing %s: %w", EnvDev, err)
		}
		cfg.Dev = dev
	}

	if v := get(EnvMaxNameLength); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Errorf("parsing %s: %w", EnvMaxNameLength, err)
		}
		cfg.MaxNameLength = n
	}

	for _, pattern := range strings.Split(get(EnvExclude), ",") {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			cfg.Exclude = append(cfg.Exclude, pattern)
		}
	}

	return cfg, nil
}

// 📄 Template returns a dotenv config with placeholder values
func (p *EnvParser) Template() []byte {
	return []byte(EnvManifest + "=/path/to/manifest.csv\n" +
		EnvSearchRoot + "=/path/to/search/root\n" +
		EnvOutput + "=/path/to/output\n" +
		EnvDev + "=false\n")
}
