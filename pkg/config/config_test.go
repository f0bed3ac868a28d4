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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		EnvManifest, EnvSearchRoot, EnvOutput, EnvDev, EnvLogFile,
		EnvReport, EnvExclude, EnvDelimiter, EnvMaxNameLength,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name        string
		filename    string
		config      string
		overrides   Overrides
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "dotenv_config",
			filename: ".env",
			config: `CSV= /data/MOCK_DATA.csv
SEARCH_ROOT= /data/many_files_inside
OUTPUT= /data/files
DEV= true
EXCLUDE=**/node_modules, **/.git
MAX_NAME_LENGTH=64
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/MOCK_DATA.csv", cfg.Manifest, "manifest should match")
				assert.Equal(t, "/data/many_files_inside", cfg.SearchRoot, "search root should match")
				assert.Equal(t, "/data/files", cfg.Output, "output should match")
				assert.True(t, cfg.Dev, "dev should be true")
				assert.Equal(t, []string{"**/node_modules", "**/.git"}, cfg.Exclude, "exclude should be split")
				assert.Equal(t, 64, cfg.MaxNameLength, "max name length should match")
				assert.Equal(t, DefaultLogFile, cfg.LogFile, "log file should have default value")
				assert.Equal(t, ',', cfg.DelimiterRune(), "delimiter should have default value")
			},
		},
		{
			name:     "yaml_config",
			filename: "copyfind.yaml",
			config: `
manifest: /data/targets.csv
search_root: /data/root
output: /data/out
log_file: /var/log/copyfind.log
report: /data/report.json
delimiter: ";"
exclude:
  - "**/*.tmp"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/targets.csv", cfg.Manifest)
				assert.Equal(t, "/var/log/copyfind.log", cfg.LogFile)
				assert.Equal(t, "/data/report.json", cfg.Report)
				assert.Equal(t, ';', cfg.DelimiterRune())
				assert.Equal(t, []string{"**/*.tmp"}, cfg.Exclude)
				assert.Equal(t, DefaultMaxNameLength, cfg.MaxNameLength, "max name length should have default value")
				assert.False(t, cfg.Dev)
			},
		},
		{
			name:     "json_config",
			filename: "copyfind.json",
			config:   `{"manifest": "/data/targets.csv", "search_root": "/data/root", "output": "/data/out/", "dev": true}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/out", cfg.Output, "path should be cleaned")
				assert.True(t, cfg.Dev)
			},
		},
		{
			name:     "hcl_config",
			filename: "copyfind.hcl",
			config: `
manifest    = "/data/targets.csv"
search_root = "/data/root"
output      = "/data/out"
exclude     = ["**/.git"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/root", cfg.SearchRoot)
				assert.Equal(t, []string{"**/.git"}, cfg.Exclude)
			},
		},
		{
			name:     "overrides_win",
			filename: ".env",
			config:   "CSV=/data/a.csv\nSEARCH_ROOT=/data/root\n",
			overrides: Overrides{
				Output: "/flag/out",
				Dev:    true,
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/a.csv", cfg.Manifest)
				assert.Equal(t, "/flag/out", cfg.Output, "override should fill missing value")
				assert.True(t, cfg.Dev)
			},
		},
		{
			name:        "missing_output",
			filename:    ".env",
			config:      "CSV=/data/a.csv\nSEARCH_ROOT=/data/root\n",
			wantErr:     true,
			errContains: "output is required",
		},
		{
			name:        "unknown_yaml_field",
			filename:    "copyfind.yml",
			config:      "manifest: a.csv\nsearch_root: r\noutput: o\nunknown: true\n",
			wantErr:     true,
			errContains: "field unknown not found",
		},
		{
			name:        "invalid_dev_flag",
			filename:    ".env",
			config:      "CSV=a.csv\nSEARCH_ROOT=r\nOUTPUT=o\nDEV=maybe\n",
			wantErr:     true,
			errContains: "parsing DEV",
		},
		{
			name:        "multi_character_delimiter",
			filename:    "copyfind.json",
			config:      `{"manifest": "a.csv", "search_root": "r", "output": "o", "delimiter": "::"}`,
			wantErr:     true,
			errContains: "delimiter must be a single character",
		},
		{
			name:        "unsupported_extension",
			filename:    "copyfind.toml",
			config:      "",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644))

			cfg, err := Load(ctx, path, tt.overrides)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				assert.True(t, errors.Is(err, ErrInvalidConfig), "error should be a configuration error")
				return
			}

			require.NoError(t, err, "Load should succeed")
			tt.check(t, cfg)
		})
	}
}

func TestLoadKeepsParserError(t *testing.T) {
	clearEnv(t)

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CSV=a.csv\nSEARCH_ROOT=r\nOUTPUT=o\nMAX_NAME_LENGTH=long\n"), 0644))

	_, err := Load(ctx, path, Overrides{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig), "error should be a configuration error")
	assert.True(t, errors.Is(err, strconv.ErrSyntax), "parser error should stay in the chain")

	var numErr *strconv.NumError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, "long", numErr.Num)
}

func TestEnvParserCanParse(t *testing.T) {
	p := &EnvParser{}
	assert.True(t, p.CanParse(".env"))
	assert.True(t, p.CanParse("/etc/copyfind/prod.env"))
	assert.True(t, p.CanParse("CONFIG.ENV"))
	assert.False(t, p.CanParse("copyfind.yaml"))
	assert.False(t, p.CanParse("env"))
}

func TestLoadEnvironmentPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOutput, "/from/environment")

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CSV=a.csv\nSEARCH_ROOT=r\nOUTPUT=/from/file\n"), 0644))

	cfg, err := Load(ctx, path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "/from/environment", cfg.Output)
}

func TestCheckPaths(t *testing.T) {
	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "targets.csv")
	require.NoError(t, os.WriteFile(manifestPath, []byte("a.txt\n"), 0644))
	root := filepath.Join(tmpDir, "root")
	out := filepath.Join(tmpDir, "out")
	require.NoError(t, os.Mkdir(root, 0755))
	require.NoError(t, os.Mkdir(out, 0755))

	tests := []struct {
		name        string
		cfg         Config
		errContains string
	}{
		{
			name: "all_paths_exist",
			cfg:  Config{Manifest: manifestPath, SearchRoot: root, Output: out},
		},
		{
			name:        "missing_manifest",
			cfg:         Config{Manifest: filepath.Join(tmpDir, "nope.csv"), SearchRoot: root, Output: out},
			errContains: "manifest",
		},
		{
			name:        "manifest_is_directory",
			cfg:         Config{Manifest: root, SearchRoot: root, Output: out},
			errContains: "manifest",
		},
		{
			name:        "missing_search_root",
			cfg:         Config{Manifest: manifestPath, SearchRoot: filepath.Join(tmpDir, "nope"), Output: out},
			errContains: "invalid search root",
		},
		{
			name:        "output_is_file",
			cfg:         Config{Manifest: manifestPath, SearchRoot: root, Output: manifestPath},
			errContains: "invalid output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.CheckPaths()
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestBootstrap(t *testing.T) {
	clearEnv(t)
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, filename := range []string{".env", "copyfind.yaml", "copyfind.json", "copyfind.hcl"} {
		t.Run(filename, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), filename)

			err := Bootstrap(ctx, path)
			require.Error(t, err, "first run should stop")
			assert.True(t, errors.Is(err, ErrTemplateCreated))

			// the template parses, but its placeholder paths do not exist
			cfg, err := Load(ctx, path, Overrides{})
			require.NoError(t, err, "template should be loadable")
			assert.Equal(t, filepath.Clean("/path/to/manifest.csv"), cfg.Manifest)
			assert.Error(t, cfg.CheckPaths())

			require.NoError(t, Bootstrap(ctx, path), "existing config should be left alone")
		})
	}
}

func TestWriteTemplateKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CSV=mine.csv\n"), 0644))

	err := WriteTemplate(path, &EnvParser{})
	require.Error(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CSV=mine.csv\n", string(content))
}
