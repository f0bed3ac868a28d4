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

package opts

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/copyfind/pkg/config"
	"github.com/walteh/copyfind/pkg/log"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultConfigFile is read when --config is not given.
const DefaultConfigFile = ".env"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Overrides  config.Overrides
	Stdout     io.Writer
}

// Out returns the console writer, stdout unless set.
func (o *RootOpts) Out() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

// LogFileFor returns the log file used when no configuration could be read:
// DefaultLogFile next to the config file.
func (o *RootOpts) LogFileFor() string {
	return filepath.Join(filepath.Dir(o.ConfigFile), config.DefaultLogFile)
}

// 📋 Run is the logging state of a single run
type Run struct {
	ID   string
	file *lumberjack.Logger
}

// Close flushes and closes the run log file.
func (r *Run) Close() error {
	return r.file.Close()
}

// 🪵 StartRun opens the rotated log file named by cfg and returns a context
// carrying a logger for the run, see log.FromContext. Debug output is enabled
// by cfg.Dev.
func (o *RootOpts) StartRun(ctx context.Context, cfg *config.Config) (context.Context, *Run, error) {
	if dir := filepath.Dir(cfg.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ctx, nil, errors.Errorf("creating log directory: %w", err)
		}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 5,
	}

	level := zerolog.InfoLevel
	if cfg.Dev {
		level = zerolog.DebugLevel
	}

	id := uuid.New().String()
	zlog := zerolog.New(log.NewFileWriter(file)).
		Level(level).
		With().
		Timestamp().
		Str("run", id).
		Logger()

	logger := log.New(o.Out(), zlog)
	return log.NewContext(ctx, logger), &Run{ID: id, file: file}, nil
}
