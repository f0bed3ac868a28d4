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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// FileTimeFormat is the timestamp layout used in the run log file.
const FileTimeFormat = "2006-01-02 15:04:05.000"

// 🎯 Logger writes the run log stream: a colored console line for the user and
// a zerolog event for the log file.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger. Events are written to zlog at zlog's level;
// debug lines are only echoed to the console when zlog is at debug or lower.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📄 NewFileWriter wraps w in a plain-text zerolog writer for the run log file
func NewFileWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: FileTimeFormat,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context. The underlying zerolog logger is
// attached too, so zerolog.Ctx(ctx) writes to the same sink.
func NewContext(ctx context.Context, l *Logger) context.Context {
	ctx = l.zlog.WithContext(ctx)
	return context.WithValue(ctx, contextKey{}, l)
}

// Zerolog returns the structured logger behind l. Events written to it go to
// the log file only.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

func (l *Logger) println(symbol string, c *color.Color, msg string) {
	fmt.Fprintf(l.console, "%s %s\n", symbol, c.Sprint(msg))
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("copyfind")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Debug logs a message that is only shown in dev mode
func (l *Logger) Debug(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.zlog.GetLevel() > zerolog.DebugLevel {
		return
	}
	l.println("·", color.New(color.Faint), msg)
	l.zlog.Debug().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.println("ℹ️ ", color.New(color.FgCyan), msg)
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.println("✅", color.New(color.FgGreen), msg)
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.println("⚠️ ", color.New(color.FgYellow), msg)
	l.zlog.Warn().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 🎯 Match logs a successful copy as "(n/total) - "name". Dir - "source""
func (l *Logger) Match(found, total int, name, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf("(%d/%d) - \"%s\". Dir - \"%s\"", found, total, name, source)
	l.println("✓", color.New(color.FgGreen), msg)
	l.zlog.Info().
		Int("found", found).
		Int("total", total).
		Str("name", name).
		Str("source", source).
		Msg(msg)
}

// ⏭️ Skipped logs a path the walk could not read
func (l *Logger) Skipped(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := "Skipping - " + path
	l.println("⚠️ ", color.New(color.FgYellow), msg)
	l.zlog.Warn().Err(err).Str("path", path).Msg(msg)
}

// ❌ CopyFailed logs a match whose copy did not happen
func (l *Logger) CopyFailed(name, source string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf("Copy failed - %s - %s", name, source)
	l.println("❌", color.New(color.FgRed), msg)
	l.zlog.Error().Err(err).Str("name", name).Str("source", source).Msg(msg)
}

// 🔍 NotFound logs the names that were never resolved. Nothing is logged for
// an empty list.
func (l *Logger) NotFound(names []string) {
	if len(names) == 0 {
		return
	}
	l.Warningf("Not found (%d) - \"%s\"", len(names), strings.Join(names, "\", \""))
}

// 🏁 Finish logs the final summary line
func (l *Logger) Finish(found, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf("FINISH - %d/%d", found, total)
	l.println("🏁", color.New(color.Bold), msg)
	l.zlog.Info().Int("found", found).Int("total", total).Msg(msg)
}
