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

package search

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/copyfind/pkg/log"
	"github.com/walteh/copyfind/pkg/manifest"
)

// walker carries the mutable state of one search through the recursion. It is
// only ever touched from the single walking call stack.
type walker struct {
	root    string
	output  string
	exclude []string
	copier  Copier
	logger  *log.Logger
	targets *manifest.TargetSet
	result  *Result
}

type entryKind int

const (
	kindOther entryKind = iota
	kindFile
	kindDir
)

// listing is the outcome of reading a directory: its entries, or the reason
// the directory is skipped.
type listing struct {
	entries []os.DirEntry
	skip    error
}

// probe is the outcome of classifying a single entry.
type probe struct {
	kind entryKind
	skip error
}

func list(dir string) listing {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return listing{skip: err}
	}
	return listing{entries: entries}
}

// classify follows symlinks, so a link to a directory is descended into.
func classify(path string) probe {
	info, err := os.Stat(path)
	if err != nil {
		return probe{skip: err}
	}
	switch {
	case info.IsDir():
		return probe{kind: kindDir}
	case info.Mode().IsRegular():
		return probe{kind: kindFile}
	default:
		return probe{kind: kindOther}
	}
}

func (w *walker) walk(ctx context.Context, dir string) {
	if filepath.Clean(dir) == w.output {
		zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("not descending into output directory")
		return
	}
	if w.targets.Len() == 0 {
		return
	}

	w.logger.Debug(dir)

	l := list(dir)
	if l.skip != nil {
		w.logger.Skipped(dir, l.skip)
		return
	}

	for _, entry := range l.entries {
		if w.targets.Len() == 0 {
			return
		}

		path := filepath.Join(dir, entry.Name())
		if w.excluded(ctx, path) {
			continue
		}

		p := classify(path)
		switch {
		case p.skip != nil:
			w.logger.Skipped(path, p.skip)
		case p.kind == kindDir:
			w.walk(ctx, path)
		case p.kind == kindFile:
			w.match(ctx, path, entry.Name())
		default:
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("ignoring non-regular file")
		}
	}
}

func (w *walker) match(ctx context.Context, path, name string) {
	key, ok := w.targets.Lookup(name)
	if !ok {
		return
	}

	dst, err := w.copier.Copy(ctx, path, name)
	if err != nil {
		// the target stays pending so it is reported as not found
		w.logger.CopyFailed(name, path, err)
		return
	}

	w.targets.Resolve(key)
	w.result.Found = append(w.result.Found, Found{
		Name:        name,
		Source:      path,
		Destination: dst,
	})
	w.logger.Match(w.result.FoundCount(), w.result.Total, name, path)
}

func (w *walker) excluded(ctx context.Context, path string) bool {
	if len(w.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			zerolog.Ctx(ctx).Debug().Str("path", rel).Str("pattern", pattern).Msg("excluded by pattern")
			return true
		}
	}
	return false
}
