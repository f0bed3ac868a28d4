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
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/copyfind/pkg/log"
	"github.com/walteh/copyfind/pkg/manifest"
	"gitlab.com/tozd/go/errors"
)

// 📋 Copier copies a matched file into the output directory under name and
// returns the destination path
type Copier interface {
	Copy(ctx context.Context, src, name string) (string, error)
}

// 🔧 Options configures a search run
type Options struct {
	Root    string      // Directory to search
	Output  string      // Directory matches are copied into, never searched
	Exclude []string    // Doublestar patterns, relative to Root, that are not visited
	Copier  Copier      // Performs the copy for each match
	Logger  *log.Logger // Receives the run log stream
}

// 📄 Found is a matched file that was copied successfully
type Found struct {
	Name        string `json:"name" yaml:"name"`               // Original, non-normalized filename
	Source      string `json:"source" yaml:"source"`           // Path the file was found at
	Destination string `json:"destination" yaml:"destination"` // Path it was copied to
}

// 📊 Result is the found/not-found accounting of a run
type Result struct {
	Found     []Found  // Copied files in discovery order
	Total     int      // Distinct targets at the start of the run
	Remaining []string // Normalized names never resolved, in manifest order
}

// FoundCount returns the number of targets that were found and copied.
func (r *Result) FoundCount() int {
	return len(r.Found)
}

// NotFoundCount returns the number of targets left unresolved.
func (r *Result) NotFoundCount() int {
	return len(r.Remaining)
}

// 🔍 Search walks opts.Root depth-first and copies every file whose normalized
// name is still in targets. Each target is consumed by the first file that is
// copied for it.
//
// Unreadable directories, unstatable entries and failed copies are logged and
// skipped; once the walk has started it always runs to the final summary. An
// error is only returned for invalid options, before anything is visited.
func Search(ctx context.Context, opts Options, targets *manifest.TargetSet) (*Result, error) {
	w, err := newWalker(opts, targets)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("root", w.root).
		Str("output", w.output).
		Int("targets", targets.Len()).
		Msg("starting search")

	w.logger.Info("Search start...")
	w.walk(ctx, w.root)
	w.logger.Info("Search end...")

	w.result.Remaining = targets.Remaining()
	w.logger.NotFound(w.result.Remaining)
	w.logger.Finish(w.result.FoundCount(), w.result.Total)

	return w.result, nil
}

func newWalker(opts Options, targets *manifest.TargetSet) (*walker, error) {
	if targets == nil {
		return nil, errors.Errorf("target set is required")
	}
	if opts.Copier == nil {
		return nil, errors.Errorf("copier is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	if opts.Root == "" {
		return nil, errors.Errorf("search root is required")
	}
	if opts.Output == "" {
		return nil, errors.Errorf("output directory is required")
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Errorf("resolving search root: %w", err)
	}
	out, err := filepath.Abs(opts.Output)
	if err != nil {
		return nil, errors.Errorf("resolving output directory: %w", err)
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return &walker{
		root:    root,
		output:  out,
		exclude: opts.Exclude,
		copier:  opts.Copier,
		logger:  opts.Logger,
		targets: targets,
		result: &Result{
			Found: []Found{},
			Total: targets.Initial(),
		},
	}, nil
}
