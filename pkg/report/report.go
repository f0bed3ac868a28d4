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

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/walteh/copyfind/pkg/search"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📊 Report is the machine-readable summary of a run
type Report struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	SearchRoot string         `json:"search_root" yaml:"search_root"`
	Output     string         `json:"output" yaml:"output"`
	Total      int            `json:"total" yaml:"total"`
	Found      []search.Found `json:"found" yaml:"found"`
	NotFound   []string       `json:"not_found" yaml:"not_found"`
}

// 🏭 New builds a report from a search result
func New(runID string, started, finished time.Time, root, output string, result *search.Result) *Report {
	notFound := result.Remaining
	if notFound == nil {
		notFound = []string{}
	}
	return &Report{
		RunID:      runID,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		SearchRoot: root,
		Output:     output,
		Total:      result.Total,
		Found:      result.Found,
		NotFound:   notFound,
	}
}

// 💾 Write encodes the report as YAML or JSON, depending on the extension of
// path, and writes it to path
func (r *Report) Write(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(r)
	default:
		return errors.Errorf("unsupported report extension %q", filepath.Ext(path))
	}
	if err != nil {
		return errors.Errorf("encoding report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Errorf("writing report: %w", err)
	}
	return nil
}
