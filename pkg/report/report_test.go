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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/copyfind/pkg/search"
	"gopkg.in/yaml.v3"
)

func testReport() *Report {
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return New("run-1", started, started.Add(2*time.Second), "/data/root", "/data/out", &search.Result{
		Found: []search.Found{
			{Name: "A.txt", Source: "/data/root/sub/A.txt", Destination: "/data/out/A.txt"},
		},
		Total:     2,
		Remaining: []string{"b.txt"},
	})
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, testReport().Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got["run_id"])
	assert.EqualValues(t, 2, got["total"])
	assert.Equal(t, []any{"b.txt"}, got["not_found"])

	found := got["found"].([]any)
	require.Len(t, found, 1)
	assert.Equal(t, "/data/root/sub/A.txt", found[0].(map[string]any)["source"])
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, testReport().Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		Found []struct {
			Name        string `yaml:"name"`
			Destination string `yaml:"destination"`
		} `yaml:"found"`
		NotFound []string `yaml:"not_found"`
	}
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Len(t, got.Found, 1)
	assert.Equal(t, "A.txt", got.Found[0].Name)
	assert.Equal(t, "/data/out/A.txt", got.Found[0].Destination)
	assert.Equal(t, []string{"b.txt"}, got.NotFound)
}

func TestWriteEmptyNotFound(t *testing.T) {
	r := New("run-2", time.Now(), time.Now(), "/r", "/o", &search.Result{Total: 0})
	assert.NotNil(t, r.NotFound, "not_found should encode as an empty list")

	err := r.Write(filepath.Join(t.TempDir(), "report.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report extension")
}
