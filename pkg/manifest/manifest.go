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

package manifest

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const byteOrderMark = "\ufeff"

// 🔧 ReadOptions controls how a manifest is parsed
type ReadOptions struct {
	Delimiter     rune // Field delimiter, defaults to ','
	MaxNameLength int  // Normalization length, defaults to DefaultMaxNameLength
}

// 📊 Stats describes what a manifest read consumed
type Stats struct {
	Records    int // Records read from the source
	Skipped    int // Records without a usable first field
	Duplicates int // Records that collapsed onto an earlier name
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.MaxNameLength == 0 {
		o.MaxNameLength = DefaultMaxNameLength
	}
	return o
}

// 📂 Load opens the manifest at path and reads it fully
func Load(ctx context.Context, path string, opts ReadOptions) (*TargetSet, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, errors.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	set, stats, err := Read(ctx, f, opts)
	if err != nil {
		return nil, stats, errors.Errorf("reading manifest %s: %w", path, err)
	}
	return set, stats, nil
}

// 📝 Read consumes r completely and builds a TargetSet from the first field
// of every record. The set is only returned once the whole source is read.
//
// Records with a missing or blank first field are skipped and counted. A
// syntax error the lenient reader cannot get past fails the read.
func Read(ctx context.Context, r io.Reader, opts ReadOptions) (*TargetSet, Stats, error) {
	logger := zerolog.Ctx(ctx)
	opts = opts.withDefaults()

	if !validDelimiter(opts.Delimiter) {
		return nil, Stats{}, errors.Errorf("invalid delimiter %q", opts.Delimiter)
	}

	reader := csv.NewReader(stripBOM(r))
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	set := NewTargetSet(opts.MaxNameLength)
	var stats Stats
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, errors.Errorf("parsing record %d: %w", stats.Records+1, err)
		}
		stats.Records++

		line, _ := reader.FieldPos(0)
		if len(record) == 0 || Normalize(record[0], opts.MaxNameLength) == "" {
			stats.Skipped++
			logger.Debug().Int("line", line).Msg("skipping manifest record without a name")
			continue
		}

		if !set.Add(record[0]) {
			stats.Duplicates++
			logger.Debug().Int("line", line).Str("name", record[0]).Msg("duplicate manifest name")
		}
	}

	logger.Debug().
		Int("records", stats.Records).
		Int("targets", set.Initial()).
		Int("skipped", stats.Skipped).
		Int("duplicates", stats.Duplicates).
		Msg("manifest loaded")

	return set, stats, nil
}

func validDelimiter(r rune) bool {
	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r)
}

// stripBOM drops a leading UTF-8 byte-order mark so it never becomes part of
// the first name.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(byteOrderMark))
	if err == nil && string(head) == byteOrderMark {
		_, _ = br.Discard(len(byteOrderMark))
	}
	return br
}
