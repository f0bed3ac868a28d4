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
	"strings"
	"unicode/utf8"
)

// DefaultMaxNameLength is the number of characters kept after normalization.
// Some filesystems in scope truncate long names, so only this prefix is compared.
const DefaultMaxNameLength = 89

// 🔤 Normalize trims surrounding whitespace, lowercases and truncates name to
// the first maxLen characters. A maxLen <= 0 disables truncation.
func Normalize(name string, maxLen int) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if maxLen <= 0 || utf8.RuneCountInString(name) <= maxLen {
		return name
	}
	runes := []rune(name)
	return string(runes[:maxLen])
}

// 🎯 TargetSet holds the normalized names that have not been resolved yet.
//
// Entries are removed the moment a match is consumed, so Len always equals the
// number of targets remaining. Insertion order is kept for reporting.
type TargetSet struct {
	maxLen  int
	order   []string
	pending map[string]struct{}
}

// 🏭 NewTargetSet creates an empty set that normalizes with maxLen
func NewTargetSet(maxLen int) *TargetSet {
	return &TargetSet{
		maxLen:  maxLen,
		pending: make(map[string]struct{}),
	}
}

// Add normalizes name and inserts it. It reports false for blank names and for
// names that collapse onto an existing entry.
func (s *TargetSet) Add(name string) bool {
	key := Normalize(name, s.maxLen)
	if key == "" {
		return false
	}
	if _, ok := s.pending[key]; ok {
		return false
	}
	s.pending[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

// Lookup normalizes a filesystem entry name and reports whether it is still
// an unresolved target. The returned key is what Resolve expects.
func (s *TargetSet) Lookup(filename string) (string, bool) {
	key := Normalize(filename, s.maxLen)
	_, ok := s.pending[key]
	return key, ok
}

// Resolve removes key from the set. It reports false if key was not pending.
func (s *TargetSet) Resolve(key string) bool {
	if _, ok := s.pending[key]; !ok {
		return false
	}
	delete(s.pending, key)
	return true
}

// Len returns the number of targets remaining.
func (s *TargetSet) Len() int {
	return len(s.pending)
}

// Initial returns the number of distinct targets the set was built with.
func (s *TargetSet) Initial() int {
	return len(s.order)
}

// Remaining returns the unresolved names in manifest order.
func (s *TargetSet) Remaining() []string {
	out := make([]string, 0, len(s.pending))
	for _, key := range s.order {
		if _, ok := s.pending[key]; ok {
			out = append(out, key)
		}
	}
	return out
}
