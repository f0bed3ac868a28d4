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

/*
Package config loads and validates the settings of a copyfind run.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	   +--------+------+-----+--------+
	   |        |            |        |
	+--+--+ +---+--+     +---+--+ +---+--+
	| env | | YAML |     | JSON | | HCL  |
	+-----+ +------+     +------+ +------+

🎯 Purpose:
- Picks a parser from the config file name
- Applies command line overrides
- Validates required values and fills in defaults
- Checks that the manifest, search root and output exist

🌱 First run:
When the config file is missing, Bootstrap writes a template with placeholder
values and returns ErrTemplateCreated. The run stops there; nothing is searched
with default values.

🔍 Example:

	if err := config.Bootstrap(ctx, ".env"); err != nil {
		return err
	}
	cfg, err := config.Load(ctx, ".env", config.Overrides{})
	if err != nil {
		return err
	}
	if err := cfg.CheckPaths(); err != nil {
		return err
	}
*/
package config
