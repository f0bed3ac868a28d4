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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🌱 Bootstrap makes sure a config file exists at path. When it does not, a
// template with placeholder values is written in the format the file name
// asks for and ErrTemplateCreated is returned, so the run stops until the
// values have been filled in.
func Bootstrap(ctx context.Context, path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Errorf("checking config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return errors.Errorf("%w: no parser found for file: %s", ErrInvalidConfig, path)
	}

	if err := WriteTemplate(path, p); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("wrote config template")
	return errors.Errorf("%w: %s, please change the values and try again", ErrTemplateCreated, path)
}

// 📄 WriteTemplate writes p's template to path. An existing file is never
// replaced.
func WriteTemplate(path string, p Parser) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Errorf("creating config template: %w", err)
	}
	if _, err := f.Write(p.Template()); err != nil {
		f.Close()
		return errors.Errorf("writing config template: %w", err)
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing config template: %w", err)
	}
	return nil
}
