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

package output

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrLocked is returned by Lock when another run holds the output directory.
var ErrLocked = errors.Base("output directory is in use by another run")

// LockPath returns the lock file used for the output directory at abs. It
// lives in the system temp directory so a read-only output can still be
// locked, and is keyed by the output path.
func LockPath(abs string) string {
	key := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs)))
	return filepath.Join(os.TempDir(), "copyfind-"+key.String()+".lock")
}

// 📁 Dir is the directory matched files are copied into
type Dir struct {
	path string
	lock *flock.Flock
}

// 🏭 Open returns the output directory at path. The path is made absolute and
// must name an existing directory.
func Open(path string) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving output path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Errorf("checking output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("output %s is not a directory", abs)
	}

	return &Dir{
		path: abs,
		lock: flock.New(LockPath(abs)),
	}, nil
}

// Path returns the absolute, cleaned output path.
func (d *Dir) Path() string {
	return d.path
}

// 🔒 Lock takes an exclusive lock on the output directory. It fails at once if
// another run already holds it.
func (d *Dir) Lock(ctx context.Context) error {
	locked, err := d.lock.TryLock()
	if err != nil {
		return errors.Errorf("locking output directory: %w", err)
	}
	if !locked {
		return errors.Errorf("%w: %s", ErrLocked, d.path)
	}
	zerolog.Ctx(ctx).Debug().Str("path", d.lock.Path()).Msg("acquired output lock")
	return nil
}

// 🔓 Unlock releases the lock and removes the lock file
func (d *Dir) Unlock(ctx context.Context) error {
	if !d.lock.Locked() {
		return nil
	}
	if err := d.lock.Unlock(); err != nil {
		return errors.Errorf("unlocking output directory: %w", err)
	}
	if err := os.Remove(d.lock.Path()); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("removing lock file: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", d.lock.Path()).Msg("released output lock")
	return nil
}

// 📋 Copy copies src into the output directory as name and returns the
// destination path. The content is written to a temp file first and renamed
// into place, so a failed copy never leaves a partial file under name. An
// existing file with the same name is replaced. Permission bits and the
// modification time of src are kept.
func (d *Dir) Copy(ctx context.Context, src, name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", errors.Errorf("invalid destination name %q", name)
	}
	dst := filepath.Join(d.path, name)

	source, err := os.Open(src)
	if err != nil {
		return "", errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return "", errors.Errorf("reading source info: %w", err)
	}

	// fixed-length temp name, name itself may already be at the length limit
	tmp, err := os.CreateTemp(d.path, ".copyfind-*.tmp")
	if err != nil {
		return "", errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := io.Copy(tmp, source); err != nil {
		return "", errors.Errorf("copying file content: %w", err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return "", errors.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chtimes(tmpName, info.ModTime(), info.ModTime()); err != nil {
		return "", errors.Errorf("setting file times: %w", err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return "", errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Int64("size", info.Size()).Msg("copied file")
	return dst, nil
}
