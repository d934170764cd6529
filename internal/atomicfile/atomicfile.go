// seehuhn.de/go/vtt - carry VTT hinting across font revisions
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package atomicfile replaces files so that readers never see a partially
// written file.
package atomicfile

import (
	"io"
	"os"
	"path/filepath"
)

// Write calls write to produce the new contents of fname.  The data goes
// to a temporary file in the same directory, which is renamed to fname
// once write has succeeded.  If an error occurs, an existing file fname is
// left unchanged.  The permissions of an existing file are kept.
func Write(fname string, write func(io.Writer) error) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(fname); err == nil {
		perm = fi.Mode().Perm()
	}

	fd, err := os.CreateTemp(filepath.Dir(fname), "."+filepath.Base(fname)+".*")
	if err != nil {
		return err
	}
	tmpName := fd.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	err = write(fd)
	if err == nil {
		err = fd.Chmod(perm)
	}
	if err == nil {
		err = fd.Sync()
	}
	if err2 := fd.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return err
	}
	return os.Rename(tmpName, fname)
}
