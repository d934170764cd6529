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

package vtt

import (
	"errors"
	"fmt"
)

// ErrInconsistent is returned by Updater.Write after an update has failed
// part way through.  The target font may have been partially modified and
// must not be saved.
var ErrInconsistent = errors.New("vtt: target font left inconsistent by a failed update")

// LookupError indicates a reference which cannot be resolved in the target
// font, for example a composite glyph component which is missing from the
// target glyph order.
type LookupError struct {
	// Glyph is the glyph whose data holds the reference.
	Glyph string

	// Ref describes the reference.
	Ref string

	Err error
}

func (err *LookupError) Error() string {
	msg := fmt.Sprintf("vtt: glyph %q: cannot resolve %s", err.Glyph, err.Ref)
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *LookupError) Unwrap() error {
	return err.Err
}

// AlignmentError indicates that the number of OFFSET commands in an
// assembly listing differs from the number of components of the target
// glyph.
type AlignmentError struct {
	Glyph      string // source glyph name
	Target     string // target glyph name
	Commands   int
	Components int
}

func (err *AlignmentError) Error() string {
	return fmt.Sprintf("vtt: glyph %q: %d OFFSET commands but %q has %d components",
		err.Glyph, err.Commands, err.Target, err.Components)
}
