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

// Package font holds the error types shared by the font table codecs.
package font

import (
	"errors"

	"seehuhn.de/go/sfnt/parser"
)

// InvalidFontError indicates a problem with font data.
type InvalidFontError struct {
	SubSystem string
	Reason    string
}

func (err *InvalidFontError) Error() string {
	return err.SubSystem + ": " + err.Reason
}

// NotSupportedError indicates that a font file seems valid but uses a
// feature which is not supported by this library.
type NotSupportedError struct {
	SubSystem string
	Feature   string
}

func (err *NotSupportedError) Error() string {
	return err.SubSystem + ": " + err.Feature + " not supported"
}

// IsUnsupported returns true if the error is a NotSupportedError, either
// from this module or from the seehuhn.de/go/sfnt parsers.
func IsUnsupported(err error) bool {
	var e *NotSupportedError
	var pe *parser.NotSupportedError
	return errors.As(err, &e) || errors.As(err, &pe)
}

// IsInvalid returns true if the error is an InvalidFontError, either from
// this module or from the seehuhn.de/go/sfnt parsers.
func IsInvalid(err error) bool {
	var e *InvalidFontError
	var pe *parser.InvalidFontError
	return errors.As(err, &e) || errors.As(err, &pe)
}
