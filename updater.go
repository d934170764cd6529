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

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/vtt/font/sfnt"
)

// Options controls an update.  The zero value gives the default behaviour.
type Options struct {
	// Log receives diagnostics.  If this is nil, no diagnostics are
	// written.
	Log *logrus.Logger

	// NameFillsGaps, if set, only matches glyphs by name when they cannot
	// be matched by character.  See ResolveOptions.
	NameFillsGaps bool

	// TailAlign allows assembly listings whose OFFSET commands do not
	// match the components of the target glyph.  See AssemblyOptions.
	TailAlign bool

	// Workers is the number of goroutines used to compare glyph outlines.
	Workers int
}

// Report summarizes a completed update.
type Report struct {
	Matched      int // source glyphs with a target glyph
	Incompatible int // source glyphs excluded from the update
	Programs     int // glyph programs copied
	Listings     int // assembly listings copied
	Talks        int // talk sources copied
}

// Updater carries the hinting of a source font over to a target font.
type Updater struct {
	src, dst *sfnt.Font
	dstPath  string

	opt Options
	log *logrus.Logger

	corr *Correspondence
	bad  *IncompatibleSet

	updated bool
	failed  error
}

// Open reads the source and target fonts from files and prepares an
// update.  The target file is the default destination for Write.
func Open(srcPath, dstPath string, opt *Options) (*Updater, error) {
	src, err := sfnt.ReadFile(srcPath)
	if err != nil {
		return nil, err
	}
	dst, err := sfnt.ReadFile(dstPath)
	if err != nil {
		return nil, err
	}
	u, err := New(src, dst, opt)
	if err != nil {
		return nil, err
	}
	u.dstPath = dstPath
	return u, nil
}

// New prepares an update from src to dst.  This matches the glyphs of the
// two fonts and identifies the incompatible glyphs.  The fonts are not
// modified until Update is called.
func New(src, dst *sfnt.Font, opt *Options) (*Updater, error) {
	u := &Updater{
		src: src,
		dst: dst,
	}
	if opt != nil {
		u.opt = *opt
	}
	u.log = u.opt.Log
	if u.log == nil {
		u.log = discardLogger()
	}

	u.corr = Resolve(src, dst, &ResolveOptions{NameFillsGaps: u.opt.NameFillsGaps})
	bad, err := Classify(src, dst, u.corr, &ClassifyOptions{
		Log:     u.log,
		Workers: u.opt.Workers,
	})
	if err != nil {
		return nil, err
	}
	u.bad = bad
	return u, nil
}

// Correspondence returns the glyph matching between the two fonts.
func (u *Updater) Correspondence() *Correspondence {
	return u.corr
}

// Incompatible returns the source glyphs which are excluded from the
// update.
func (u *Updater) Incompatible() *IncompatibleSet {
	return u.bad
}

// Target returns the target font.
func (u *Updater) Target() *sfnt.Font {
	return u.dst
}

// Update copies the hinting from the source font into the target font.
//
// If an error is returned after the target font has been modified, the
// target font is left in an inconsistent state and Write will refuse to
// save it.
func (u *Updater) Update() (*Report, error) {
	if u.failed != nil {
		return nil, u.failed
	}
	if u.updated {
		return nil, errors.New("vtt: update already performed")
	}

	// The steps which can fail on bad input are done before the target
	// font is touched.
	err := checkScalars(u.src, u.dst)
	if err != nil {
		return nil, err
	}
	srcVTT, err := u.src.VTT()
	if err != nil {
		return nil, err
	}
	if srcVTT.Assembly != nil {
		srcVTT.Assembly.Glyphs, err = RewriteAssembly(srcVTT.Assembly.Glyphs, u.dst, u.corr, u.bad, &AssemblyOptions{
			TailAlign: u.opt.TailAlign,
			Log:       u.log,
		})
		if err != nil {
			return nil, err
		}
	}

	report := &Report{
		Matched:      u.corr.Len(),
		Incompatible: u.bad.Len(),
	}
	report.Programs, err = TransplantPrograms(u.src, u.dst, u.corr, u.bad)
	if err != nil {
		return nil, u.fail(err)
	}
	err = MergeTables(u.src, u.dst, srcVTT, u.corr, u.bad)
	if err != nil {
		return nil, u.fail(err)
	}
	err = SyncScalars(u.src, u.dst)
	if err != nil {
		return nil, u.fail(err)
	}

	if merged, err := u.dst.VTT(); err == nil {
		if merged.Assembly != nil {
			report.Listings = len(merged.Assembly.Glyphs)
		}
		if merged.Talk != nil {
			report.Talks = len(merged.Talk.Glyphs)
		}
	}
	u.updated = true

	u.log.WithFields(logrus.Fields{
		"matched":      report.Matched,
		"incompatible": report.Incompatible,
		"programs":     report.Programs,
		"listings":     report.Listings,
		"talks":        report.Talks,
	}).Info("update complete")
	return report, nil
}

func (u *Updater) fail(err error) error {
	u.failed = err
	return err
}

// Write saves the target font.  If path is empty, the font is written to
// the file it was read from by Open.
func (u *Updater) Write(path string) error {
	if u.failed != nil {
		return ErrInconsistent
	}
	if path == "" {
		path = u.dstPath
	}
	if path == "" {
		return errors.New("vtt: no output file given")
	}
	return u.dst.WriteFile(path)
}
