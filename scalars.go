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
	"seehuhn.de/go/sfnt/maxp"

	"seehuhn.de/go/vtt/font"
	"seehuhn.de/go/vtt/font/sfnt"
	"seehuhn.de/go/vtt/font/sfnt/head"
)

// SyncScalars copies the interpreter limits in "maxp" and the
// checkSumAdjustment field in "head" from src to dst, and sets bit 3 of the
// "head" flags in dst.  No other fields are changed.
//
// The checkSumAdjustment field is recomputed when dst is written.
func SyncScalars(src, dst *sfnt.Font) error {
	err := checkScalars(src, dst)
	if err != nil {
		return err
	}

	dstMaxp := dst.Maxp()
	copyInterpreterLimits(dstMaxp.TTF, src.Maxp().TTF)
	err = dst.SetMaxp(dstMaxp)
	if err != nil {
		return err
	}

	dstHead := dst.Head()
	dstHead.CheckSumAdjustment = src.Head().CheckSumAdjustment
	dstHead.Flags |= head.FlagForceIntegerPPEM
	dst.SetHead(dstHead)
	return nil
}

// checkScalars reports whether SyncScalars can be applied to the two fonts.
func checkScalars(src, dst *sfnt.Font) error {
	if src.Maxp().TTF == nil || dst.Maxp().TTF == nil {
		return &font.NotSupportedError{
			SubSystem: "sfnt/maxp",
			Feature:   "version 0.5 table",
		}
	}
	return nil
}

// copyInterpreterLimits copies the fields of a version 1.0 "maxp" table
// which describe the needs of the TrueType interpreter.  The outline
// statistics in dst are kept.
func copyInterpreterLimits(dst, src *maxp.TTFInfo) {
	dst.MaxZones = src.MaxZones
	dst.MaxTwilightPoints = src.MaxTwilightPoints
	dst.MaxStorage = src.MaxStorage
	dst.MaxFunctionDefs = src.MaxFunctionDefs
	dst.MaxInstructionDefs = src.MaxInstructionDefs
	dst.MaxStackElements = src.MaxStackElements
	dst.MaxSizeOfInstructions = src.MaxSizeOfInstructions
}
