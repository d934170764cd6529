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
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/vtt/font/sfnt"
)

// offsetCommand matches an OFFSET[r] or OFFSET[R] command of a VTT
// assembly listing.  Group 1 is the command up to the first argument.
var offsetCommand = regexp.MustCompile(`(.*OFFSET\[[r,R]\] ?),.*`)

// AssemblyOptions controls the rewriting of assembly listings.
type AssemblyOptions struct {
	// TailAlign allows listings where the number of OFFSET commands differs
	// from the number of components of the target glyph.  The last
	// commands are then paired with the last components, and surplus
	// commands or components are ignored.  By default, such listings cause
	// an *AlignmentError.
	TailAlign bool

	// Log receives a warning for every listing which is tail aligned.
	Log *logrus.Logger
}

// RewriteAssembly updates the OFFSET commands in the VTT assembly listings
// of compatible glyphs, so that they refer to the components of the target
// glyphs by their new glyph IDs.  The listings are given as a map from
// source glyph names to listing text.  The result uses the same keys; the
// listings of incompatible and unmatched glyphs are copied unchanged.
//
// A rewritten command has the form
//
//	OFFSET[R], <gid>, <x>, <y>
//
// followed by the four coefficients of the component transformation, if
// this is not the identity.
func RewriteAssembly(listings map[string]string, dst *sfnt.Font, corr *Correspondence, bad *IncompatibleSet, opt *AssemblyOptions) (map[string]string, error) {
	if opt == nil {
		opt = &AssemblyOptions{}
	}
	log := opt.Log
	if log == nil {
		log = discardLogger()
	}

	keys := make([]string, 0, len(listings))
	for name := range listings {
		keys = append(keys, name)
	}
	slices.Sort(keys)

	res := make(map[string]string, len(listings))
	for _, name := range keys {
		text := listings[name]
		res[name] = text
		if bad.Has(name) {
			continue
		}
		target, ok := corr.Lookup(name)
		if !ok {
			continue
		}

		body := strings.ReplaceAll(text, "\r", "\n")
		matches := offsetCommand.FindAllStringSubmatchIndex(body, -1)
		if len(matches) == 0 {
			continue
		}

		comps, err := dst.Components(target)
		if err != nil {
			return nil, &LookupError{Glyph: target, Ref: "the components", Err: err}
		}
		if len(matches) != len(comps) {
			if !opt.TailAlign {
				return nil, &AlignmentError{
					Glyph:      name,
					Target:     target,
					Commands:   len(matches),
					Components: len(comps),
				}
			}
			log.WithFields(logrus.Fields{
				"source":     name,
				"target":     target,
				"commands":   len(matches),
				"components": len(comps),
			}).Warnf("%s/%s: OFFSET commands aligned at the end", name, target)
		}

		// Replace from the end, so that earlier match positions stay valid.
		k := len(comps) - 1
		for i := len(matches) - 1; i >= 0 && k >= 0; i, k = i-1, k-1 {
			m := matches[i]
			comp := comps[k]
			gid, ok := dst.GlyphID(comp.Name)
			if !ok {
				return nil, &LookupError{Glyph: target, Ref: "component " + strconv.Quote(comp.Name)}
			}
			cmd := formatOffset(body[m[2]:m[3]], int(gid), comp)
			body = body[:m[0]] + cmd + body[m[1]:]
		}
		res[name] = strings.ReplaceAll(body, "\n", "\r")
	}
	return res, nil
}

func formatOffset(command string, gid int, comp sfnt.Component) string {
	m := comp.Trfm
	args := []string{
		command,
		strconv.Itoa(gid),
		strconv.Itoa(int(math.Round(m[4]))),
		strconv.Itoa(int(math.Round(m[5]))),
	}
	if !isLinearIdentity(m) {
		for _, x := range m[:4] {
			args = append(args, formatCoefficient(x))
		}
	}
	return strings.Join(args, ", ")
}

// isLinearIdentity reports whether m has no scaling, rotation or shear.
func isLinearIdentity(m matrix.Matrix) bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1
}

// formatCoefficient formats a transformation coefficient using the
// shortest representation which reads back as the same value.  Integral
// values get a trailing ".0".
func formatCoefficient(x float64) string {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
