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
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/vtt/font/sfnt"
	"seehuhn.de/go/vtt/font/sfnt/outline"
)

// IncompatibleSet is the set of source glyphs whose hints cannot be carried
// over to the target font.  An IncompatibleSet is not modified after
// construction.
type IncompatibleSet struct {
	names map[string]bool
	order []string
}

// Has reports whether the source glyph is incompatible.
func (s *IncompatibleSet) Has(name string) bool {
	return s.names[name]
}

// Len returns the number of incompatible glyphs.
func (s *IncompatibleSet) Len() int {
	return len(s.order)
}

// Names returns the incompatible glyphs, in source glyph order.
func (s *IncompatibleSet) Names() []string {
	return append([]string(nil), s.order...)
}

// ClassifyOptions controls the comparison of glyphs.
type ClassifyOptions struct {
	// Log receives a warning for every glyph with a changed outline.
	// If this is nil, no diagnostics are written.
	Log *logrus.Logger

	// Workers is the number of goroutines used to compare outlines.
	// Values less than 2 compare all glyphs sequentially.  The diagnostics
	// are written in source glyph order in either case.
	Workers int
}

// verdict is the outcome of comparing one source glyph to its target.
type verdict struct {
	target     string
	unresolved bool
	reason     string
	err        error
}

// Classify finds the source glyphs whose hints cannot be used in the
// target font.  A source glyph is incompatible if it has no match in corr,
// if the decomposed outlines of the two glyphs consist of different drawing
// operations, or if both are composite glyphs with different component
// names.  Unmatched glyphs are not reported in the log.
//
// Errors are only returned for glyph data which cannot be decoded.
func Classify(src, dst *sfnt.Font, corr *Correspondence, opt *ClassifyOptions) (*IncompatibleSet, error) {
	if opt == nil {
		opt = &ClassifyOptions{}
	}
	log := opt.Log
	if log == nil {
		log = discardLogger()
	}

	order := src.GlyphOrder()
	verdicts := make([]verdict, len(order))
	check := func(i int) {
		name := order[i]
		target, ok := corr.Lookup(name)
		if !ok {
			verdicts[i] = verdict{unresolved: true}
			return
		}
		if _, ok := dst.GlyphID(target); !ok {
			verdicts[i] = verdict{target: target, unresolved: true}
			return
		}
		reason, err := compareGlyphs(src, dst, name, target)
		verdicts[i] = verdict{target: target, reason: reason, err: err}
	}

	if opt.Workers < 2 {
		for i := range order {
			check(i)
		}
	} else {
		idx := make(chan int)
		wg := &sync.WaitGroup{}
		for range opt.Workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idx {
					check(i)
				}
			}()
		}
		for i := range order {
			idx <- i
		}
		close(idx)
		wg.Wait()
	}

	res := &IncompatibleSet{names: make(map[string]bool)}
	for i, v := range verdicts {
		name := order[i]
		if v.err != nil {
			return nil, fmt.Errorf("glyph %q: %w", name, v.err)
		}
		if !v.unresolved && v.reason == "" {
			continue
		}
		if v.reason != "" {
			log.WithFields(logrus.Fields{
				"source": name,
				"target": v.target,
				"reason": v.reason,
			}).Warnf("%s/%s is incompatible", name, v.target)
		}
		res.names[name] = true
		res.order = append(res.order, name)
	}
	return res, nil
}

// compareGlyphs compares the structure of two glyphs.  The result is empty
// if the glyphs are compatible, and describes the first difference
// otherwise.
//
// Composite glyphs are compared through their decomposed outlines, so a
// change to a component glyph also makes every composite using it
// incompatible.
func compareGlyphs(src, dst *sfnt.Font, name, target string) (string, error) {
	srcPen := &outline.Recorder{}
	if err := src.Draw(name, srcPen); err != nil {
		return "", err
	}
	dstPen := &outline.Recorder{}
	if err := dst.Draw(target, dstPen); err != nil {
		return "", err
	}

	n := max(len(srcPen.Ops), len(dstPen.Ops))
	for i := range n {
		a, b := opAt(srcPen.Ops, i), opAt(dstPen.Ops, i)
		if !a.SameShape(b) {
			return fmt.Sprintf("incompatible contour: operation %d is %s in the source, %s in the target",
				i, describeOp(a), describeOp(b)), nil
		}
	}

	srcComposite, err := src.IsComposite(name)
	if err != nil {
		return "", err
	}
	dstComposite, err := dst.IsComposite(target)
	if err != nil {
		return "", err
	}
	if !srcComposite || !dstComposite {
		return "", nil
	}

	srcComps, err := src.Components(name)
	if err != nil {
		return "", err
	}
	dstComps, err := dst.Components(target)
	if err != nil {
		return "", err
	}
	n = max(len(srcComps), len(dstComps))
	for i := range n {
		a, b := componentName(srcComps, i), componentName(dstComps, i)
		if a != b {
			return fmt.Sprintf("incompatible components: component %d is %q in the source, %q in the target",
				i, a, b), nil
		}
	}
	return "", nil
}

func opAt(ops []outline.Op, i int) outline.Op {
	if i < len(ops) {
		return ops[i]
	}
	return outline.Op{Kind: outline.OpNone}
}

func describeOp(op outline.Op) string {
	if op.Kind == outline.OpNone || op.Kind == outline.OpClosePath {
		return op.Kind.String()
	}
	return fmt.Sprintf("%s with %d points", op.Kind, len(op.Points))
}

func componentName(comps []sfnt.Component, i int) string {
	if i < len(comps) {
		return comps[i].Name
	}
	return "<none>"
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}
