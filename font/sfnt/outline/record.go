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

package outline

import (
	"fmt"
	"strings"

	"seehuhn.de/go/geom/vec"
)

// OpKind identifies the type of a drawing operation.
type OpKind int

// These are the drawing operations recorded by a Recorder.
const (
	OpNone OpKind = iota
	OpMoveTo
	OpLineTo
	OpQCurveTo
	OpClosePath
)

func (k OpKind) String() string {
	switch k {
	case OpNone:
		return "none"
	case OpMoveTo:
		return "moveTo"
	case OpLineTo:
		return "lineTo"
	case OpQCurveTo:
		return "qCurveTo"
	case OpClosePath:
		return "closePath"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is a single recorded drawing operation.
type Op struct {
	Kind   OpKind
	Points []vec.Vec2
}

// SameShape reports whether two operations have the same kind and the same
// number of points.  Coordinates are not compared.
func (op Op) SameShape(other Op) bool {
	return op.Kind == other.Kind && len(op.Points) == len(other.Points)
}

func (op Op) String() string {
	b := &strings.Builder{}
	b.WriteString(op.Kind.String())
	b.WriteByte('(')
	for i, p := range op.Points {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%g %g", p.X, p.Y)
	}
	b.WriteByte(')')
	return b.String()
}

// Recorder is a Pen which records all drawing operations.
type Recorder struct {
	Ops []Op
}

// MoveTo implements the [Pen] interface.
func (r *Recorder) MoveTo(p vec.Vec2) {
	r.Ops = append(r.Ops, Op{Kind: OpMoveTo, Points: []vec.Vec2{p}})
}

// LineTo implements the [Pen] interface.
func (r *Recorder) LineTo(p vec.Vec2) {
	r.Ops = append(r.Ops, Op{Kind: OpLineTo, Points: []vec.Vec2{p}})
}

// QCurveTo implements the [Pen] interface.
func (r *Recorder) QCurveTo(pp ...vec.Vec2) {
	r.Ops = append(r.Ops, Op{Kind: OpQCurveTo, Points: append([]vec.Vec2(nil), pp...)})
}

// ClosePath implements the [Pen] interface.
func (r *Recorder) ClosePath() {
	r.Ops = append(r.Ops, Op{Kind: OpClosePath})
}
