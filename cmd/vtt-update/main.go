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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"seehuhn.de/go/vtt"
	"seehuhn.de/go/vtt/internal/buildinfo"
	"seehuhn.de/go/vtt/internal/profile"
	"seehuhn.de/go/vtt/legacy"
)

var (
	outArg     = flag.String("o", "", "write the result to `file` (default: overwrite the new font)")
	logArg     = flag.Bool("log", false, "report incompatible glyphs on stderr")
	legacyArg  = flag.String("legacy", "", "update the glyph IDs in the VTT XML export `file` instead")
	lenientArg = flag.Bool("lenient", false, "pair OFFSET commands with components from the end when the counts differ")
	gapsArg    = flag.Bool("name-fills-gaps", false, "match glyphs by name only when they cannot be matched by character")
	workersArg = flag.Int("workers", runtime.NumCPU(), "number of goroutines used to compare outlines")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vtt-update - carry VTT hinting over to a new revision of a font\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("vtt-update"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  vtt-update [options] <old.ttf> <new.ttf>\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  old.ttf   the font containing the VTT data\n")
		fmt.Fprintf(os.Stderr, "  new.ttf   the font which receives the VTT data\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vtt-update -log -o out.ttf old.ttf new.ttf\n")
		fmt.Fprintf(os.Stderr, "  vtt-update -legacy export.xml old.ttf new.ttf\n")
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(oldPath, newPath string) (err error) {
	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := stop(); err == nil {
			err = stopErr
		}
	}()

	if *legacyArg != "" {
		return runLegacy(oldPath, newPath, *legacyArg)
	}

	opt := &vtt.Options{
		Log:           newLogger(),
		NameFillsGaps: *gapsArg,
		TailAlign:     *lenientArg,
		Workers:       *workersArg,
	}
	u, err := vtt.Open(oldPath, newPath, opt)
	if err != nil {
		return err
	}
	report, err := u.Update()
	if err != nil {
		return err
	}
	err = u.Write(*outArg)
	if err != nil {
		return err
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("%d glyphs matched, %d incompatible\n", report.Matched, report.Incompatible)
		fmt.Printf("%d glyph programs, %d assembly listings, %d talk sources copied\n",
			report.Programs, report.Listings, report.Talks)
	}
	return nil
}

func runLegacy(oldPath, newPath, xmlPath string) error {
	u, err := legacy.Open(oldPath, newPath, xmlPath)
	if err != nil {
		return err
	}
	err = u.Update()
	if err != nil {
		return err
	}
	out := *outArg
	if out == "" {
		out = xmlPath
	}
	return u.WriteFile(out)
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	if !*logArg {
		log.Out = io.Discard
		return log
	}
	log.Out = os.Stderr
	log.Level = logrus.InfoLevel
	log.Formatter = &logrus.TextFormatter{
		DisableColors:    !term.IsTerminal(int(os.Stderr.Fd())),
		DisableTimestamp: true,
	}
	return log
}
