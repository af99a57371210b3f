// seehuhn.de/go/pdfimages - extract images from PDF files
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

// Package progress shows a textual progress indicator with an estimate of
// the remaining time.
//
// On a terminal the indicator is redrawn in place.  Otherwise every update
// is written as a separate line.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Estimate extrapolates the remaining time from the time elapsed so far
// and the completed fraction of the work.  The result is
// elapsed·(1−fraction)/fraction.  If no work has been completed yet, ok
// is false.
func Estimate(elapsed time.Duration, fraction float64) (remaining time.Duration, ok bool) {
	if fraction <= 0 {
		return 0, false
	}
	if fraction >= 1 {
		return 0, true
	}
	return time.Duration(float64(elapsed) * (1 - fraction) / fraction), true
}

// Bar is a progress indicator for a fixed amount of work.
type Bar struct {
	w     io.Writer
	total int
	done  int

	start time.Time
	now   func() time.Time

	// inPlace is set if w is a terminal.  width is the terminal width.
	inPlace bool
	width   int
	lastLen int
}

// New creates a progress indicator for total units of work, writing to w.
// The clock starts when New is called.
func New(w io.Writer, total int) *Bar {
	b := &Bar{
		w:     w,
		total: total,
		now:   time.Now,
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b.inPlace = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			b.width = width
		}
	}
	b.start = b.now()
	return b
}

// Set records that done units of work have been completed and redraws
// the indicator.
func (b *Bar) Set(done int) {
	b.done = min(max(done, 0), b.total)
	b.draw()
}

// Finish marks all work as done.  On a terminal, the cursor is moved to
// the next line.
func (b *Bar) Finish() {
	b.Set(b.total)
	if b.inPlace {
		fmt.Fprintln(b.w)
	}
}

func (b *Bar) draw() {
	line := b.String()
	if !b.inPlace {
		fmt.Fprintln(b.w, line)
		return
	}

	if bar := b.width - len(line) - 3; bar >= 10 {
		bar = min(bar, 40)
		filled := 0
		if b.total > 0 {
			filled = bar * b.done / b.total
		}
		line = "[" + strings.Repeat("#", filled) + strings.Repeat(".", bar-filled) + "] " + line
	}
	pad := ""
	if n := b.lastLen - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprint(b.w, "\r"+line+pad)
	b.lastLen = len(line)
}

// String returns the text of the indicator, for example
// "40.0% 2/5, 3s remaining".
func (b *Bar) String() string {
	fraction := 1.0
	if b.total > 0 {
		fraction = float64(b.done) / float64(b.total)
	}

	eta := "?"
	if remaining, ok := Estimate(b.now().Sub(b.start), fraction); ok {
		eta = formatDuration(remaining)
	}
	return fmt.Sprintf("%.1f%% %d/%d, %s remaining", 100*fraction, b.done, b.total, eta)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%d:%02d", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
