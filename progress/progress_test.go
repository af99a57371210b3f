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

package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestEstimate(t *testing.T) {
	cases := []struct {
		elapsed  time.Duration
		fraction float64
		want     time.Duration
		ok       bool
	}{
		{10 * time.Second, 0, 0, false},
		{10 * time.Second, 0.5, 10 * time.Second, true},
		{10 * time.Second, 0.25, 30 * time.Second, true},
		{10 * time.Second, 1, 0, true},
		{0, 0.5, 0, true},
	}
	for _, c := range cases {
		got, ok := Estimate(c.elapsed, c.fraction)
		if got != c.want || ok != c.ok {
			t.Errorf("Estimate(%v, %g) = %v, %t, want %v, %t",
				c.elapsed, c.fraction, got, ok, c.want, c.ok)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1400 * time.Millisecond, "1s"},
		{75 * time.Second, "1:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, c := range cases {
		if got := formatDuration(c.in); got != c.want {
			t.Errorf("formatDuration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBarLines(t *testing.T) {
	buf := &bytes.Buffer{}
	b := New(buf, 4)

	clock := b.start
	b.now = func() time.Time { return clock }

	b.Set(0)
	clock = clock.Add(2 * time.Second)
	b.Set(1)
	clock = clock.Add(2 * time.Second)
	b.Set(2)
	b.Finish()

	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"0.0% 0/4, ? remaining",
		"25.0% 1/4, 6s remaining",
		"50.0% 2/4, 4s remaining",
		"100.0% 4/4, 0s remaining",
	}
	if d := cmp.Diff(got, want); d != "" {
		t.Errorf("output (-got +want):\n%s", d)
	}
}

func TestBarClamp(t *testing.T) {
	b := New(&bytes.Buffer{}, 3)
	b.Set(7)
	if b.done != 3 {
		t.Errorf("done = %d, want 3", b.done)
	}
	b.Set(-1)
	if b.done != 0 {
		t.Errorf("done = %d, want 0", b.done)
	}
}

func TestBarInPlace(t *testing.T) {
	buf := &bytes.Buffer{}
	b := New(buf, 2)
	b.inPlace = true
	b.width = 60
	b.now = func() time.Time { return b.start }

	b.Set(1)
	b.Finish()

	out := buf.String()
	if strings.Count(out, "\r") != 2 || !strings.HasSuffix(out, "\n") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "[#") {
		t.Errorf("missing bar in %q", out)
	}
}

func TestEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	b := New(buf, 0)
	b.Finish()
	if got := strings.TrimSpace(buf.String()); got != "100.0% 0/0, 0s remaining" {
		t.Errorf("got %q", got)
	}
}
