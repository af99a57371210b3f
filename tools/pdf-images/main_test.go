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

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfimages/extract"
	"seehuhn.de/go/pdfimages/internal/testpdf"
)

func TestIntList(t *testing.T) {
	var l intList
	for _, arg := range []string{"1,3", "7", " 9 , 2 "} {
		if err := l.Set(arg); err != nil {
			t.Fatal(err)
		}
	}
	if d := cmp.Diff([]int(l), []int{1, 3, 7, 9, 2}); d != "" {
		t.Errorf("values (-got +want):\n%s", d)
	}
	if l.String() != "1,3,7,9,2" {
		t.Errorf("String() = %q", l.String())
	}
	if err := l.Set("1,x"); err == nil {
		t.Error("invalid number accepted")
	}
}

func TestRangeFlag(t *testing.T) {
	cases := []struct {
		in   string
		want extract.PageRange
	}{
		{"2-5", extract.PageRange{First: 2, Last: 5}},
		{"3,3", extract.PageRange{First: 3, Last: 3}},
		{" 1 - 2 ", extract.PageRange{First: 1, Last: 2}},
	}
	for _, c := range cases {
		var f rangeFlag
		if err := f.Set(c.in); err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if *f.r != c.want {
			t.Errorf("%q: got %v, want %v", c.in, *f.r, c.want)
		}
	}

	for _, bad := range []string{"5", "a-b", "5-2", ""} {
		var f rangeFlag
		if err := f.Set(bad); err == nil {
			t.Errorf("%q accepted", bad)
		}
	}
}

func writeSample(t *testing.T) string {
	t.Helper()
	doc := testpdf.New(t)
	ref := doc.FlateStream(testpdf.ImageDict(1, 1, pdf.Name("DeviceRGB")), []byte{1, 2, 3})
	doc.AddPage(pdf.Dict{"Im1": ref})

	fname := filepath.Join(t.TempDir(), "in.pdf")
	if err := os.WriteFile(fname, doc.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestRun(t *testing.T) {
	in := writeSample(t)
	out := t.TempDir()

	cfg := config{outDir: out, quality: 90}
	if err := run(in, cfg, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "Page_1_Im1.png")); err != nil {
		t.Error(err)
	}
}

func TestRunErrors(t *testing.T) {
	in := writeSample(t)

	err := run(in, config{pages: intList{2}, quality: 90}, "", "")
	if !errors.As(err, &usageError{}) || !errors.Is(err, extract.ErrPageRange) {
		t.Errorf("page out of range: got %v", err)
	}

	err = run(in, config{bg: intList{300}, quality: 90}, "", "")
	if !errors.As(err, &usageError{}) {
		t.Errorf("bad background: got %v", err)
	}

	err = run(filepath.Join(t.TempDir(), "missing.pdf"), config{quality: 90}, "", "")
	var inErr *extract.InputError
	if !errors.As(err, &inErr) {
		t.Errorf("missing file: got %v", err)
	}
}
