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

package buildinfo

import "testing"

func TestString(t *testing.T) {
	cases := []struct {
		in   Info
		want string
	}{
		{Info{Tool: "pdf-images"}, "pdf-images"},
		{Info{Tool: "pdf-images", Module: "seehuhn.de/go/pdfimages", Version: "v0.1.0"},
			"pdf-images (seehuhn.de/go/pdfimages v0.1.0)"},
		{Info{Tool: "pdf-images", Module: "seehuhn.de/go/pdfimages", Revision: "0123abcd", Dirty: true},
			"pdf-images (seehuhn.de/go/pdfimages 0123abcd+dirty)"},
		{Info{Tool: "pdf-images", Revision: "0123abcd"}, "pdf-images"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Errorf("%+v: got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestShort(t *testing.T) {
	if got := Short("x"); got == "" || got[0] != 'x' {
		t.Errorf("unexpected version string %q", got)
	}
}
