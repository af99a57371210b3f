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

package filter

import (
	"bytes"
	"testing"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfimages/internal/testpdf"
)

func TestOf(t *testing.T) {
	cases := []struct {
		filter    pdf.Object
		want      Filter
		transport int
	}{
		{nil, Uncompressed{}, 0},
		{pdf.Name("FlateDecode"), Flate{}, 0},
		{pdf.Name("DCTDecode"), DCT{}, 0},
		{pdf.Name("JPXDecode"), JPX{}, 0},
		{pdf.Name("LZWDecode"), Unsupported{Filter: "LZWDecode"}, 0},
		{pdf.Array{pdf.Name("ASCII85Decode"), pdf.Name("DCTDecode")}, DCT{}, 1},
		{pdf.Array{pdf.Name("ASCIIHexDecode"), pdf.Name("FlateDecode")}, Flate{}, 1},
		{pdf.Array{}, Uncompressed{}, 0},
	}
	for _, c := range cases {
		stm := &pdf.Stream{Dict: pdf.Dict{}}
		if c.filter != nil {
			stm.Dict["Filter"] = c.filter
		}
		got, transport, err := Of(nil, stm)
		if err != nil {
			t.Errorf("%v: %v", c.filter, err)
			continue
		}
		if got != c.want || transport != c.transport {
			t.Errorf("%v: got %#v/%d, want %#v/%d",
				c.filter, got, transport, c.want, c.transport)
		}
	}
}

func TestOfInvalid(t *testing.T) {
	stm := &pdf.Stream{Dict: pdf.Dict{"Filter": pdf.Integer(1)}}
	if _, _, err := Of(nil, stm); err == nil {
		t.Error("expected an error for an integer /Filter")
	}
}

func TestExtension(t *testing.T) {
	for f, want := range map[Filter]string{
		Flate{}:        ".png",
		DCT{}:          ".jpg",
		JPX{}:          ".jp2",
		Uncompressed{}: ".png",
	} {
		if got := f.Extension(); got != want {
			t.Errorf("%s: got %q, want %q", f.Name(), got, want)
		}
	}
}

func TestData(t *testing.T) {
	samples := bytes.Repeat([]byte{1, 2, 3}, 16)
	codestream := []byte("\xff\xd8 pretend JPEG \xff\xd9")

	doc := testpdf.New(t)
	flateRef := doc.FlateStream(pdf.Dict{}, samples)
	dctRef := doc.Stream(pdf.Dict{"Filter": pdf.Name("DCTDecode")}, codestream)
	r := doc.Finish()

	cases := []struct {
		ref  pdf.Reference
		want []byte
		f    Filter
	}{
		{flateRef, samples, Flate{}},
		{dctRef, codestream, DCT{}},
	}
	for _, c := range cases {
		stm, err := pdf.GetStream(r, c.ref)
		if err != nil {
			t.Fatal(err)
		}
		f, data, err := Data(r, stm)
		if err != nil {
			t.Fatal(err)
		}
		if f != c.f {
			t.Errorf("got filter %#v, want %#v", f, c.f)
		}
		if !bytes.Equal(data, c.want) {
			t.Errorf("%s: got %q, want %q", c.f.Name(), data, c.want)
		}
	}
}
