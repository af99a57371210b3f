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

package decode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfimages/colorspace"
	"seehuhn.de/go/pdfimages/filter"
	"seehuhn.de/go/pdfimages/internal/testpdf"
	"seehuhn.de/go/pdfimages/xobject"
)

func TestFlateRGB(t *testing.T) {
	const w, h = 4, 3
	data := make([]byte, w*h*3)
	for i := range data {
		data[i] = byte(17 * i)
	}

	doc := testpdf.New(t)
	ref := doc.FlateStream(testpdf.ImageDict(w, h, pdf.Name("DeviceRGB")), data)
	r := doc.Finish()
	im := readImage(t, r, ref)

	buf, _, err := Image(r, im, colorspace.DeviceRGB{}, colorspace.RGB)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf.Pix) != w*h*3 {
		t.Errorf("got %d bytes, want %d", len(buf.Pix), w*h*3)
	}
	if !bytes.Equal(buf.Pix, data) {
		t.Errorf("samples were modified:\n%v\n%v", buf.Pix, data)
	}
	if got := buf.At(1, 0); got != (color.RGBA{R: 51, G: 68, B: 85, A: 255}) {
		t.Errorf("At(1, 0) = %v", got)
	}
}

func TestDCTInverted(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: uint8(30 * x), G: uint8(30 * y), B: 128, A: 255})
		}
	}
	jpegData := &bytes.Buffer{}
	if err := jpeg.Encode(jpegData, src, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	ref, err := jpeg.Decode(bytes.NewReader(jpegData.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	for _, invert := range []bool{true, false} {
		req := &Request{
			Filter:           filter.DCT{},
			Mode:             colorspace.RGB,
			Width:            8,
			Height:           8,
			BitsPerComponent: 8,
			Invert:           invert,
		}
		buf, err := Decode(req, jpegData.Bytes())
		if err != nil {
			t.Fatal(err)
		}

		i := 0
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				c := color.RGBAModel.Convert(ref.At(x, y)).(color.RGBA)
				want := []byte{c.R, c.G, c.B}
				if invert {
					for k := range want {
						want[k] = 255 - want[k]
					}
				}
				if d := cmp.Diff(buf.Pix[i:i+3], want); d != "" {
					t.Fatalf("invert=%t, pixel (%d,%d) (-got +want):\n%s", invert, x, y, d)
				}
				i += 3
			}
		}
	}
}

func TestShortData(t *testing.T) {
	doc := testpdf.New(t)
	ref := doc.FlateStream(testpdf.ImageDict(10, 10, pdf.Name("DeviceRGB")), make([]byte, 20))
	r := doc.Finish()
	im := readImage(t, r, ref)

	_, data, err := Image(r, im, colorspace.DeviceRGB{}, colorspace.RGB)
	var decErr *Error
	if !errors.As(err, &decErr) {
		t.Fatalf("got %v, want a decode error", err)
	}
	if !errors.Is(err, errShortData) {
		t.Errorf("got %v, want %v", err, errShortData)
	}
	if decErr.DataLen != 20 || len(data) != 20 {
		t.Errorf("got DataLen %d (%d bytes), want 20", decErr.DataLen, len(data))
	}
}

func TestIndexed(t *testing.T) {
	space := &colorspace.Indexed{
		Base:   colorspace.DeviceRGB{},
		HiVal:  1,
		Lookup: []byte{255, 0, 0, 0, 0, 255},
	}

	doc := testpdf.New(t)
	dict := testpdf.ImageDict(8, 2, pdf.Array{pdf.Name("Indexed"), pdf.Name("DeviceRGB"), pdf.Integer(1), pdf.String(space.Lookup)})
	dict["BitsPerComponent"] = pdf.Integer(1)
	ref := doc.FlateStream(dict, []byte{0b10100000, 0b00000001})
	r := doc.Finish()
	im := readImage(t, r, ref)

	buf, _, err := Image(r, im, space, colorspace.Palette)
	if err != nil {
		t.Fatal(err)
	}
	wantPix := []byte{1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	if d := cmp.Diff(buf.Pix, wantPix); d != "" {
		t.Errorf("indices (-got +want):\n%s", d)
	}
	if got := buf.At(0, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("At(0, 0) = %v", got)
	}

	out := &bytes.Buffer{}
	if err := png.Encode(out, buf); err != nil {
		t.Fatal(err)
	}
	back, err := png.Decode(out)
	if err != nil {
		t.Fatal(err)
	}
	if _, isPaletted := back.(*image.Paletted); !isPaletted {
		t.Errorf("got %T, want a paletted PNG", back)
	}
}

func TestUnpack(t *testing.T) {
	cases := []struct {
		name  string
		data  []byte
		width int
		bpc   int
		scale bool
		want  []byte
	}{
		{"1 bit scaled", []byte{0b10110000}, 4, 1, true, []byte{255, 0, 255, 255}},
		{"2 bit scaled", []byte{0b00011011}, 4, 2, true, []byte{0, 85, 170, 255}},
		{"4 bit indices", []byte{0x1F, 0x30}, 3, 4, false, []byte{1, 15, 3}},
		{"16 bit", []byte{0x12, 0x34, 0xAB, 0xCD}, 2, 16, true, []byte{0x12, 0xAB}},
	}
	for _, c := range cases {
		got, err := unpack(c.data, c.width, 1, 1, c.bpc, c.scale)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if d := cmp.Diff(got, c.want); d != "" {
			t.Errorf("%s (-got +want):\n%s", c.name, d)
		}
	}

	if _, err := unpack([]byte{0}, 1, 1, 1, 3, true); err == nil {
		t.Error("3 bits per component should be rejected")
	}
}

func TestUnsupported(t *testing.T) {
	req := &Request{Filter: filter.Unsupported{Filter: "CCITTFaxDecode"}, Width: 1, Height: 1}
	if _, err := Decode(req, nil); !errors.Is(err, ErrUnsupportedFilter) {
		t.Errorf("got %v, want %v", err, ErrUnsupportedFilter)
	}

	jpx := &Request{Filter: filter.JPX{}, Width: 1, Height: 1}
	_, err := Decode(jpx, []byte("\x00\x00\x00\x0cjP  \r\n\x87\n"))
	if !errors.Is(err, ErrNoDecoder) {
		t.Errorf("got %v, want %v", err, ErrNoDecoder)
	}
}

func TestMask(t *testing.T) {
	doc := testpdf.New(t)
	grayRef := doc.FlateStream(testpdf.ImageDict(2, 1, pdf.Name("DeviceGray")), []byte{0, 200})
	rgbRef := doc.FlateStream(testpdf.ImageDict(2, 1, pdf.Name("DeviceRGB")), make([]byte, 6))
	r := doc.Finish()

	mask, err := Mask(r, readImage(t, r, grayRef))
	if err != nil {
		t.Fatal(err)
	}
	if mask.Mode != colorspace.Gray || !bytes.Equal(mask.Pix, []byte{0, 200}) {
		t.Errorf("got %s with %v", mask, mask.Pix)
	}

	_, err = Mask(r, readImage(t, r, rgbRef))
	if !errors.Is(err, ErrMaskColorSpace) {
		t.Errorf("got %v, want %v", err, ErrMaskColorSpace)
	}
}

func readImage(t *testing.T, r pdf.Getter, ref pdf.Reference) *xobject.Image {
	t.Helper()
	stm, err := pdf.GetStream(r, ref)
	if err != nil {
		t.Fatal(err)
	}
	im, err := xobject.FromStream(r, stm)
	if err != nil {
		t.Fatal(err)
	}
	im.Page = 1
	im.Name = "Im1"
	im.Ref = ref
	return im
}

func TestTooLarge(t *testing.T) {
	cases := []*Request{
		{Filter: filter.Flate{}, Mode: colorspace.RGB, Width: 1 << 31, Height: 1 << 31, BitsPerComponent: 8},
		{Filter: filter.Uncompressed{}, Mode: colorspace.CMYK, Width: 1 << 15, Height: 1 << 14, BitsPerComponent: 1},
		{Filter: filter.DCT{}, Mode: colorspace.Gray, Width: 1 << 30, Height: 2, BitsPerComponent: 8},
		{Filter: filter.Flate{}, Mode: colorspace.Gray, Width: -1, Height: 1, BitsPerComponent: 8},
	}
	for _, req := range cases {
		_, err := Decode(req, make([]byte, 16))
		if !errors.Is(err, errTooLarge) {
			t.Errorf("%dx%d %s: got %v, want %v", req.Width, req.Height, req.Mode, err, errTooLarge)
		}
	}

	if _, err := unpack(make([]byte, 16), 1<<31, 1<<31, 3, 8, true); !errors.Is(err, errTooLarge) {
		t.Errorf("unpack: got %v, want %v", err, errTooLarge)
	}
}

func TestTooLargeImage(t *testing.T) {
	doc := testpdf.New(t)
	ref := doc.FlateStream(testpdf.ImageDict(2, 2, pdf.Name("DeviceRGB")), make([]byte, 16))
	r := doc.Finish()
	im := readImage(t, r, ref)
	im.Width = 1 << 31
	im.Height = 1 << 31

	_, _, err := Image(r, im, colorspace.DeviceRGB{}, colorspace.RGB)
	var decErr *Error
	if !errors.As(err, &decErr) {
		t.Fatalf("got %v, want a decode error", err)
	}
	if !errors.Is(err, errTooLarge) {
		t.Errorf("got %v, want %v", err, errTooLarge)
	}
}

func TestDecodeArray(t *testing.T) {
	cases := []struct {
		name   string
		space  pdf.Object
		mode   colorspace.Mode
		bpc    int
		decode pdf.Array
		data   []byte
		want   []byte
	}{
		{
			name:   "inverted gray",
			space:  pdf.Name("DeviceGray"),
			mode:   colorspace.Gray,
			bpc:    8,
			decode: pdf.Array{pdf.Integer(1), pdf.Integer(0)},
			data:   []byte{0, 55, 255},
			want:   []byte{255, 200, 0},
		},
		{
			name:   "1 bit mask polarity",
			space:  pdf.Name("DeviceGray"),
			mode:   colorspace.Gray,
			bpc:    1,
			decode: pdf.Array{pdf.Integer(1), pdf.Integer(0)},
			data:   []byte{0b10100000},
			want:   []byte{0, 255, 0},
		},
		{
			name:   "half range",
			space:  pdf.Name("DeviceGray"),
			mode:   colorspace.Gray,
			bpc:    8,
			decode: pdf.Array{pdf.Real(0.5), pdf.Integer(1)},
			data:   []byte{0, 128, 255},
			want:   []byte{128, 192, 255},
		},
		{
			name:   "identity",
			space:  pdf.Name("DeviceGray"),
			mode:   colorspace.Gray,
			bpc:    8,
			decode: pdf.Array{pdf.Integer(0), pdf.Integer(1)},
			data:   []byte{1, 2, 3},
			want:   []byte{1, 2, 3},
		},
		{
			name:   "wrong length is ignored",
			space:  pdf.Name("DeviceGray"),
			mode:   colorspace.Gray,
			bpc:    8,
			decode: pdf.Array{pdf.Integer(1), pdf.Integer(0), pdf.Integer(1), pdf.Integer(0)},
			data:   []byte{1, 2, 3},
			want:   []byte{1, 2, 3},
		},
		{
			name:   "reversed palette indices",
			space:  pdf.Array{pdf.Name("Indexed"), pdf.Name("DeviceGray"), pdf.Integer(3), pdf.String("\x00\x40\x80\xff")},
			mode:   colorspace.Palette,
			bpc:    2,
			decode: pdf.Array{pdf.Integer(3), pdf.Integer(0)},
			data:   []byte{0b00011011},
			want:   []byte{3, 2, 1},
		},
	}
	for _, c := range cases {
		doc := testpdf.New(t)
		dict := testpdf.ImageDict(3, 1, c.space)
		dict["BitsPerComponent"] = pdf.Integer(c.bpc)
		dict["Decode"] = c.decode
		ref := doc.FlateStream(dict, c.data)
		r := doc.Finish()
		im := readImage(t, r, ref)

		space, err := colorspace.Parse(r, im.ColorSpace)
		if err != nil {
			t.Fatal(err)
		}
		buf, _, err := Image(r, im, space, c.mode)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if d := cmp.Diff(buf.Pix, c.want); d != "" {
			t.Errorf("%s (-got +want):\n%s", c.name, d)
		}
	}
}
