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

// Package composite combines decoded images with their soft masks.
//
// The image, with the mask as its alpha channel, is drawn over a solid
// background using straight (non-premultiplied) alpha:
//
//	outA = sa + da·(1−sa)
//	outC = (sc·sa + dc·da·(1−sa)) / outA
//
// where s is the masked image and d is the background.
package composite

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"seehuhn.de/go/pdfimages/colorspace"
	"seehuhn.de/go/pdfimages/decode"
)

// Default is the background used when the background color is given with
// an invalid number of components.
var Default = color.NRGBA{}

// Background converts 1, 3 or 4 integers into a background color.
//
// A single value gives an opaque gray, three values give an opaque RGB
// color, and four values give an RGBA color.  For any other number of
// values the result is [Default].  Values must be in the range 0 to 255.
func Background(values []int) (color.NRGBA, error) {
	for _, v := range values {
		if v < 0 || v > 255 {
			return Default, fmt.Errorf("background component %d out of range 0-255", v)
		}
	}

	switch len(values) {
	case 1:
		g := uint8(values[0])
		return color.NRGBA{R: g, G: g, B: g, A: 255}, nil
	case 3:
		return color.NRGBA{R: uint8(values[0]), G: uint8(values[1]), B: uint8(values[2]), A: 255}, nil
	case 4:
		return color.NRGBA{R: uint8(values[0]), G: uint8(values[1]), B: uint8(values[2]), A: uint8(values[3])}, nil
	default:
		return Default, nil
	}
}

// Extension returns the file name extension for a composited image.
//
// Images composited onto an opaque background keep the extension ext of
// their original format.  Otherwise the result has an alpha channel and is
// always stored as PNG.
func Extension(ext string, bg color.NRGBA) string {
	if bg.A == 255 {
		return ext
	}
	return ".png"
}

// Error is returned when an image and its mask cannot be composited.
type Error struct {
	Image string
	Mask  string
	Err   error
}

func (err *Error) Error() string {
	return fmt.Sprintf("cannot composite %s with %s: %v", err.Image, err.Mask, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

var errNilOperand = errors.New("missing image or mask")

// Apply composites img, using mask as its alpha channel, onto a solid
// background of color bg.
//
// If bg is opaque, the result is flattened into an RGB [decode.Buffer].
// Otherwise the result is an [*image.NRGBA].
func Apply(img image.Image, mask *decode.Buffer, bg color.NRGBA) (image.Image, error) {
	if isNil(img) || mask == nil {
		return nil, &Error{Image: describe(img), Mask: describe(mask), Err: errNilOperand}
	}
	size := img.Bounds().Size()
	if mask.Width != size.X || mask.Height != size.Y || mask.Mode != colorspace.Gray {
		return nil, &Error{
			Image: describe(img),
			Mask:  describe(mask),
			Err: fmt.Errorf("mask %dx%d (%s) does not match image %dx%d",
				mask.Width, mask.Height, mask.Mode, size.X, size.Y),
		}
	}
	rect := image.Rectangle{Max: size}

	// convert to RGB and attach the mask as alpha channel
	fg := image.NewNRGBA(rect)
	xdraw.Draw(fg, rect, img, img.Bounds().Min, xdraw.Src)
	for i, a := range mask.Pix {
		fg.Pix[4*i+3] = a
	}

	over(fg, bg)

	if bg.A == 255 {
		return decode.FromImage(fg, colorspace.RGB, nil), nil
	}
	return fg, nil
}

// over replaces every pixel s of img by s drawn over the color bg.
//
// This is not done using draw.Over, since the draw package works with
// premultiplied alpha and changes the colors of translucent pixels.
func over(img *image.NRGBA, bg color.NRGBA) {
	da := float64(bg.A) / 255
	dc := [3]float64{float64(bg.R), float64(bg.G), float64(bg.B)}
	for i := 0; i < len(img.Pix); i += 4 {
		px := img.Pix[i : i+4 : i+4]
		sa := float64(px[3]) / 255
		outA := sa + da*(1-sa)
		if outA == 0 {
			clear(px)
			continue
		}
		for k := range 3 {
			sc := float64(px[k])
			px[k] = toByte((sc*sa + dc[k]*da*(1-sa)) / outA)
		}
		px[3] = toByte(outA * 255)
	}
}

func toByte(x float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(x))))
}

func isNil(img image.Image) bool {
	if buf, ok := img.(*decode.Buffer); ok {
		return buf == nil
	}
	return img == nil
}

func describe(img image.Image) string {
	if isNil(img) {
		return "<nil>"
	}
	switch img := img.(type) {
	case *decode.Buffer:
		return img.String()
	default:
		b := img.Bounds()
		return fmt.Sprintf("<%T size=%dx%d>", img, b.Dx(), b.Dy())
	}
}
