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
	"fmt"
	"image"
	"image/color"

	"seehuhn.de/go/pdfimages/colorspace"
)

// Buffer is a decoded image.
//
// Pixels are stored row by row, using Mode.Channels() bytes per pixel.
// For Palette images each byte is an index into Palette.
type Buffer struct {
	Mode    colorspace.Mode
	Width   int
	Height  int
	Pix     []byte
	Palette color.Palette
}

// NewBuffer allocates a new buffer of the given size.
func NewBuffer(mode colorspace.Mode, width, height int) *Buffer {
	return &Buffer{
		Mode:   mode,
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*mode.Channels()),
	}
}

// ColorModel implements the [image.Image] interface.
func (b *Buffer) ColorModel() color.Model {
	switch b.Mode {
	case colorspace.CMYK:
		return color.CMYKModel
	case colorspace.Gray:
		return color.GrayModel
	case colorspace.Palette:
		return b.Palette
	default:
		return color.RGBAModel
	}
}

// Bounds implements the [image.Image] interface.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At implements the [image.Image] interface.
func (b *Buffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return color.Transparent
	}
	n := b.Mode.Channels()
	i := (y*b.Width + x) * n
	p := b.Pix[i : i+n]
	switch b.Mode {
	case colorspace.CMYK:
		return color.CMYK{C: p[0], M: p[1], Y: p[2], K: p[3]}
	case colorspace.Gray:
		return color.Gray{Y: p[0]}
	case colorspace.Palette:
		if int(p[0]) < len(b.Palette) {
			return b.Palette[p[0]]
		}
		return color.Black
	default:
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}
	}
}

// ColorIndexAt implements the [image.PalettedImage] interface.
// The result is only meaningful for Palette images.
func (b *Buffer) ColorIndexAt(x, y int) uint8 {
	if b.Mode != colorspace.Palette || !(image.Point{x, y}.In(b.Bounds())) {
		return 0
	}
	return b.Pix[y*b.Width+x]
}

// Opaque reports whether the image is fully opaque.  Decoded buffers
// never carry an alpha channel.
func (b *Buffer) Opaque() bool {
	return true
}

func (b *Buffer) String() string {
	return fmt.Sprintf("<decoded image mode=%s size=%dx%d>", b.Mode, b.Width, b.Height)
}

// FromImage converts src into a buffer with the given mode.
// For Palette mode, every pixel is mapped to the closest color in pal.
func FromImage(src image.Image, mode colorspace.Mode, pal color.Palette) *Buffer {
	return fromImage(src, mode, pal, false)
}

func fromImage(src image.Image, mode colorspace.Mode, pal color.Palette, invert bool) *Buffer {
	bounds := src.Bounds()
	res := NewBuffer(mode, bounds.Dx(), bounds.Dy())
	res.Palette = pal

	var mask uint8
	if invert {
		mask = 0xFF
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := src.At(x, y)
			switch mode {
			case colorspace.CMYK:
				cmyk := color.CMYKModel.Convert(c).(color.CMYK)
				res.Pix[i] = cmyk.C ^ mask
				res.Pix[i+1] = cmyk.M ^ mask
				res.Pix[i+2] = cmyk.Y ^ mask
				res.Pix[i+3] = cmyk.K ^ mask
				i += 4
			case colorspace.Gray:
				g := color.GrayModel.Convert(c).(color.Gray)
				res.Pix[i] = g.Y ^ mask
				i++
			case colorspace.Palette:
				rgba := color.RGBAModel.Convert(c).(color.RGBA)
				rgba.R ^= mask
				rgba.G ^= mask
				rgba.B ^= mask
				if len(pal) > 0 {
					res.Pix[i] = uint8(pal.Index(rgba))
				}
				i++
			default:
				rgba := color.RGBAModel.Convert(c).(color.RGBA)
				res.Pix[i] = rgba.R ^ mask
				res.Pix[i+1] = rgba.G ^ mask
				res.Pix[i+2] = rgba.B ^ mask
				i += 3
			}
		}
	}
	return res
}
