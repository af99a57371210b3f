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

// Package decode turns the data of PDF image streams into pixel buffers.
//
// Raw samples (FlateDecode and unfiltered streams) are unpacked directly.
// JPEG data is decoded with [image/jpeg], JPEG 2000 data with any decoder
// registered in the [image] package.  PDF files historically store JPEG
// samples inverted relative to the usual JPEG convention, so the samples
// of DCTDecode and JPXDecode images are inverted after decoding.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfimages/colorspace"
	"seehuhn.de/go/pdfimages/filter"
	"seehuhn.de/go/pdfimages/xobject"
)

var (
	// ErrUnsupportedFilter is returned for images which use a filter other
	// than FlateDecode, DCTDecode or JPXDecode.
	ErrUnsupportedFilter = errors.New("unsupported filter")

	// ErrNoDecoder is returned for JPEG 2000 data if no JPEG 2000 decoder
	// is registered with the image package.
	ErrNoDecoder = errors.New("no JPEG 2000 decoder available")

	// ErrMaskColorSpace is returned by [Mask] if the soft mask does not use
	// the DeviceGray color space.  Such masks are ignored.
	ErrMaskColorSpace = errors.New("soft mask color space is not DeviceGray")
)

// Error is returned when image data cannot be decoded.
type Error struct {
	// Image identifies the image XObject.
	Image string

	Filter pdf.Name
	Mode   colorspace.Mode
	Width  int
	Height int

	// DataLen is the number of bytes of encoded data.
	DataLen int

	Err error
}

func (err *Error) Error() string {
	return fmt.Sprintf("cannot decode %s (%s, mode=%s, %dx%d, %d bytes): %v",
		err.Image, err.Filter, err.Mode, err.Width, err.Height, err.DataLen, err.Err)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Request describes how to decode image data.
type Request struct {
	Filter           filter.Filter
	Mode             colorspace.Mode
	Width            int
	Height           int
	BitsPerComponent int

	// Palette is used for Palette mode.  If it is empty, a gray ramp is
	// used.
	Palette color.Palette

	// Invert inverts all samples after decoding JPEG or JPEG 2000 data.
	Invert bool

	// Decode is the /Decode array of the image.  It is applied to raw
	// samples only.
	Decode []float64
}

// Decode decodes image data according to req.
func Decode(req *Request, data []byte) (*Buffer, error) {
	if err := checkSize(req.Width, req.Height, req.Mode.Channels()); err != nil {
		return nil, err
	}

	pal := req.Palette
	if req.Mode == colorspace.Palette && len(pal) == 0 {
		pal = grayRamp
	}

	var res *Buffer
	switch req.Filter.(type) {
	case filter.Flate, filter.Uncompressed:
		isIndex := req.Mode == colorspace.Palette
		pix, err := unpack(data, req.Width, req.Height, req.Mode.Channels(),
			req.BitsPerComponent, !isIndex)
		if err != nil {
			return nil, err
		}
		applyDecode(pix, req.Mode.Channels(), req.BitsPerComponent, isIndex, req.Decode)
		res = &Buffer{
			Mode:   req.Mode,
			Width:  req.Width,
			Height: req.Height,
			Pix:    pix,
		}

	case filter.DCT:
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		res, err = convert(img, req, pal)
		if err != nil {
			return nil, err
		}

	case filter.JPX:
		img, _, err := image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrNoDecoder
		} else if err != nil {
			return nil, err
		}
		res, err = convert(img, req, pal)
		if err != nil {
			return nil, err
		}

	default:
		return nil, ErrUnsupportedFilter
	}

	if res.Mode == colorspace.Palette {
		res.Palette = padPalette(pal, res.Pix)
	}
	return res, nil
}

func convert(img image.Image, req *Request, pal color.Palette) (*Buffer, error) {
	size := img.Bounds().Size()
	if size.X != req.Width || size.Y != req.Height {
		return nil, fmt.Errorf("decoded size %dx%d differs from declared size %dx%d",
			size.X, size.Y, req.Width, req.Height)
	}
	return fromImage(img, req.Mode, pal, req.Invert), nil
}

// Image decodes the image described by im, using the pixel format mode.
//
// The encoded stream data is returned alongside the buffer, so that images
// which cannot be decoded can still be stored in their original format.
// For images with an unsupported filter, [ErrUnsupportedFilter] is
// returned without reading the stream.  All other errors are of type
// [*Error].
func Image(r pdf.Getter, im *xobject.Image, space colorspace.Space, mode colorspace.Mode) (*Buffer, []byte, error) {
	if _, ok := im.Filter.(filter.Unsupported); ok {
		return nil, nil, ErrUnsupportedFilter
	}

	req := &Request{
		Filter:           im.Filter,
		Mode:             mode,
		Width:            im.Width,
		Height:           im.Height,
		BitsPerComponent: im.BitsPerComponent,
		Decode:           im.Decode,
	}
	switch im.Filter.(type) {
	case filter.DCT, filter.JPX:
		req.Invert = true
	}
	if indexed, ok := space.(*colorspace.Indexed); ok && mode == colorspace.Palette {
		req.Palette = indexed.Palette()
	}

	_, data, err := filter.Data(r, im.Stream)
	if err != nil {
		return nil, data, wrap(im, req, data, err)
	}
	buf, err := Decode(req, data)
	if err != nil {
		return nil, data, wrap(im, req, data, err)
	}
	return buf, data, nil
}

// Mask decodes the soft mask described by mask.
//
// Only soft masks in the DeviceGray color space are supported; for other
// masks [ErrMaskColorSpace] is returned.  Masks with an unsupported filter
// give [ErrUnsupportedFilter].  In both cases the caller should treat the
// image as unmasked.  Mask samples are never inverted.
func Mask(r pdf.Getter, mask *xobject.Image) (*Buffer, error) {
	space, err := colorspace.Parse(r, mask.ColorSpace)
	if err != nil {
		return nil, &Error{Image: "soft mask of " + mask.String(), Err: err}
	}
	if _, isGray := space.(colorspace.DeviceGray); !isGray {
		return nil, ErrMaskColorSpace
	}
	if _, ok := mask.Filter.(filter.Unsupported); ok {
		return nil, ErrUnsupportedFilter
	}

	req := &Request{
		Filter:           mask.Filter,
		Mode:             colorspace.Gray,
		Width:            mask.Width,
		Height:           mask.Height,
		BitsPerComponent: mask.BitsPerComponent,
		Decode:           mask.Decode,
	}
	_, data, err := filter.Data(r, mask.Stream)
	if err == nil {
		var buf *Buffer
		buf, err = Decode(req, data)
		if err == nil {
			return buf, nil
		}
	}
	e := wrap(mask, req, data, err)
	e.Image = "soft mask of " + mask.String()
	return nil, e
}

func wrap(im *xobject.Image, req *Request, data []byte, err error) *Error {
	return &Error{
		Image:   im.String(),
		Filter:  im.Filter.Name(),
		Mode:    req.Mode,
		Width:   req.Width,
		Height:  req.Height,
		DataLen: len(data),
		Err:     err,
	}
}

// padPalette extends pal with black entries, so that every index used in
// pix refers to a palette entry.
func padPalette(pal color.Palette, pix []byte) color.Palette {
	maxIdx := -1
	for _, idx := range pix {
		maxIdx = max(maxIdx, int(idx))
	}
	if maxIdx < len(pal) {
		return pal
	}
	res := make(color.Palette, maxIdx+1)
	copy(res, pal)
	for i := len(pal); i < len(res); i++ {
		res[i] = color.Black
	}
	return res
}

var grayRamp = func() color.Palette {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}
	return pal
}()
