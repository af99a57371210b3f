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

// Package colorspace reads PDF color space descriptions and maps them to
// the pixel formats used for decoding image data.
//
// Only the information needed to unpack image samples is kept.  Full color
// management (CIE based spaces, ICC transforms, Separation/DeviceN tint
// transforms) is out of scope; such spaces are mapped to a target format by
// the explicit fallback rules of a [Policy].
package colorspace

import (
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/pdf"
)

// PDF 2.0 sections: 8.6.4 8.6.5.5 8.6.6.3

// Color space families recognized by [Parse].
const (
	FamilyDeviceGray pdf.Name = "DeviceGray"
	FamilyDeviceRGB  pdf.Name = "DeviceRGB"
	FamilyDeviceCMYK pdf.Name = "DeviceCMYK"
	FamilyICCBased   pdf.Name = "ICCBased"
	FamilyIndexed    pdf.Name = "Indexed"
)

// maxDepth limits the nesting of ICCBased alternates and Indexed bases.
const maxDepth = 8

// Space is a parsed PDF color space.
//
// The set of implementations is closed: [DeviceGray], [DeviceRGB],
// [DeviceCMYK], [*Indexed], [*ICCBased] and [Unknown].
type Space interface {
	// Family returns the PDF name of the color space family.
	Family() pdf.Name

	isSpace()
}

// DeviceGray is the DeviceGray color space.
type DeviceGray struct{}

// DeviceRGB is the DeviceRGB color space.
type DeviceRGB struct{}

// DeviceCMYK is the DeviceCMYK color space.
type DeviceCMYK struct{}

// Indexed is an Indexed color space.
type Indexed struct {
	// Base is the color space of the lookup table entries.
	Base Space

	// HiVal is the largest valid index, in the range 0 to 255.
	HiVal int

	// Lookup holds (HiVal+1)*n bytes, where n is the number of components
	// of Base.  The table may be shorter than that in malformed files.
	Lookup []byte
}

// ICCBased is an ICC-based color space.
type ICCBased struct {
	// N is the number of color components declared in the stream dictionary.
	N int

	// Alternate is the alternate color space, or nil if none is given.
	Alternate Space

	// Profile is the stream holding the ICC profile.
	Profile *pdf.Stream
}

// Unknown represents any color space which is not otherwise recognized,
// for example CalRGB, Lab, Separation or DeviceN.
type Unknown struct {
	Name pdf.Name
}

func (DeviceGray) Family() pdf.Name { return FamilyDeviceGray }
func (DeviceRGB) Family() pdf.Name  { return FamilyDeviceRGB }
func (DeviceCMYK) Family() pdf.Name { return FamilyDeviceCMYK }
func (*Indexed) Family() pdf.Name   { return FamilyIndexed }
func (*ICCBased) Family() pdf.Name  { return FamilyICCBased }
func (u Unknown) Family() pdf.Name  { return u.Name }

func (DeviceGray) isSpace() {}
func (DeviceRGB) isSpace()  {}
func (DeviceCMYK) isSpace() {}
func (*Indexed) isSpace()   {}
func (*ICCBased) isSpace()  {}
func (Unknown) isSpace()    {}

// Channels returns the number of color components of a sample in s.
// The result is 0 for [Unknown] spaces.
func Channels(s Space) int {
	switch s := s.(type) {
	case DeviceGray, *Indexed:
		return 1
	case DeviceRGB:
		return 3
	case DeviceCMYK:
		return 4
	case *ICCBased:
		if s.N > 0 {
			return s.N
		}
		if s.Alternate != nil {
			return Channels(s.Alternate)
		}
	}
	return 0
}

// Parse reads a color space from a PDF file.
//
// The argument obj is typically the value of the /ColorSpace entry of an
// image dictionary.  A missing (nil) color space gives an [Unknown] space
// with an empty name.  Errors are only returned if the file cannot be read;
// unrecognized color spaces are returned as [Unknown].
func Parse(r pdf.Getter, obj pdf.Object) (Space, error) {
	return parse(r, obj, 0)
}

func parse(r pdf.Getter, obj pdf.Object, depth int) (Space, error) {
	if depth > maxDepth {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("color spaces nested too deeply"),
		}
	}

	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	var name pdf.Name
	var args pdf.Array
	switch obj := obj.(type) {
	case nil:
		return Unknown{}, nil
	case pdf.Name:
		name = obj
	case pdf.Array:
		if len(obj) == 0 {
			return Unknown{}, nil
		}
		name, err = pdf.GetName(r, obj[0])
		if err != nil {
			return nil, err
		}
		args = obj[1:]
	default:
		return Unknown{}, nil
	}

	switch name {
	case FamilyDeviceGray:
		return DeviceGray{}, nil
	case FamilyDeviceRGB:
		return DeviceRGB{}, nil
	case FamilyDeviceCMYK:
		return DeviceCMYK{}, nil

	case FamilyICCBased:
		if len(args) < 1 {
			return Unknown{Name: name}, nil
		}
		stm, err := pdf.GetStream(r, args[0])
		if err != nil {
			return nil, fmt.Errorf("ICCBased: %w", err)
		} else if stm == nil {
			return Unknown{Name: name}, nil
		}
		res := &ICCBased{Profile: stm}
		if n, err := pdf.GetInteger(r, stm.Dict["N"]); err == nil {
			res.N = int(n)
		}
		if alt, ok := stm.Dict["Alternate"]; ok && alt != nil {
			res.Alternate, err = parse(r, alt, depth+1)
			if err != nil {
				return nil, fmt.Errorf("ICCBased alternate: %w", err)
			}
		}
		return res, nil

	case FamilyIndexed:
		if len(args) < 3 {
			return Unknown{Name: name}, nil
		}
		base, err := parse(r, args[0], depth+1)
		if err != nil {
			return nil, fmt.Errorf("Indexed base: %w", err)
		}
		hiVal, err := pdf.GetInteger(r, args[1])
		if err != nil {
			return nil, fmt.Errorf("Indexed high value: %w", err)
		}
		if hiVal < 0 || hiVal > 255 {
			return nil, &pdf.MalformedFileError{
				Err: fmt.Errorf("Indexed: invalid high value %d", hiVal),
			}
		}
		lookup, err := readLookup(r, args[2])
		if err != nil {
			return nil, fmt.Errorf("Indexed lookup table: %w", err)
		}
		return &Indexed{
			Base:   base,
			HiVal:  int(hiVal),
			Lookup: lookup,
		}, nil

	default:
		return Unknown{Name: name}, nil
	}
}

func readLookup(r pdf.Getter, obj pdf.Object) ([]byte, error) {
	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	switch obj := obj.(type) {
	case pdf.String:
		return []byte(obj), nil
	case *pdf.Stream:
		return ReadStream(r, obj)
	default:
		return nil, nil
	}
}

// ReadStream returns the fully decoded contents of a stream.
func ReadStream(r pdf.Getter, stm *pdf.Stream) ([]byte, error) {
	body, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(body)
	closeErr := body.Close()
	if err != nil {
		return nil, err
	}
	return data, closeErr
}
