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

// Package filter identifies the codec of PDF image streams and reads the
// encoded image data.
//
// PDF streams can carry a chain of filters.  Transport filters (for example
// ASCII85Decode or FlateDecode in front of DCTDecode) are removed by the PDF
// library; the last filter in the chain determines how the remaining bytes
// are turned into pixels.
package filter

import (
	"bytes"
	"fmt"
	"io"

	"seehuhn.de/go/pdf"
)

// Filter is the image codec of a stream.
//
// The set of implementations is closed: [Flate], [DCT], [JPX],
// [Uncompressed] and [Unsupported].
type Filter interface {
	// Name returns the PDF filter name.
	Name() pdf.Name

	// Extension returns the file name extension used for images
	// stored with this filter, including the leading dot.
	Extension() string

	isFilter()
}

// Flate is the FlateDecode filter.  The decoded data are raw samples.
type Flate struct{}

// DCT is the DCTDecode filter.  The data are a JPEG stream.
type DCT struct{}

// JPX is the JPXDecode filter.  The data are a JPEG 2000 stream.
type JPX struct{}

// Uncompressed is used for streams without a /Filter entry.
// The data are raw samples.
type Uncompressed struct{}

// Unsupported is any other filter.  Images using such a filter are
// skipped.
type Unsupported struct {
	Filter pdf.Name
}

func (Flate) Name() pdf.Name          { return "FlateDecode" }
func (DCT) Name() pdf.Name            { return "DCTDecode" }
func (JPX) Name() pdf.Name            { return "JPXDecode" }
func (Uncompressed) Name() pdf.Name   { return "" }
func (u Unsupported) Name() pdf.Name { return u.Filter }

func (Flate) Extension() string        { return ".png" }
func (DCT) Extension() string          { return ".jpg" }
func (JPX) Extension() string          { return ".jp2" }
func (Uncompressed) Extension() string { return ".png" }
func (Unsupported) Extension() string  { return "" }

func (Flate) isFilter()        {}
func (DCT) isFilter()          {}
func (JPX) isFilter()          {}
func (Uncompressed) isFilter() {}
func (Unsupported) isFilter()  {}

// RawSamples reports whether f produces uncompressed sample data.
func RawSamples(f Filter) bool {
	switch f.(type) {
	case Flate, Uncompressed:
		return true
	default:
		return false
	}
}

// Of returns the image codec of a stream, together with the number of
// transport filters in front of it.
func Of(r pdf.Getter, stm *pdf.Stream) (Filter, int, error) {
	names, err := chain(r, stm.Dict["Filter"])
	if err != nil {
		return nil, 0, err
	}
	if len(names) == 0 {
		return Uncompressed{}, 0, nil
	}

	last := names[len(names)-1]
	var f Filter
	switch last {
	case "FlateDecode", "Fl":
		f = Flate{}
	case "DCTDecode", "DCT":
		f = DCT{}
	case "JPXDecode":
		f = JPX{}
	default:
		f = Unsupported{Filter: last}
	}
	return f, len(names) - 1, nil
}

func chain(r pdf.Getter, obj pdf.Object) ([]pdf.Name, error) {
	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	switch obj := obj.(type) {
	case nil:
		return nil, nil
	case pdf.Name:
		return []pdf.Name{obj}, nil
	case pdf.Array:
		res := make([]pdf.Name, 0, len(obj))
		for _, elem := range obj {
			name, err := pdf.GetName(r, elem)
			if err != nil {
				return nil, err
			}
			res = append(res, name)
		}
		return res, nil
	default:
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("invalid /Filter entry of type %T", obj),
		}
	}
}

// Data reads the contents of an image stream with all transport filters
// removed.  For [Flate] and [Uncompressed] streams the result are the raw
// samples, for [DCT] and [JPX] streams the result is the encoded image.
func Data(r pdf.Getter, stm *pdf.Stream) (Filter, []byte, error) {
	f, transport, err := Of(r, stm)
	if err != nil {
		return nil, nil, err
	}

	var body io.Reader
	switch {
	case RawSamples(f):
		rc, err := pdf.DecodeStream(r, stm, 0)
		if err != nil {
			return f, nil, err
		}
		defer rc.Close()
		body = rc
	case transport > 0:
		rc, err := pdf.DecodeStream(r, stm, transport)
		if err != nil {
			return f, nil, err
		}
		defer rc.Close()
		body = rc
	default:
		// the image codec is the only filter
		if seeker, ok := stm.R.(io.Seeker); ok {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return f, nil, err
			}
		}
		body = stm.R
	}

	buf := &bytes.Buffer{}
	_, err = buf.ReadFrom(body)
	if err != nil {
		return f, buf.Bytes(), err
	}
	return f, buf.Bytes(), nil
}
