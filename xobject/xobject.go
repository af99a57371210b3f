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

// Package xobject enumerates the image XObjects of PDF pages.
package xobject

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/pdfimages/filter"
)

// PDF 2.0 sections: 8.9.5 11.6.5.3

// MaxPixels is the largest number of pixels accepted for a single image.
const MaxPixels = 1 << 28

// Image describes an image XObject on a page.
type Image struct {
	// Page is the 1-based number of the page which refers to the image.
	Page int

	// Name is the key of the image in the page's XObject resources.
	// For soft masks this is the name of the parent image.
	Name pdf.Name

	// Ref is the reference of the image stream, or the zero reference
	// if the stream is stored directly in the resource dictionary.
	Ref pdf.Reference

	Width            int
	Height           int
	BitsPerComponent int

	// ColorSpace is the unparsed /ColorSpace entry.
	ColorSpace pdf.Object

	// Decode holds the /Decode array, one [min max] pair per color
	// component.  It is nil if the entry is missing or malformed.
	Decode []float64

	Filter filter.Filter
	Stream *pdf.Stream

	// SMask describes the soft mask of the image, if any.
	SMask *Image

	// Metadata is the unparsed /Metadata entry, if any.
	Metadata pdf.Object
}

// Bounds returns the pixel rectangle of the image.
func (im *Image) Bounds() rect.IntRect {
	return rect.IntRect{XMax: im.Width, YMax: im.Height}
}

// String identifies the image in diagnostic messages.
func (im *Image) String() string {
	s := fmt.Sprintf("page %d /%s", im.Page, im.Name)
	if im.Ref != 0 {
		s += " (" + im.Ref.String() + ")"
	}
	return s
}

// Page returns the images in the XObject resources of the given page.
// Pages are numbered starting from 1.
//
// Images are returned in the order of their names.  Entries which are not
// image streams are ignored.  If individual entries are malformed, the
// remaining images are returned together with an error describing the
// problems.
func Page(r pdf.Getter, pageNo int) ([]*Image, error) {
	_, pageDict, err := pagetree.GetPage(r, pageNo-1)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNo, err)
	}

	resources, err := pdf.GetDict(r, pageDict["Resources"])
	if err != nil {
		return nil, fmt.Errorf("page %d resources: %w", pageNo, err)
	}
	xObjects, err := pdf.GetDict(r, resources["XObject"])
	if err != nil {
		return nil, fmt.Errorf("page %d XObjects: %w", pageNo, err)
	}

	names := maps.Keys(xObjects)
	slices.Sort(names)

	var res []*Image
	var errs []error
	for _, name := range names {
		obj := xObjects[name]
		stm, err := pdf.GetStream(r, obj)
		if err != nil {
			errs = append(errs, fmt.Errorf("page %d /%s: %w", pageNo, name, err))
			continue
		} else if stm == nil {
			continue
		}

		subtype, _ := pdf.GetName(r, stm.Dict["Subtype"])
		if subtype != "Image" {
			continue
		}

		im, err := FromStream(r, stm)
		if err != nil {
			errs = append(errs, fmt.Errorf("page %d /%s: %w", pageNo, name, err))
			continue
		}
		im.Page = pageNo
		im.Name = name
		if ref, ok := obj.(pdf.Reference); ok {
			im.Ref = ref
		}
		if im.SMask != nil {
			im.SMask.Page = pageNo
			im.SMask.Name = name
		}
		res = append(res, im)
	}

	return res, errors.Join(errs...)
}

// FromStream reads the description of an image stream.
// The Page and Name fields of the result are left empty.
func FromStream(r pdf.Getter, stm *pdf.Stream) (*Image, error) {
	return fromStream(r, stm, true)
}

func fromStream(r pdf.Getter, stm *pdf.Stream, withMask bool) (*Image, error) {
	dict := stm.Dict

	width, err := pdf.GetInteger(r, dict["Width"])
	if err != nil {
		return nil, fmt.Errorf("image width: %w", err)
	}
	height, err := pdf.GetInteger(r, dict["Height"])
	if err != nil {
		return nil, fmt.Errorf("image height: %w", err)
	}
	if width <= 0 || height <= 0 || width > MaxPixels/height {
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("invalid image size %dx%d", width, height),
		}
	}

	bpc := pdf.Integer(8)
	if obj, ok := dict["BitsPerComponent"]; ok {
		bpc, err = pdf.GetInteger(r, obj)
		if err != nil {
			return nil, fmt.Errorf("bits per component: %w", err)
		}
	}
	if isMask, _ := pdf.GetBoolean(r, dict["ImageMask"]); isMask {
		bpc = 1
	}

	f, _, err := filter.Of(r, stm)
	if err != nil {
		return nil, err
	}

	im := &Image{
		Width:            int(width),
		Height:           int(height),
		BitsPerComponent: int(bpc),
		ColorSpace:       dict["ColorSpace"],
		Decode:           readDecode(r, dict["Decode"]),
		Filter:           f,
		Stream:           stm,
		Metadata:         dict["Metadata"],
	}

	if smask, ok := dict["SMask"]; ok && withMask {
		maskStm, err := pdf.GetStream(r, smask)
		if err != nil {
			return nil, fmt.Errorf("soft mask: %w", err)
		}
		if maskStm != nil {
			im.SMask, err = fromStream(r, maskStm, false)
			if err != nil {
				return nil, fmt.Errorf("soft mask: %w", err)
			}
			if ref, ok := smask.(pdf.Reference); ok {
				im.SMask.Ref = ref
			}
		}
	}

	return im, nil
}

func readDecode(r pdf.Getter, obj pdf.Object) []float64 {
	a, err := pdf.GetArray(r, obj)
	if err != nil || len(a) == 0 || len(a)%2 != 0 {
		return nil
	}
	res := make([]float64, len(a))
	for i, elem := range a {
		x, err := pdf.GetNumber(r, elem)
		if err != nil {
			return nil
		}
		res[i] = float64(x)
	}
	return res
}
