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

// Package testpdf builds small in-memory PDF documents for tests.
package testpdf

import (
	"bytes"
	"compress/zlib"
	"testing"

	"seehuhn.de/go/pdf"
)

// Doc is an in-memory PDF document under construction.
type Doc struct {
	*pdf.Writer

	t        testing.TB
	buf      *bytes.Buffer
	pagesRef pdf.Reference
	pages    pdf.Array
}

// New starts a new document.
func New(t testing.TB) *Doc {
	t.Helper()
	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, pdf.V1_7, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &Doc{
		Writer:   w,
		t:        t,
		buf:      buf,
		pagesRef: w.Alloc(),
	}
}

// Stream stores data as a stream with the given dictionary.  The data is
// stored as given, so dict must describe any filters which were applied.
func (d *Doc) Stream(dict pdf.Dict, data []byte) pdf.Reference {
	d.t.Helper()

	ref := d.Alloc()
	w, err := d.OpenStream(ref, dict)
	if err != nil {
		d.t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		d.t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		d.t.Fatal(err)
	}
	return ref
}

// FlateStream compresses data and stores it as a FlateDecode stream.
func (d *Doc) FlateStream(dict pdf.Dict, data []byte) pdf.Reference {
	d.t.Helper()

	buf := &bytes.Buffer{}
	zw := zlib.NewWriter(buf)
	if _, err := zw.Write(data); err != nil {
		d.t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		d.t.Fatal(err)
	}

	streamDict := pdf.Dict{}
	for key, val := range dict {
		streamDict[key] = val
	}
	streamDict["Filter"] = pdf.Name("FlateDecode")
	return d.Stream(streamDict, buf.Bytes())
}

// AddPage appends a page whose resource dictionary has the given XObject
// sub-dictionary.  If xobjects is nil, the page has no XObject resources.
// The XObject dictionary is stored as an indirect object, as most PDF
// writers do.
func (d *Doc) AddPage(xobjects pdf.Dict) pdf.Reference {
	d.t.Helper()

	resources := pdf.Dict{}
	if xobjects != nil {
		xRef := d.Alloc()
		d.put(xRef, xobjects)
		resources["XObject"] = xRef
	}

	ref := d.Alloc()
	d.put(ref, pdf.Dict{
		"Type":      pdf.Name("Page"),
		"Parent":    d.pagesRef,
		"MediaBox":  pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(200), pdf.Integer(200)},
		"Resources": resources,
	})
	d.pages = append(d.pages, ref)
	return ref
}

// Finish writes the page tree, closes the document and opens the result
// for reading.
func (d *Doc) Finish() *pdf.Reader {
	d.t.Helper()

	r, err := pdf.NewReader(bytes.NewReader(d.Bytes()), nil)
	if err != nil {
		d.t.Fatal(err)
	}
	return r
}

// Bytes writes the page tree, closes the document and returns the
// encoded PDF file.  Calling Bytes more than once returns the same data.
func (d *Doc) Bytes() []byte {
	d.t.Helper()

	if d.Writer != nil {
		d.put(d.pagesRef, pdf.Dict{
			"Type":  pdf.Name("Pages"),
			"Kids":  d.pages,
			"Count": pdf.Integer(len(d.pages)),
		})
		d.GetMeta().Catalog.Pages = d.pagesRef
		if err := d.Close(); err != nil {
			d.t.Fatal(err)
		}
		d.Writer = nil
	}
	return d.buf.Bytes()
}

func (d *Doc) put(ref pdf.Reference, obj pdf.Object) {
	d.t.Helper()
	if err := d.Put(ref, obj); err != nil {
		d.t.Fatal(err)
	}
}

// ImageDict returns the dictionary of an 8 bit image XObject.
func ImageDict(width, height int, colorSpace pdf.Object) pdf.Dict {
	return pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(width),
		"Height":           pdf.Integer(height),
		"ColorSpace":       colorSpace,
		"BitsPerComponent": pdf.Integer(8),
	}
}
