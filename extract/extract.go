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

// Package extract implements the image extraction pipeline.
//
// For every selected page, the image XObjects are enumerated, decoded
// according to their filter and color space, optionally composited with
// their soft mask onto a background color, and written to files named
// after the page number and the XObject name.
//
// Problems with individual images are logged and counted; they never stop
// the extraction of the remaining images.
package extract

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/pdfimages/colorspace"
	"seehuhn.de/go/pdfimages/composite"
	"seehuhn.de/go/pdfimages/decode"
	"seehuhn.de/go/pdfimages/filter"
	"seehuhn.de/go/pdfimages/internal/debug"
	"seehuhn.de/go/pdfimages/progress"
	"seehuhn.de/go/pdfimages/xobject"
)

// DefaultJPEGQuality is used when Config.JPEGQuality is zero.
const DefaultJPEGQuality = 95

// Config controls an extraction run.
type Config struct {
	// Pages lists the 1-based pages to process, see [SelectPages].
	// If Pages is empty, all pages are processed.
	Pages []int

	// If Image is set, only the XObject with this name is processed.
	Image pdf.Name

	// Background is the color onto which masked images are composited.
	Background color.NRGBA

	// Policy maps color spaces to pixel formats.  The zero value is
	// equivalent to [colorspace.LegacyPolicy].
	Policy colorspace.Policy

	// OutDir is the directory for output files.  The default is the
	// current directory.
	OutDir string

	// Force allows existing output files to be overwritten.
	Force bool

	// JPEGQuality is the quality used when writing .jpg files.
	JPEGQuality int

	// Debug enables diagnostic output on Stdout and preview images of the
	// color data and the mask of masked images.
	Debug bool

	// Interactive shows every image through Viewer and asks for
	// confirmation through Prompt before it is written.
	Interactive bool

	Stdout io.Writer
	Log    *log.Logger
	Prompt Prompter
	Viewer Viewer

	// If Progress is set and Interactive is false, a progress indicator is
	// written to Progress.
	Progress io.Writer
}

// InputError indicates that the input file cannot be used at all.
type InputError struct {
	File string
	Err  error
}

func (err *InputError) Error() string {
	if err.File == "" {
		return fmt.Sprintf("invalid input: %v", err.Err)
	}
	return fmt.Sprintf("%s: %v", err.File, err.Err)
}

func (err *InputError) Unwrap() error {
	return err.Err
}

// Summary counts the outcomes of an extraction run.
type Summary struct {
	Pages  int
	Images int

	// Files lists the names of the files written, in order.
	Files []string

	// Skipped counts images which were deliberately not written: images
	// with unsupported filters, images declined in interactive mode and
	// images whose output file already exists.
	Skipped int

	// Failed counts images which could not be decoded, composited or
	// written, and malformed XObject entries.
	Failed int
}

// Extractor extracts images from a PDF document.
type Extractor struct {
	r     pdf.Getter
	cfg   Config
	pages []int
	log   *log.Logger

	summary *Summary
}

// New prepares the extraction of images from r.
func New(r pdf.Getter, cfg *Config) (*Extractor, error) {
	numPages, err := pagetree.NumPages(r)
	if err != nil {
		return nil, &InputError{Err: err}
	}
	pages, err := SelectPages(cfg.Pages, nil, numPages)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		r:     r,
		cfg:   *cfg,
		pages: pages,
	}
	if e.cfg.Log == nil {
		e.cfg.Log = log.New(os.Stderr, "pdf-images: ", 0)
	}
	if e.cfg.Stdout == nil {
		e.cfg.Stdout = os.Stdout
	}
	if e.cfg.OutDir == "" {
		e.cfg.OutDir = "."
	}
	if e.cfg.JPEGQuality == 0 {
		e.cfg.JPEGQuality = DefaultJPEGQuality
	}
	if e.cfg.Interactive && e.cfg.Prompt == nil {
		e.cfg.Prompt = NewPrompter(os.Stdin, e.cfg.Stdout)
	}
	e.log = e.cfg.Log
	return e, nil
}

// Pages returns the selected page numbers.
func (e *Extractor) Pages() []int {
	return e.pages
}

// Extract writes all selected images to files.
//
// An error is only returned if the run cannot continue, for example if
// the operator input ends in interactive mode.  Problems with individual
// images are logged and counted in the summary.
func (e *Extractor) Extract() (*Summary, error) {
	s := &Summary{Pages: len(e.pages)}
	e.summary = s
	defer func() { e.summary = nil }()

	var bar *progress.Bar
	if e.cfg.Progress != nil && !e.cfg.Interactive {
		bar = progress.New(e.cfg.Progress, len(e.pages))
	}

	for i, pageNo := range e.pages {
		for _, im := range e.pageImages(pageNo) {
			s.Images++
			err := e.extractImage(im)
			if err != nil {
				return s, err
			}
		}
		if bar != nil {
			bar.Set(i + 1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	return s, nil
}

// pageImages returns the selected images on a page.  Malformed entries are
// logged and left out.
func (e *Extractor) pageImages(pageNo int) []*xobject.Image {
	images, err := xobject.Page(e.r, pageNo)
	if err != nil {
		e.log.Print(err)
		if e.summary != nil {
			e.summary.Failed++
		}
	}
	if e.cfg.Image == "" {
		return images
	}

	var res []*xobject.Image
	for _, im := range images {
		if im.Name == e.cfg.Image {
			res = append(res, im)
		}
	}
	return res
}

// extractImage runs the pipeline for a single image.  Only errors which
// must end the run are returned.
func (e *Extractor) extractImage(im *xobject.Image) error {
	s := e.summary

	space, err := colorspace.Parse(e.r, im.ColorSpace)
	if err != nil {
		e.log.Printf("%s: %v", im, err)
		space = colorspace.Unknown{}
	}
	res := e.cfg.Policy.Mode(e.r, space)
	if e.cfg.Debug {
		debug.Dump(e.cfg.Stdout, e.r, im, space, res)
		if res.Fallback {
			e.log.Printf("%s: decoding as %s: %s", im, res.Mode, res.Reason)
		}
	}

	buf, data, err := decode.Image(e.r, im, space, res.Mode)
	switch {
	case errors.Is(err, decode.ErrUnsupportedFilter):
		if e.cfg.Debug {
			e.log.Printf("%s: skipped, unsupported filter /%s", im, im.Filter.Name())
		}
		s.Skipped++
		return nil
	case errors.Is(err, decode.ErrNoDecoder):
		if im.SMask != nil {
			e.log.Printf("%s: no JPEG 2000 decoder, soft mask ignored", im)
		}
		return e.save(im, FileName(im.Page, im.Name, im.Filter.Extension()), nil, data)
	case err != nil:
		e.log.Print(err)
		s.Failed++
		return nil
	}

	ext := im.Filter.Extension()
	if _, isJPX := im.Filter.(filter.JPX); isJPX {
		ext = ".png"
	}
	var out image.Image = buf

	if im.SMask != nil {
		if im.SMask.Bounds() != im.Bounds() {
			e.log.Print(sizeMismatch(im))
			s.Failed++
			return nil
		}
		mask, err := decode.Mask(e.r, im.SMask)
		switch {
		case errors.Is(err, decode.ErrMaskColorSpace), errors.Is(err, decode.ErrUnsupportedFilter):
			e.log.Printf("%s: soft mask ignored: %v", im, err)
		case err != nil:
			e.log.Print(err)
			s.Failed++
			return nil
		default:
			title := FileName(im.Page, im.Name, ext)
			if e.cfg.Debug {
				e.show(buf, title+" color")
				e.show(mask, title+" mask")
			}
			out, err = composite.Apply(buf, mask, e.cfg.Background)
			if err != nil {
				e.log.Printf("%s: %v", im, err)
				s.Failed++
				return nil
			}
			ext = composite.Extension(ext, e.cfg.Background)
		}
	}

	return e.save(im, FileName(im.Page, im.Name, ext), out, data)
}

var errMaskSize = errors.New("mask size differs from image size")

// sizeMismatch describes an image whose soft mask has different
// dimensions.
func sizeMismatch(im *xobject.Image) *composite.Error {
	ib, mb := im.Bounds(), im.SMask.Bounds()
	return &composite.Error{
		Image: fmt.Sprintf("%s (%dx%d)", im, ib.Dx(), ib.Dy()),
		Mask:  fmt.Sprintf("soft mask (%dx%d)", mb.Dx(), mb.Dy()),
		Err:   errMaskSize,
	}
}

// save asks for confirmation in interactive mode and writes the image.
// If img is nil, the encoded data is written unchanged.
func (e *Extractor) save(im *xobject.Image, fname string, img image.Image, data []byte) error {
	s := e.summary

	if e.cfg.Interactive {
		if img != nil {
			e.show(img, fname)
		}
		ok, err := e.cfg.Prompt.Confirm(fmt.Sprintf("Save image %s? y/n", fname))
		if err != nil {
			return fmt.Errorf("%s: %w", im, err)
		}
		if !ok {
			s.Skipped++
			return nil
		}
	}

	err := e.write(fname, img, data)
	switch {
	case errors.Is(err, errExists):
		e.log.Printf("%s: %v", im, err)
		s.Skipped++
	case err != nil:
		e.log.Printf("%s: %v", im, err)
		s.Failed++
	default:
		s.Files = append(s.Files, fname)
	}
	return nil
}

func (e *Extractor) show(img image.Image, title string) {
	if e.cfg.Viewer == nil {
		return
	}
	if err := e.cfg.Viewer.Show(img, title); err != nil {
		e.log.Printf("cannot show %s: %v", title, err)
	}
}
