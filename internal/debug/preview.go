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

package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Preview writes images to PNG files, so that they can be inspected with
// an external viewer.
type Preview struct {
	// Dir is the directory where preview files are written.
	Dir string

	// MaxSize limits the width and height of preview images.  Larger images
	// are scaled down.  If MaxSize is zero, images are written at full size.
	MaxSize int

	// If Out is set, the name of every preview file is written to Out.
	Out io.Writer
}

// Show writes img to a preview file whose name is derived from title.
func (p *Preview) Show(img image.Image, title string) error {
	fname := filepath.Join(p.Dir, PreviewName(title))
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}

	err = png.Encode(fd, p.scale(img))
	if err != nil {
		fd.Close()
		return fmt.Errorf("preview %q: %w", title, err)
	}
	err = fd.Close()
	if err != nil {
		return err
	}

	if p.Out != nil {
		fmt.Fprintf(p.Out, "preview: %s\n", fname)
	}
	return nil
}

func (p *Preview) scale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if p.MaxSize <= 0 || (w <= p.MaxSize && h <= p.MaxSize) {
		return img
	}

	if w >= h {
		h = max(1, h*p.MaxSize/w)
		w = p.MaxSize
	} else {
		w = max(1, w*p.MaxSize/h)
		h = p.MaxSize
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// PreviewName turns a preview title into a file name.
func PreviewName(title string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, title)
	return "preview_" + clean + ".png"
}
