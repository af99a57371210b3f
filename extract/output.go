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

package extract

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

var errExists = errors.New("file exists (use -f to overwrite)")

// write stores an image in the output directory.  The format is chosen by
// the file name extension.  If img is nil, data is written unchanged.
func (e *Extractor) write(fname string, img image.Image, data []byte) error {
	path := filepath.Join(e.cfg.OutDir, fname)

	w, err := e.openOutputFile(path)
	if err != nil {
		return err
	}

	switch {
	case img == nil:
		_, err = w.Write(data)
	case filepath.Ext(fname) == ".jpg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: e.cfg.JPEGQuality})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		w.Close()
		os.Remove(path)
		return fmt.Errorf("%s: %w", fname, err)
	}
	return w.Close()
}

// openOutputFile opens a file for writing.  Existing files are only
// overwritten if the Force option is set.
func (e *Extractor) openOutputFile(path string) (io.WriteCloser, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if e.cfg.Force {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0666)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%s: %w", path, errExists)
		}
		return nil, err
	}
	return file, nil
}
