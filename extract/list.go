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
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfimages/filter"
)

// FileName returns the output file name for the image name on the given
// page.  In list mode, ext is empty.
//
// Characters which cannot safely appear in file names are replaced by
// underscores.
func FileName(page int, name pdf.Name, ext string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		default:
			return r
		}
	}, string(name))
	return fmt.Sprintf("Page_%d_%s%s", page, clean, ext)
}

// List returns the output names, without extension, of all selected
// images.  No image data is decoded.  Images with an unsupported filter
// are left out, since [Extractor.Extract] never writes them.
//
// Names are listed in the order in which [Extractor.Extract] processes
// the images.
func (e *Extractor) List() []string {
	var names []string
	for _, pageNo := range e.pages {
		for _, im := range e.pageImages(pageNo) {
			if _, ok := im.Filter.(filter.Unsupported); ok {
				continue
			}
			names = append(names, FileName(im.Page, im.Name, ""))
		}
	}
	return names
}

// PrintList writes names to w, followed by a summary line.  Nothing is
// written if names is empty.
func PrintList(w io.Writer, names []string, numPages int) {
	if len(names) == 0 {
		return
	}

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + strings.ReplaceAll(name, "'", `\'`) + "'"
	}
	fmt.Fprintln(w, "["+strings.Join(quoted, ", ")+"]")

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%d items on %d pages\n", len(names), numPages)
}
