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
	"slices"
)

// ErrPageRange is returned by [SelectPages] for pages which are not part of
// the document.
var ErrPageRange = errors.New("page out of range")

// PageRange is an inclusive range of 1-based page numbers.
type PageRange struct {
	First, Last int
}

func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// SelectPages returns the pages to process, in increasing order and
// without duplicates.
//
// The explicit pages and the pages in rng are merged.  If neither is
// given, all numPages pages of the document are selected.  Pages are
// numbered starting from 1.
func SelectPages(explicit []int, rng *PageRange, numPages int) ([]int, error) {
	if len(explicit) == 0 && rng == nil {
		pages := make([]int, numPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	pages := slices.Clone(explicit)
	if rng != nil {
		if rng.First > rng.Last {
			return nil, fmt.Errorf("invalid page range %s", rng)
		}
		for p := rng.First; p <= rng.Last; p++ {
			pages = append(pages, p)
		}
	}

	for _, p := range pages {
		if p < 1 || p > numPages {
			return nil, fmt.Errorf("%w: page %d (document has %d pages)",
				ErrPageRange, p, numPages)
		}
	}

	slices.Sort(pages)
	return slices.Compact(pages), nil
}
