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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/pdfimages/extract"
)

// intList is a flag which accepts comma separated integers.  The flag can
// be repeated.
type intList []int

func (l *intList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid number %q", part)
		}
		*l = append(*l, v)
	}
	return nil
}

// rangeFlag is a flag which accepts an inclusive page range, written as
// A-B or A,B.
type rangeFlag struct {
	r *extract.PageRange
}

func (f *rangeFlag) String() string {
	if f == nil || f.r == nil {
		return ""
	}
	return f.r.String()
}

func (f *rangeFlag) Set(s string) error {
	sep := strings.IndexAny(s, "-,")
	if sep < 0 {
		return fmt.Errorf("invalid page range %q (expected A-B)", s)
	}
	first, err1 := strconv.Atoi(strings.TrimSpace(s[:sep]))
	last, err2 := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err1 != nil || err2 != nil {
		return fmt.Errorf("invalid page range %q (expected A-B)", s)
	}
	if first > last {
		return fmt.Errorf("invalid page range %q (first page after last page)", s)
	}
	f.r = &extract.PageRange{First: first, Last: last}
	return nil
}
