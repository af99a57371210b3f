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

// Package debug prints diagnostic information about image XObjects and
// writes preview images of intermediate buffers.
package debug

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfimages/colorspace"
	"seehuhn.de/go/pdfimages/xobject"
)

var (
	rule  = strings.Repeat("-", 80)
	begin = strings.Repeat(">", 80)
	end   = strings.Repeat("<", 80)
)

// Dump writes a description of the image im to w.
//
// The description includes the image dictionary, the parsed color space
// together with the pixel format chosen for it, ICC profile information,
// the XMP metadata and the same information for the soft mask.
func Dump(w io.Writer, r pdf.Getter, im *xobject.Image, space colorspace.Space, res colorspace.Resolution) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Node: %s\n", im)
	fmt.Fprintf(w, "Dict: %s\n", formatDict(im.Stream.Dict))
	fmt.Fprintf(w, "ColorSpace: %s\n", colorspace.String(space))
	fmt.Fprintf(w, "Filter: %s\n", filterName(im))
	if res.Fallback {
		fmt.Fprintf(w, "Mode: %s (fallback: %s)\n", res.Mode, res.Reason)
	} else {
		fmt.Fprintf(w, "Mode: %s\n", res.Mode)
	}
	if iccSpace, ok := space.(*colorspace.ICCBased); ok {
		Profile(w, r, iccSpace)
	}
	if im.Metadata != nil {
		fmt.Fprintln(w, "Metadata:")
		Metadata(w, r, im.Metadata)
	}

	mask := im.SMask
	if mask == nil {
		return
	}
	fmt.Fprintf(w, "MaskNode: %s\n", formatDict(mask.Stream.Dict))
	maskSpace, err := colorspace.Parse(r, mask.ColorSpace)
	if err != nil {
		fmt.Fprintf(w, "MaskColorSpace: %v\n", err)
	} else {
		fmt.Fprintf(w, "MaskColorSpace: %s\n", colorspace.String(maskSpace))
	}
	fmt.Fprintf(w, "MaskFilter: %s\n", filterName(mask))
	if mask.Metadata != nil {
		fmt.Fprintln(w, "MaskMetadata:")
		Metadata(w, r, mask.Metadata)
	}
}

func formatDict(dict pdf.Dict) string {
	buf := &strings.Builder{}
	if err := pdf.Format(buf, pdf.OptPretty, dict); err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return buf.String()
}

func filterName(im *xobject.Image) string {
	name := im.Filter.Name()
	if name == "" {
		return "none"
	}
	return "/" + string(name)
}

// Metadata writes the metadata stream obj to w.  XMP packets are
// reformatted for readability.  Data which cannot be parsed as XMP is
// shown as it is.
func Metadata(w io.Writer, r pdf.Getter, obj pdf.Object) {
	fmt.Fprintln(w, begin)
	defer fmt.Fprintln(w, end)

	stm, err := pdf.GetStream(r, obj)
	if err != nil {
		fmt.Fprintf(w, "cannot read metadata: %v\n", err)
		return
	} else if stm == nil {
		fmt.Fprintln(w, "missing metadata stream")
		return
	}
	data, err := colorspace.ReadStream(r, stm)
	if err != nil {
		fmt.Fprintf(w, "cannot read metadata: %v\n", err)
		return
	}

	packet, err := xmp.Read(bytes.NewReader(data))
	if err == nil {
		buf := &bytes.Buffer{}
		err = packet.Write(buf, &xmp.PacketOptions{Pretty: true})
		if err == nil {
			w.Write(buf.Bytes())
			if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
				fmt.Fprintln(w)
			}
			return
		}
	}

	w.Write(data)
	if !bytes.HasSuffix(data, []byte("\n")) {
		fmt.Fprintln(w)
	}
}

// Profile writes a summary of the ICC profile of s to w.
func Profile(w io.Writer, r pdf.Getter, s *colorspace.ICCBased) {
	p, err := colorspace.DecodeProfile(r, s)
	if err != nil {
		fmt.Fprintf(w, "Profile: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Profile: %v, %d components (/N %d)\n",
		p.ColorSpace, p.ColorSpace.NumComponents(), s.N)
}
