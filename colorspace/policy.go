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

package colorspace

import (
	"bytes"
	"fmt"
	"image/color"

	"seehuhn.de/go/icc"
	"seehuhn.de/go/pdf"
)

// Mode is the pixel format used to unpack image samples.
type Mode int

// These are the supported pixel formats.
const (
	RGB Mode = iota
	CMYK
	Palette
	Gray
)

// Channels returns the number of bytes per pixel of decoded image data.
func (m Mode) Channels() int {
	switch m {
	case RGB:
		return 3
	case CMYK:
		return 4
	default:
		return 1
	}
}

func (m Mode) String() string {
	switch m {
	case RGB:
		return "RGB"
	case CMYK:
		return "CMYK"
	case Palette:
		return "P"
	case Gray:
		return "L"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Policy describes how color spaces are mapped to pixel formats.
//
// The mapping is best effort.  Whenever a color space is not handled
// exactly, the policy selects a fallback format instead of failing; the
// choice is reported in [Resolution.Fallback] so that callers can tell a
// fallback apart from a genuine error.
type Policy struct {
	// CMYK selects CMYK decoding for DeviceCMYK.  If unset, DeviceCMYK
	// images use Fallback.
	CMYK bool

	// Gray selects Gray decoding for DeviceGray images.  If unset,
	// DeviceGray images use Fallback.
	Gray bool

	// UseProfile makes ICCBased color spaces without an /Alternate entry
	// use the color space declared in the ICC profile header.
	UseProfile bool

	// Fallback is used for color spaces which are not recognized.
	Fallback Mode

	// ICCFallback is used for ICCBased color spaces without /Alternate.
	ICCFallback Mode
}

// DefaultPolicy decodes RGB, CMYK and Indexed images natively and uses RGB
// for everything else.
var DefaultPolicy = Policy{
	CMYK:        true,
	Fallback:    RGB,
	ICCFallback: RGB,
}

// LegacyPolicy is like DefaultPolicy, but treats DeviceCMYK as an
// unrecognized color space.
var LegacyPolicy = Policy{
	Fallback:    RGB,
	ICCFallback: RGB,
}

// Resolution is the outcome of mapping a color space to a pixel format.
type Resolution struct {
	Mode Mode

	// Fallback is true if Mode was chosen by a fallback rule.
	Fallback bool

	// Reason explains the fallback.
	Reason string
}

// Mode maps the color space s to a pixel format.
//
// The Getter r is only used to read ICC profiles when p.UseProfile is set;
// it may be nil otherwise.
func (p Policy) Mode(r pdf.Getter, s Space) Resolution {
	return p.mode(r, s, 0)
}

func (p Policy) mode(r pdf.Getter, s Space, depth int) Resolution {
	if depth > maxDepth {
		return p.fallback("color spaces nested too deeply")
	}

	switch s := s.(type) {
	case DeviceRGB:
		return Resolution{Mode: RGB}
	case DeviceCMYK:
		if p.CMYK {
			return Resolution{Mode: CMYK}
		}
		return p.fallback("DeviceCMYK disabled by policy")
	case DeviceGray:
		if p.Gray {
			return Resolution{Mode: Gray}
		}
		return p.fallback("DeviceGray disabled by policy")
	case *Indexed:
		return Resolution{Mode: Palette}
	case *ICCBased:
		if s.Alternate != nil {
			return p.mode(r, s.Alternate, depth+1)
		}
		if p.UseProfile && r != nil {
			if m, err := profileMode(r, s); err == nil {
				return Resolution{Mode: m}
			}
		}
		return Resolution{
			Mode:     p.ICCFallback,
			Fallback: true,
			Reason:   "ICCBased without /Alternate",
		}
	case Unknown:
		if s.Name == "" {
			return p.fallback("missing color space")
		}
		return p.fallback("unsupported color space " + string(s.Name))
	default:
		return p.fallback(fmt.Sprintf("unexpected color space %T", s))
	}
}

func (p Policy) fallback(reason string) Resolution {
	return Resolution{
		Mode:     p.Fallback,
		Fallback: true,
		Reason:   reason,
	}
}

// DecodeProfile reads and decodes the ICC profile of s.
func DecodeProfile(r pdf.Getter, s *ICCBased) (*icc.Profile, error) {
	data, err := ReadStream(r, s.Profile)
	if err != nil {
		return nil, err
	}
	return icc.Decode(data)
}

func profileMode(r pdf.Getter, s *ICCBased) (Mode, error) {
	p, err := DecodeProfile(r, s)
	if err != nil {
		return 0, err
	}
	switch p.ColorSpace {
	case icc.GraySpace:
		return Gray, nil
	case icc.RGBSpace:
		return RGB, nil
	case icc.CMYKSpace:
		return CMYK, nil
	default:
		return 0, fmt.Errorf("unsupported ICC color space %v", p.ColorSpace)
	}
}

// Palette returns the colors of the lookup table, converted to Go colors.
// Entries missing from a short lookup table are black.
func (s *Indexed) Palette() color.Palette {
	n := Channels(s.Base)
	if n == 0 {
		n = 3
	}

	pal := make(color.Palette, s.HiVal+1)
	for i := range pal {
		entry := make([]byte, n)
		if start := i * n; start < len(s.Lookup) {
			copy(entry, s.Lookup[start:])
		}
		switch n {
		case 1:
			pal[i] = color.Gray{Y: entry[0]}
		case 4:
			pal[i] = color.CMYK{C: entry[0], M: entry[1], Y: entry[2], K: entry[3]}
		default:
			pal[i] = color.RGBA{R: entry[0], G: entry[1], B: entry[2], A: 255}
		}
	}
	return pal
}

// String returns a short, human readable description of s.
func String(s Space) string {
	switch s := s.(type) {
	case nil:
		return "<nil>"
	case *Indexed:
		return fmt.Sprintf("[/Indexed %s %d <%d bytes>]",
			String(s.Base), s.HiVal, len(s.Lookup))
	case *ICCBased:
		b := &bytes.Buffer{}
		fmt.Fprintf(b, "[/ICCBased N=%d", s.N)
		if s.Alternate != nil {
			fmt.Fprintf(b, " Alternate=%s", String(s.Alternate))
		}
		b.WriteString("]")
		return b.String()
	case Unknown:
		if s.Name == "" {
			return "<missing>"
		}
		return "/" + string(s.Name)
	default:
		return "/" + string(s.Family())
	}
}
