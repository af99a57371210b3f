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

package decode

import (
	"errors"
	"fmt"
	"math"
)

// maxSamples limits the size of decoded pixel buffers.
const maxSamples = 1 << 30

var (
	errShortData = errors.New("not enough image data")
	errTooLarge  = errors.New("image too large")
)

// checkSize verifies that a width x height image with the given number of
// channels fits into a pixel buffer.
func checkSize(width, height, channels int) error {
	if width <= 0 || height <= 0 || channels <= 0 ||
		width > maxSamples/channels/height {
		return fmt.Errorf("%w: %dx%d, %d channels", errTooLarge, width, height, channels)
	}
	return nil
}

// unpack converts packed image samples into 8 bit samples.
//
// Rows of the input start on byte boundaries.  If scale is set, samples
// with fewer than 8 bits are scaled to the full range 0-255; otherwise
// they are copied unchanged, as needed for palette indices.  For 16 bit
// samples the most significant byte is kept.  Extra data after the last
// row is ignored.
func unpack(data []byte, width, height, channels, bpc int, scale bool) ([]byte, error) {
	switch bpc {
	case 1, 2, 4, 8, 16:
		// pass
	default:
		return nil, fmt.Errorf("unsupported bits per component %d", bpc)
	}

	if err := checkSize(width, height, channels); err != nil {
		return nil, err
	}

	samplesPerRow := width * channels
	rowBytes := (samplesPerRow*bpc + 7) / 8
	if need := int64(rowBytes) * int64(height); int64(len(data)) < need {
		return nil, fmt.Errorf("%w: need %d bytes, got %d",
			errShortData, need, len(data))
	}

	res := make([]byte, samplesPerRow*height)
	switch bpc {
	case 8:
		copy(res, data)
		return res, nil
	case 16:
		for i := range res {
			res[i] = data[2*i]
		}
		return res, nil
	}

	maxVal := 1<<bpc - 1
	perByte := 8 / bpc
	for y := 0; y < height; y++ {
		row := data[y*rowBytes : (y+1)*rowBytes]
		out := res[y*samplesPerRow : (y+1)*samplesPerRow]
		for i := range out {
			b := row[i/perByte]
			shift := 8 - bpc*(i%perByte+1)
			v := int(b>>shift) & maxVal
			if scale {
				v = v * 255 / maxVal
			}
			out[i] = byte(v)
		}
	}
	return res, nil
}

// applyDecode maps the unpacked samples in pix through a /Decode array.
//
// For color samples, which unpack has scaled to 0-255, the pair [dMin dMax]
// maps 0 to dMin and 255 to dMax, with the result scaled back to 0-255.
// For palette indices the pair maps 0 to dMin and 2^bpc-1 to dMax.
// Decode arrays which do not match the number of channels are ignored.
func applyDecode(pix []byte, channels, bpc int, index bool, dec []float64) {
	if len(dec) != 2*channels || isIdentity(dec, bpc, index) {
		return
	}

	var lut [256]byte
	for c := 0; c < channels; c++ {
		dMin, dMax := dec[2*c], dec[2*c+1]
		for v := range lut {
			var x float64
			if index {
				maxVal := float64(int(1)<<min(bpc, 8) - 1)
				x = dMin + float64(v)*(dMax-dMin)/maxVal
			} else {
				x = 255 * (dMin + float64(v)*(dMax-dMin)/255)
			}
			lut[v] = byte(math.Round(min(max(x, 0), 255)))
		}
		for i := c; i < len(pix); i += channels {
			pix[i] = lut[pix[i]]
		}
	}
}

func isIdentity(dec []float64, bpc int, index bool) bool {
	hi := 1.0
	if index {
		hi = float64(int(1)<<min(bpc, 8) - 1)
	}
	for i := 0; i < len(dec); i += 2 {
		if dec[i] != 0 || dec[i+1] != hi {
			return false
		}
	}
	return true
}
