// Package glyph generates the TRS-80 block graphics characters (codes 128 to
// 191) that the xtrs font tables leave out.
//
// Each graphics character is a 2x3 grid of blocks. Bit 0 of the character
// index is the top-left block, bit 1 the top-right, and so on down to bit 5
// at the bottom-right. A font row is one byte of four 2-bit pixels, lowest
// bits leftmost, so a lit left block is 0x0F and a lit right block is 0xF0.
package glyph

import (
	"bufio"
	"fmt"
	"io"
)

const (
	// First is the character code of graphics glyph 0.
	First = 128
	// Count is the number of graphics glyphs.
	Count = 64
	// Height is the number of font rows per glyph.
	Height = 12

	blockRows   = 3
	blockHeight = Height / blockRows

	leftMask  = 0x0F
	rightMask = 0xF0
)

// Bitmap is the font data of one glyph, one byte per scanline.
type Bitmap [Height]byte

// Glyph returns the bitmap for graphics glyph i, 0 <= i < Count.
func Glyph(i int) Bitmap {
	var bm Bitmap
	k := i
	for y := 0; y < blockRows; y++ {
		var b byte
		if k&1 != 0 {
			b |= leftMask
		}
		k >>= 1
		if k&1 != 0 {
			b |= rightMask
		}
		k >>= 1
		for r := 0; r < blockHeight; r++ {
			bm[y*blockHeight+r] = b
		}
	}
	return bm
}

// Generate returns the bitmaps of all graphics glyphs in index order.
func Generate() [Count]Bitmap {
	var all [Count]Bitmap
	for i := range all {
		all[i] = Glyph(i)
	}
	return all
}

// Pixel reports whether block (x, y) of graphics character code is lit,
// with x in [0,2) and y in [0,3). Codes outside the graphics range are
// never lit.
func Pixel(code byte, x, y int) bool {
	if code < First || code >= First+Count || x < 0 || x > 1 || y < 0 || y >= blockRows {
		return false
	}
	bit := uint(y*2 + x)
	return (code-First)>>bit&1 != 0
}

// WriteTable writes one line per glyph: four spaces of indentation followed
// by the twelve bytes as 0xhh, tokens.
func WriteTable(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, bm := range Generate() {
		bw.WriteString("    ")
		for _, b := range bm {
			fmt.Fprintf(bw, "0x%02x,", b)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
