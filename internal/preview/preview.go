// Package preview renders decoded screens as terminal text.
//
// Printable ASCII is shown as-is. The 64 block graphics characters map onto
// the Unicode sextant blocks, which split a cell into the same 2x3 grid.
// For CP437 terminals the graphics are approximated with the half blocks
// and shades that code page has.
package preview

import (
	"io"
	"math/bits"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/stlalpha/trs80assets/internal/glyph"
	"github.com/stlalpha/trs80assets/internal/screenshot"
)

const unknown = '.'

// Options controls rendering.
type Options struct {
	Columns int    // cells per row, screenshot.Columns if zero
	CP437   bool   // restrict output to CP437 and encode it as such
	Frame   bool   // draw a box around the screen
	Title   string // printed above the screen, if set
}

// pattern returns the 6-bit block pattern of a graphics character, bit 0
// top-left through bit 5 bottom-right.
func pattern(code byte) int {
	p := 0
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			if glyph.Pixel(code, x, y) {
				p |= 1 << (y*2 + x)
			}
		}
	}
	return p
}

func isGraphics(code byte) bool {
	return code >= glyph.First && code < glyph.First+glyph.Count
}

// Rune returns the Unicode character for a screen code.
func Rune(code byte) rune {
	switch {
	case code >= 32 && code < 127:
		return rune(code)
	case isGraphics(code):
		return sextant(pattern(code))
	}
	return unknown
}

// sextant maps a block pattern onto U+1FB00..U+1FB3B. That range leaves out
// the empty, full, left-half and right-half patterns, which already exist
// elsewhere in Unicode.
func sextant(p int) rune {
	switch p {
	case 0:
		return ' '
	case 0b010101:
		return '▌'
	case 0b101010:
		return '▐'
	case 0b111111:
		return '█'
	}
	r := rune(0x1FB00 + p - 1)
	if p > 0b010101 {
		r--
	}
	if p > 0b101010 {
		r--
	}
	return r
}

// RuneCP437 returns a character for code that exists in code page 437.
func RuneCP437(code byte) rune {
	if !isGraphics(code) {
		return Rune(code)
	}
	const top, bottom = 0b000011, 0b110000
	p := pattern(code)
	switch {
	case p == 0:
		return ' '
	case p == 0b111111:
		return '█'
	case p == 0b010101:
		return '▌'
	case p == 0b101010:
		return '▐'
	case p&top == top && p&bottom == 0:
		return '▀'
	case p&bottom == bottom && p&top == 0:
		return '▄'
	}
	switch n := bits.OnesCount(uint(p)); {
	case n <= 2:
		return '░'
	case n <= 4:
		return '▒'
	}
	return '▓'
}

// Lines renders the screen one string per row.
func Lines(s screenshot.Screen, opts Options) []string {
	cols := opts.Columns
	if cols <= 0 {
		cols = screenshot.Columns
	}
	toRune := Rune
	if opts.CP437 {
		toRune = RuneCP437
	}

	var lines []string
	for start := 0; start < len(s); start += cols {
		var b strings.Builder
		for _, code := range s[start:min(start+cols, len(s))] {
			b.WriteRune(toRune(code))
		}
		lines = append(lines, b.String())
	}
	return lines
}

// Render returns the screen as text, framed and titled per opts.
func Render(s screenshot.Screen, opts Options) string {
	body := strings.Join(Lines(s, opts), "\n")
	if opts.Frame {
		body = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Render(body)
	}
	if opts.Title != "" {
		body = opts.Title + "\n" + body
	}
	return body
}

// Write renders the screen to w, encoding it as CP437 when opts.CP437 is set.
func Write(w io.Writer, s screenshot.Screen, opts Options) error {
	text := Render(s, opts) + "\n"
	if opts.CP437 {
		enc := encoding.ReplaceUnsupported(charmap.CodePage437.NewEncoder())
		encoded, err := enc.String(text)
		if err != nil {
			return err
		}
		text = encoded
	}
	_, err := io.WriteString(w, text)
	return err
}
