// Package literal renders byte slices as C array initializers for the
// emulator firmware sources.
package literal

import (
	"bufio"
	"fmt"
	"io"
)

const (
	// GroupSize is the number of values between blank separator lines: one
	// screen row.
	GroupSize = 64
	// LineSize is the number of values per source line.
	LineSize = 8
	// TokenWidth is the width of every rendered value, separator included.
	TokenWidth = 6

	indent = "    "
)

// IsPrintable reports whether v is rendered as a character literal.
// Unlike the screenshot run-length predicate, 32 is included.
func IsPrintable(v byte) bool {
	return v >= 32 && v < 128
}

// FormatByte renders v as a TokenWidth-wide token, either 'c',  or 0xHH, .
func FormatByte(v byte) string {
	switch {
	case v == '\'':
		return `'\'', `
	case v == '\\':
		return `'\\', `
	case IsPrintable(v):
		return fmt.Sprintf("'%c',  ", v)
	}
	return fmt.Sprintf("0x%02X, ", v)
}

// WriteTable writes the body of an array initializer: groups of GroupSize
// values, LineSize values per line, each group followed by a blank line.
func WriteTable(w io.Writer, data []byte) error {
	bw := bufio.NewWriter(w)
	for g := 0; g < len(data); g += GroupSize {
		group := data[g:min(g+GroupSize, len(data))]
		for l := 0; l < len(group); l += LineSize {
			bw.WriteString(indent)
			for _, v := range group[l:min(l+LineSize, len(group))] {
				bw.WriteString(FormatByte(v))
			}
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Declaration is one uint8_t array definition.
type Declaration struct {
	Comment string // written as a // line above the array, if set
	Symbol  string
	Data    []byte
}

// DefaultSymbol is the array name used for screenshot exports.
const DefaultSymbol = "screen"

// WriteDeclaration writes d preceded by a blank line.
func WriteDeclaration(w io.Writer, d Declaration) error {
	symbol := d.Symbol
	if symbol == "" {
		symbol = DefaultSymbol
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	if d.Comment != "" {
		if _, err := fmt.Fprintf(w, "// %s\n", d.Comment); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "uint8_t %s[] = {\n", symbol); err != nil {
		return err
	}
	if err := WriteTable(w, d.Data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "};\n")
	return err
}
