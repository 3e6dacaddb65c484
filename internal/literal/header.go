package literal

import (
	"bufio"
	"fmt"
	"io"
)

// HeaderEntry declares an exported array and its height in screen rows.
type HeaderEntry struct {
	Symbol string
	Rows   int
}

// WriteHeader writes a header declaring each entry as
//
//	extern uint8_t SYMBOL[];
//	#define SYMBOL_ROWS n
func WriteHeader(w io.Writer, entries []HeaderEntry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("\n#pragma once\n\n#include <stdint.h>\n")
	for _, e := range entries {
		fmt.Fprintf(bw, "\nextern uint8_t %s[];\n", e.Symbol)
		fmt.Fprintf(bw, "#define %s_ROWS %d\n", e.Symbol, e.Rows)
	}
	return bw.Flush()
}
