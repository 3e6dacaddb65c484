// Package screenshot decodes the run-length-encoded screen snapshots stored
// by the my-trs-80 web emulator.
//
// An encoded screenshot is a two character version prefix followed by
// base64 data. The first decoded byte is the display mode flag and the rest
// is the run-length-encoded character buffer: bytes in (32, 128) stand for
// themselves, any other byte is followed by a repeat count.
package screenshot

import (
	"encoding/base64"
	"fmt"

	"github.com/stlalpha/trs80assets/internal/logging"
)

const (
	// Model III text screen geometry.
	Columns = 64
	Rows    = 16
	Size    = Columns * Rows

	// versionPrefixLen is the number of characters in front of the base64 data.
	versionPrefixLen = 2
)

// DisplayMode selects how the character buffer is laid out.
type DisplayMode int

const (
	Normal   DisplayMode = iota // 64 columns
	Expanded                    // 32 double-width columns, not supported
)

func (m DisplayMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Expanded:
		return "expanded"
	}
	return fmt.Sprintf("DisplayMode(%d)", int(m))
}

// Screen is a decoded character buffer, one byte per cell in row-major order.
type Screen []byte

// Row returns row r of the screen, assuming Columns cells per row. It
// returns nil if the screen is too short to hold the full row.
func (s Screen) Row(r int) []byte {
	start := r * Columns
	if r < 0 || start+Columns > len(s) {
		return nil
	}
	return s[start : start+Columns]
}

// Options controls DecodeString.
type Options struct {
	// Mode is the layout the caller expects.
	Mode DisplayMode
	// IgnoreModeFlag skips the check of the mode byte stored in the
	// screenshot and decodes it as Mode regardless.
	IgnoreModeFlag bool
}

// IsImplicitRun reports whether v stands for a single cell without a
// following count byte. The bound is strict on both ends, so a space (32)
// always carries an explicit count.
func IsImplicitRun(v byte) bool {
	return v > 32 && v < 128
}

// Decode expands a run-length-encoded payload. It does not check the result
// against any screen size; see ValidateLength.
func Decode(payload []byte) (Screen, error) {
	screen := make(Screen, 0, Size)
	i := 0
	for i < len(payload) {
		v := payload[i]
		i++
		if IsImplicitRun(v) {
			screen = append(screen, v)
			continue
		}
		if i >= len(payload) {
			return nil, &DecodeError{
				Kind:   TruncatedRunLength,
				Offset: i - 1,
				Detail: fmt.Sprintf("value 0x%02X has no count byte", v),
			}
		}
		count := int(payload[i])
		i++
		for n := 0; n < count; n++ {
			screen = append(screen, v)
		}
	}
	return screen, nil
}

// DecodeString decodes a complete encoded screenshot: version prefix, base64
// envelope, mode byte and run-length payload.
func DecodeString(encoded string, opts Options) (Screen, error) {
	if opts.Mode != Normal {
		return nil, &DecodeError{Kind: UnsupportedMode, Offset: -1, Detail: "requested " + opts.Mode.String()}
	}
	if len(encoded) < versionPrefixLen {
		return nil, &DecodeError{Kind: InvalidBase64, Offset: -1, Detail: "missing version prefix"}
	}
	logging.Debug("screenshot version %q, %d encoded bytes", encoded[:versionPrefixLen], len(encoded)-versionPrefixLen)

	raw, err := base64.StdEncoding.DecodeString(encoded[versionPrefixLen:])
	if err != nil {
		return nil, &DecodeError{Kind: InvalidBase64, Offset: -1, Err: err}
	}
	if len(raw) == 0 {
		return nil, &DecodeError{Kind: TruncatedRunLength, Offset: 0, Detail: "missing mode byte"}
	}

	if !opts.IgnoreModeFlag && raw[0] != 0 {
		return nil, &DecodeError{
			Kind:   UnsupportedMode,
			Offset: -1,
			Detail: fmt.Sprintf("screenshot flagged %s (0x%02X)", Expanded, raw[0]),
		}
	}

	return Decode(raw[1:])
}

// ValidateLength checks a decoded screen against the expected cell count.
func ValidateLength(s Screen, want int) error {
	if len(s) == want {
		return nil
	}
	return &DecodeError{
		Kind:   UnexpectedScreenLength,
		Offset: -1,
		Detail: fmt.Sprintf("got %d cells, want %d", len(s), want),
	}
}
