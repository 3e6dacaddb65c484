// Package export turns the screenshots of a my-trs-80 document into C
// source for the emulator firmware.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/stlalpha/trs80assets/internal/config"
	"github.com/stlalpha/trs80assets/internal/document"
	"github.com/stlalpha/trs80assets/internal/literal"
	"github.com/stlalpha/trs80assets/internal/logging"
	"github.com/stlalpha/trs80assets/internal/screenshot"
)

// Failure records a screenshot that could not be exported. Index is -1 when
// the whole program entry was unusable.
type Failure struct {
	Name  string
	Index int
	Err   error
}

func (f Failure) Error() string {
	if f.Index < 0 {
		return fmt.Sprintf("%s: %v", f.Name, f.Err)
	}
	return fmt.Sprintf("%s (%d): %v", f.Name, f.Index, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report summarizes an export run.
type Report struct {
	Exported int
	Failures []Failure
}

// Err joins all failures, or returns nil if there were none.
func (r Report) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func (r *Report) fail(name string, index int, err error) {
	log.Printf("ERROR: %s", Failure{Name: name, Index: index, Err: err})
	r.Failures = append(r.Failures, Failure{Name: name, Index: index, Err: err})
}

// Exporter writes screenshot declarations to out and progress lines to diag.
type Exporter struct {
	cfg  config.Config
	out  io.Writer
	diag io.Writer
}

// New creates an Exporter.
func New(cfg config.Config, out, diag io.Writer) *Exporter {
	return &Exporter{cfg: cfg, out: out, diag: diag}
}

// Decode decodes one encoded screenshot and applies the configured length
// policy.
func Decode(cfg config.Config, encoded string) (screenshot.Screen, error) {
	screen, err := screenshot.DecodeString(encoded, screenshot.Options{
		Mode:           screenshot.Normal,
		IgnoreModeFlag: cfg.IgnoreModeFlag,
	})
	if err != nil {
		return nil, err
	}
	if cfg.LengthPolicy == config.LengthIgnore {
		return screen, nil
	}
	if err := screenshot.ValidateLength(screen, cfg.ScreenLength); err != nil {
		if cfg.LengthPolicy == config.LengthStrict {
			return nil, err
		}
		log.Printf("WARN: %v", err)
	}
	return screen, nil
}

// decodeAt decodes screenshot index of f.
func decodeAt(cfg config.Config, f document.File, index int) (screenshot.Screen, error) {
	encoded, err := f.Screenshot(index)
	if err != nil {
		return nil, err
	}
	return Decode(cfg, encoded)
}

// Run exports every screenshot of every selected program, in document
// order. A screenshot that fails to decode is recorded in the report and
// skipped. The returned error is non-nil only if writing output failed.
func (e *Exporter) Run(doc *document.Document) (Report, error) {
	var report Report
	names := e.cfg.NameSet()

	for _, f := range doc.Files {
		if !names[f.Name] {
			logging.Debug("skipping %q", f.Name)
			continue
		}
		if err := f.CheckScreenshots(); err != nil {
			report.fail(f.Name, -1, err)
			continue
		}
		for index := range f.Screenshots {
			fmt.Fprintf(e.diag, "%s (%d)\n", f.Name, index)

			screen, err := decodeAt(e.cfg, f, index)
			if err != nil {
				report.fail(f.Name, index, err)
				continue
			}
			err = literal.WriteDeclaration(e.out, literal.Declaration{
				Comment: fmt.Sprintf("%s %d", f.Name, index),
				Data:    screen,
			})
			if err != nil {
				return report, fmt.Errorf("failed to write %s (%d): %w", f.Name, index, err)
			}
			report.Exported++
		}
	}
	return report, nil
}

// ErrNotFound is returned for logos naming a program or screenshot index
// absent from the document.
var ErrNotFound = errors.New("not found")

// crop returns rows [first, first+n) of a screen.
func crop(s screenshot.Screen, first, n int) ([]byte, error) {
	start := first * screenshot.Columns
	end := (first + n) * screenshot.Columns
	if end > len(s) {
		return nil, fmt.Errorf("rows %d-%d outside %d-cell screen: %w",
			first, first+n-1, len(s), screenshot.ErrUnexpectedScreenLength)
	}
	return s[start:end], nil
}

// Logos writes each configured logo as a named array to source and declares
// them in header. headerName, if set, is #included at the top of source.
// Logos that fail are recorded in the report and left out of both outputs.
func (e *Exporter) Logos(doc *document.Document, source, header io.Writer, headerName string) (Report, error) {
	var report Report
	var body bytes.Buffer
	var entries []literal.HeaderEntry

	for _, l := range e.cfg.Logos {
		f, ok := doc.Lookup(l.Name)
		if !ok {
			report.fail(l.Name, l.Index, fmt.Errorf("program %w", ErrNotFound))
			continue
		}
		if err := f.CheckScreenshots(); err != nil {
			report.fail(l.Name, l.Index, err)
			continue
		}
		if l.Index >= len(f.Screenshots) {
			report.fail(l.Name, l.Index, fmt.Errorf("screenshot %w", ErrNotFound))
			continue
		}
		fmt.Fprintf(e.diag, "%s (%d)\n", l.Name, l.Index)

		screen, err := decodeAt(e.cfg, f, l.Index)
		if err != nil {
			report.fail(l.Name, l.Index, err)
			continue
		}
		rows, err := crop(screen, l.FirstRow, l.Rows)
		if err != nil {
			report.fail(l.Name, l.Index, err)
			continue
		}
		err = literal.WriteDeclaration(&body, literal.Declaration{
			Comment: fmt.Sprintf("%s %d, rows %d-%d", l.Name, l.Index, l.FirstRow, l.FirstRow+l.Rows-1),
			Symbol:  l.Symbol,
			Data:    rows,
		})
		if err != nil {
			return report, fmt.Errorf("failed to write %s (%d): %w", l.Name, l.Index, err)
		}
		entries = append(entries, literal.HeaderEntry{Symbol: l.Symbol, Rows: l.Rows})
		report.Exported++
	}

	if headerName != "" {
		if _, err := fmt.Fprintf(source, "\n#include \"%s\"\n", headerName); err != nil {
			return report, fmt.Errorf("failed to write logo source: %w", err)
		}
	}
	if _, err := body.WriteTo(source); err != nil {
		return report, fmt.Errorf("failed to write logo source: %w", err)
	}
	if err := literal.WriteHeader(header, entries); err != nil {
		return report, fmt.Errorf("failed to write logo header: %w", err)
	}
	return report, nil
}
