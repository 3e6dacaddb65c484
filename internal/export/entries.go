package export

import (
	"github.com/stlalpha/trs80assets/internal/config"
	"github.com/stlalpha/trs80assets/internal/document"
	"github.com/stlalpha/trs80assets/internal/screenshot"
)

// Entry is one decoded screenshot. Err is set, and Screen nil, when the
// screenshot could not be decoded.
type Entry struct {
	Name   string
	Index  int
	Screen screenshot.Screen
	Err    error
}

// Entries decodes the screenshots of the selected programs, or of every
// program when all is true. Programs without a usable screenshots array
// produce a single entry with Index -1 carrying the error.
func Entries(cfg config.Config, doc *document.Document, all bool) []Entry {
	names := cfg.NameSet()
	var entries []Entry
	for _, f := range doc.Files {
		if !all && !names[f.Name] {
			continue
		}
		if err := f.CheckScreenshots(); err != nil {
			entries = append(entries, Entry{Name: f.Name, Index: -1, Err: err})
			continue
		}
		for index := range f.Screenshots {
			screen, err := decodeAt(cfg, f, index)
			entries = append(entries, Entry{Name: f.Name, Index: index, Screen: screen, Err: err})
		}
	}
	return entries
}

// Find returns the entry for name and index.
func Find(entries []Entry, name string, index int) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name && e.Index == index {
			return e, true
		}
	}
	return Entry{}, false
}
