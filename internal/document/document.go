// Package document loads the my-trs-80 export document that holds the
// screenshots.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

var (
	// ErrMissingField is matched by a *FieldError for an absent field.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField is matched by a *FieldError for a field of the wrong
	// JSON type.
	ErrInvalidField = errors.New("invalid field")
)

// FieldError reports a required field that is absent or malformed.
type FieldError struct {
	Path    string // e.g. files[3].screenshots
	Invalid bool   // present but not of the expected type
}

func (e *FieldError) sentinel() error {
	if e.Invalid {
		return ErrInvalidField
	}
	return ErrMissingField
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.sentinel(), e.Path)
}

func (e *FieldError) Is(target error) bool { return target == e.sentinel() }

// File is one program entry and its screenshots, oldest first.
// Screenshots is nil when the entry had no usable screenshots array.
type File struct {
	Name        string
	Screenshots []string
	Pos         int // index in the document's files array

	err     error
	invalid map[int]error
}

// CheckScreenshots returns a *FieldError if f had no usable screenshots
// array.
func (f File) CheckScreenshots() error {
	if f.err != nil {
		return f.err
	}
	if f.Screenshots == nil {
		return &FieldError{Path: fmt.Sprintf("files[%d].screenshots", f.Pos)}
	}
	return nil
}

// Screenshot returns screenshot i, or a *FieldError if that element of the
// array was not a string.
func (f File) Screenshot(i int) (string, error) {
	if err := f.invalid[i]; err != nil {
		return "", err
	}
	return f.Screenshots[i], nil
}

// Document is the parsed export.
type Document struct {
	Files []File
	// Skipped holds one error per files entry left out for having no usable
	// name.
	Skipped []error
}

type rawDocument struct {
	Files *[]json.RawMessage `json:"files"`
}

// rawFile keeps fields raw so a malformed entry or element only spoils
// itself.
type rawFile struct {
	Name        json.RawMessage `json:"name"`
	Screenshots json.RawMessage `json:"screenshots"`
}

func isAbsent(m json.RawMessage) bool {
	return len(m) == 0 || string(m) == "null"
}

// Parse decodes a document from r. Only a body that is not JSON or has no
// files array fails the whole document. Entries without a string name are
// skipped with a warning; other per-entry problems are reported by
// File.CheckScreenshots and File.Screenshot.
func Parse(r io.Reader) (*Document, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse document JSON: %w", err)
	}
	if raw.Files == nil {
		return nil, &FieldError{Path: "files"}
	}

	doc := &Document{Files: make([]File, 0, len(*raw.Files))}
	for i, entry := range *raw.Files {
		f, err := parseFile(i, entry)
		if err != nil {
			log.Printf("WARN: Skipping document entry %d: %v", i, err)
			doc.Skipped = append(doc.Skipped, err)
			continue
		}
		doc.Files = append(doc.Files, f)
	}
	return doc, nil
}

func parseFile(pos int, entry json.RawMessage) (File, error) {
	var rf rawFile
	if err := json.Unmarshal(entry, &rf); err != nil {
		return File{}, &FieldError{Path: fmt.Sprintf("files[%d]", pos), Invalid: true}
	}

	namePath := fmt.Sprintf("files[%d].name", pos)
	if isAbsent(rf.Name) {
		return File{}, &FieldError{Path: namePath}
	}
	f := File{Pos: pos}
	if err := json.Unmarshal(rf.Name, &f.Name); err != nil {
		return File{}, &FieldError{Path: namePath, Invalid: true}
	}

	shotsPath := fmt.Sprintf("files[%d].screenshots", pos)
	if isAbsent(rf.Screenshots) {
		return f, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(rf.Screenshots, &elems); err != nil {
		f.err = &FieldError{Path: shotsPath, Invalid: true}
		return f, nil
	}
	f.Screenshots = make([]string, len(elems))
	for i, elem := range elems {
		if err := json.Unmarshal(elem, &f.Screenshots[i]); err != nil || isAbsent(elem) {
			if f.invalid == nil {
				f.invalid = make(map[int]error)
			}
			f.invalid[i] = &FieldError{Path: fmt.Sprintf("%s[%d]", shotsPath, i), Invalid: true}
		}
	}
	return f, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Lookup returns the first file with the given name.
func (d *Document) Lookup(name string) (File, bool) {
	for _, f := range d.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}
