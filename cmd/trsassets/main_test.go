package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func encodeShot(payload []byte) string {
	return "1:" + base64.StdEncoding.EncodeToString(append([]byte{0}, payload...))
}

// writeDocument writes a my-trs-80 export with the given programs.
func writeDocument(t *testing.T, dir string, files map[string][]string) string {
	t.Helper()
	type file struct {
		Name        string   `json:"name"`
		Screenshots []string `json:"screenshots"`
	}
	var doc struct {
		Files []file `json:"files"`
	}
	for _, name := range []string{"Scarfman", "Sea Dragon", "Zaxxon"} {
		if shots, ok := files[name]; ok {
			doc.Files = append(doc.Files, file{Name: name, Screenshots: shots})
		}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	path := filepath.Join(dir, "my-trs-80.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func fullScreen() string {
	// 4 runs of 255 spaces plus 4 more fill 64x16 cells.
	return encodeShot([]byte{32, 255, 32, 255, 32, 255, 32, 255, 32, 4})
}

func TestCmdScreensStdout(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeDocument(t, tmpDir, map[string][]string{
		"Scarfman": {encodeShot([]byte{'H', 'I'})},
		"Zaxxon":   {encodeShot([]byte{'Z'})},
	})

	var stdout, stderr bytes.Buffer
	err := cmdScreens([]string{"-input", input, "-length", "ignore"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "\n// Scarfman 0\nuint8_t screen[] = {\n    'H',  'I',  \n\n};\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
	if !strings.Contains(stderr.String(), "Scarfman (0)\n") {
		t.Errorf("missing progress line in %q", stderr.String())
	}
}

func TestCmdScreensNamesOverride(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeDocument(t, tmpDir, map[string][]string{
		"Scarfman": {fullScreen()},
		"Zaxxon":   {fullScreen(), fullScreen()},
	})

	var stdout, stderr bytes.Buffer
	err := cmdScreens([]string{"-input", input, "-names", " Zaxxon ,", "-length", "strict"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(stdout.String(), "uint8_t screen[]"); got != 2 {
		t.Errorf("expected 2 declarations, got %d", got)
	}
	if strings.Contains(stdout.String(), "Scarfman") {
		t.Error("Scarfman should not be exported")
	}
}

func TestCmdScreensReportsFailures(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeDocument(t, tmpDir, map[string][]string{
		"Scarfman": {"1:%%%", encodeShot([]byte{'O', 'K'})},
	})
	output := filepath.Join(tmpDir, "screens.cpp")

	var stdout, stderr bytes.Buffer
	err := cmdScreens([]string{"-input", input, "-length", "ignore", "-o", output}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "1 screenshot(s) failed, 1 exported") {
		t.Fatalf("expected failure summary, got %v", err)
	}
	data, readErr := os.ReadFile(output)
	if readErr != nil {
		t.Fatalf("output not written: %v", readErr)
	}
	if !strings.Contains(string(data), "// Scarfman 1") {
		t.Errorf("good screenshot missing from output: %q", data)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should go to stdout with -o, got %q", stdout.String())
	}
}

func TestCmdScreensBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := cmdScreens([]string{"-watch"}, &stdout, &stderr); err == nil {
		t.Error("expected error for -watch without -o")
	}
	if err := cmdScreens([]string{"-length", "lax", "-input", "x.json"}, &stdout, &stderr); err == nil {
		t.Error("expected error for unknown length policy")
	}
	if err := cmdScreens([]string{"-input", "/nonexistent/my-trs-80.json"}, &stdout, &stderr); err == nil {
		t.Error("expected error for missing input")
	}
	for _, names := range []string{",", " ", " , ,"} {
		if err := cmdScreens([]string{"-names", names, "-input", "x.json"}, &stdout, &stderr); err == nil {
			t.Errorf("expected error for -names %q", names)
		}
	}
}

func TestCmdGlyphs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := cmdGlyphs(nil, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	if len(lines) != 64 {
		t.Errorf("expected 64 lines, got %d", len(lines))
	}

	output := filepath.Join(t.TempDir(), "glyphs.inc")
	if err := cmdGlyphs([]string{"-o", output}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.Equal(data, stdout.Bytes()) {
		t.Error("file output differs from stdout output")
	}
	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("output mode %v, want 0644", info.Mode().Perm())
	}
}

func TestCmdLogos(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeDocument(t, tmpDir, map[string][]string{
		"Sea Dragon": {fullScreen()},
	})
	cfgPath := filepath.Join(tmpDir, "export.yaml")
	err := os.WriteFile(cfgPath, []byte(`
logos:
  - name: Sea Dragon
    symbol: SEA_DRAGON_LOGO
    first_row: 2
    rows: 8
`), 0644)
	if err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	source := filepath.Join(tmpDir, "logos.cpp")
	header := filepath.Join(tmpDir, "logos.h")

	var stderr bytes.Buffer
	err = cmdLogos([]string{"-input", input, "-config", cfgPath, "-source", source, "-header", header}, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("source not written: %v", err)
	}
	if !strings.Contains(string(src), "#include \"logos.h\"") || !strings.Contains(string(src), "uint8_t SEA_DRAGON_LOGO[] = {") {
		t.Errorf("unexpected source: %q", src)
	}
	if got := strings.Count(string(src), "' ',  "); got != 8*64 {
		t.Errorf("expected %d cells, got %d", 8*64, got)
	}
	hdr, err := os.ReadFile(header)
	if err != nil {
		t.Fatalf("header not written: %v", err)
	}
	if !strings.Contains(string(hdr), "#define SEA_DRAGON_LOGO_ROWS 8") {
		t.Errorf("unexpected header: %q", hdr)
	}
}

func TestCmdLogosNoneConfigured(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeDocument(t, tmpDir, map[string][]string{"Scarfman": {fullScreen()}})
	var stderr bytes.Buffer
	err := cmdLogos([]string{"-input", input, "-source", filepath.Join(tmpDir, "l.cpp"), "-header", filepath.Join(tmpDir, "l.h")}, &stderr)
	if err == nil {
		t.Error("expected error with no logos configured")
	}
}

func TestCmdPreview(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeDocument(t, tmpDir, map[string][]string{
		"Scarfman": {encodeShot([]byte{'A', 0xBF, 1})},
	})

	var stdout, stderr bytes.Buffer
	err := cmdPreview([]string{"-input", input, "-name", "Scarfman", "-frame=false", "-length", "ignore"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.String() != "Scarfman (0)\nA█\n" {
		t.Errorf("unexpected preview: %q", stdout.String())
	}

	if err := cmdPreview([]string{"-input", input, "-name", "Scarfman", "-index", "3"}, &stdout, &stderr); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if err := cmdPreview([]string{"-input", input, "-name", "Nope"}, &stdout, &stderr); err == nil {
		t.Error("expected error for unknown name")
	}
	if err := cmdPreview([]string{"-input", input}, &stdout, &stderr); err == nil {
		t.Error("expected error without -name")
	}
}

func TestSplitNames(t *testing.T) {
	got := splitNames("Scarfman, Sea Dragon,,TRSDOS 1.3 ")
	want := []string{"Scarfman", "Sea Dragon", "TRSDOS 1.3"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestWriteFilesAllOrNothing(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "logos.cpp")
	header := filepath.Join(tmpDir, "logos.h")
	for _, p := range []string{source, header} {
		if err := os.WriteFile(p, []byte("old"), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
	}

	err := writeFiles([]string{source, header}, func(w []io.Writer) error {
		io.WriteString(w[0], "new source")
		io.WriteString(w[1], "new header")
		return errors.New("logo failed")
	})
	if err == nil {
		t.Fatal("expected write error")
	}
	for _, p := range []string{source, header} {
		if data, _ := os.ReadFile(p); string(data) != "old" {
			t.Errorf("%s replaced after failed write: %q", filepath.Base(p), data)
		}
	}
	if entries, _ := os.ReadDir(tmpDir); len(entries) != 2 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	err = writeFiles([]string{source, header}, func(w []io.Writer) error {
		io.WriteString(w[0], "new source")
		io.WriteString(w[1], "new header")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data, _ := os.ReadFile(source); string(data) != "new source" {
		t.Errorf("source = %q", data)
	}
	if data, _ := os.ReadFile(header); string(data) != "new header" {
		t.Errorf("header = %q", data)
	}
}

func TestCmdLogosLeavesSourceWhenHeaderUnwritable(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeDocument(t, tmpDir, map[string][]string{"Sea Dragon": {fullScreen()}})
	cfgPath := filepath.Join(tmpDir, "export.yaml")
	err := os.WriteFile(cfgPath, []byte("logos:\n  - name: Sea Dragon\n    symbol: SEA_DRAGON_LOGO\n    rows: 4\n"), 0644)
	if err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	source := filepath.Join(tmpDir, "logos.cpp")
	if err := os.WriteFile(source, []byte("old"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	var stderr bytes.Buffer
	header := filepath.Join(tmpDir, "missing", "logos.h")
	err = cmdLogos([]string{"-input", input, "-config", cfgPath, "-source", source, "-header", header}, &stderr)
	if err == nil {
		t.Fatal("expected error for unwritable header")
	}
	if data, _ := os.ReadFile(source); string(data) != "old" {
		t.Errorf("source replaced without its header: %q", data)
	}
}
