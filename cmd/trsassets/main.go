// Command trsassets generates the static assets of the TRS-80 Model III
// emulator firmware: screenshot and logo byte arrays decoded from a
// my-trs-80.json export, and the block graphics glyphs missing from the
// xtrs font.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stlalpha/trs80assets/internal/config"
	"github.com/stlalpha/trs80assets/internal/document"
	"github.com/stlalpha/trs80assets/internal/logging"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "--version" || cmd == "-version" {
		fmt.Printf("trsassets %s - TRS-80 Model III asset generator\n", version)
		return
	}
	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		printUsage(os.Stdout)
		return
	}

	var err error
	switch cmd {
	case "screens":
		err = cmdScreens(os.Args[2:], os.Stdout, os.Stderr)
	case "logos":
		err = cmdLogos(os.Args[2:], os.Stderr)
	case "glyphs":
		err = cmdGlyphs(os.Args[2:], os.Stdout, os.Stderr)
	case "preview":
		err = cmdPreview(os.Args[2:], os.Stdout, os.Stderr)
	case "view":
		err = cmdView(os.Args[2:], os.Stderr)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `trsassets %s - TRS-80 Model III asset generator

Usage: trsassets <command> [options]

Commands:
  screens   Export screenshots as C byte arrays
  logos     Export cropped logo arrays and their header
  glyphs    Generate the block graphics font glyphs
  preview   Print one screenshot to the terminal
  view      Browse screenshots interactively

Common Options:
  -input FILE     my-trs-80 export (default: my-trs-80.json)
  -config FILE    Export configuration, .json or .yaml
  -names LIST     Comma-separated program names, overrides the config
  -debug          Debug logging (or DEBUG=1)

Examples:
  trsassets screens > screenshots.cpp
  trsassets screens -names "Scarfman,Sea Dragon" -length strict
  trsassets screens -watch -o src/generated/screens.cpp
  trsassets logos -config configs/export.yaml -source logos.cpp -header logos.h
  trsassets glyphs > graphical_chars.inc
  trsassets preview -name Scarfman -index 1
  trsassets view -all
`, version)
}

// commonFlags are shared by the subcommands that read a document.
type commonFlags struct {
	input      *string
	configPath *string
	names      *string
	length     *string
	ignoreMode *bool
	debug      *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		input:      fs.String("input", "my-trs-80.json", "my-trs-80 export document"),
		configPath: fs.String("config", "", "Export configuration (.json or .yaml)"),
		names:      fs.String("names", "", "Comma-separated program names (overrides config)"),
		length:     fs.String("length", "", "Screen length policy: ignore, warn or strict"),
		ignoreMode: fs.Bool("ignore-mode", false, "Decode without checking the display mode flag"),
		debug:      fs.Bool("debug", false, "Enable debug logging"),
	}
}

// load resolves the configuration, applying flag overrides, and reads the
// document.
func (c commonFlags) load() (config.Config, *document.Document, error) {
	logging.Configure(*c.debug)

	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if *c.names != "" {
		cfg.Names = splitNames(*c.names)
		if len(cfg.Names) == 0 {
			return cfg, nil, fmt.Errorf("-names %q selects no programs", *c.names)
		}
	}
	if *c.length != "" {
		p, err := config.ParseLengthPolicy(*c.length)
		if err != nil {
			return cfg, nil, err
		}
		cfg.LengthPolicy = p
	}
	if *c.ignoreMode {
		cfg.IgnoreModeFlag = true
	}
	logging.Debug("selected programs: %q", cfg.Names)

	doc, err := document.Load(*c.input)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, doc, nil
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// writeFile writes path through a temporary file in the same directory so
// readers never see a partial file.
func writeFile(path string, write func(io.Writer) error) error {
	return writeFiles([]string{path}, func(w []io.Writer) error {
		return write(w[0])
	})
}

// writeFiles writes several outputs that belong together. Every output is
// written and closed under a temporary name before any is renamed into
// place, so a failed write leaves all of them untouched.
func writeFiles(paths []string, write func([]io.Writer) error) error {
	tmps := make([]*os.File, 0, len(paths))
	defer func() {
		for _, tmp := range tmps {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	writers := make([]io.Writer, len(paths))
	for i, path := range paths {
		tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		tmps = append(tmps, tmp)
		writers[i] = tmp
	}

	if err := write(writers); err != nil {
		return err
	}
	for i, tmp := range tmps {
		if err := tmp.Chmod(0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", paths[i], err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", paths[i], err)
		}
	}
	for i, tmp := range tmps {
		if err := os.Rename(tmp.Name(), paths[i]); err != nil {
			return fmt.Errorf("failed to replace %s: %w", paths[i], err)
		}
	}
	return nil
}
