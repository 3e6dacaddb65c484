package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/stlalpha/trs80assets/internal/export"
	"github.com/stlalpha/trs80assets/internal/preview"
	"github.com/stlalpha/trs80assets/internal/screenshot"
	"github.com/stlalpha/trs80assets/internal/viewer"
)

// cmdPreview prints one screenshot.
func cmdPreview(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	name := fs.String("name", "", "Program name")
	index := fs.Int("index", 0, "Screenshot index")
	cp437 := fs.Bool("cp437", false, "Write CP437 instead of UTF-8")
	frame := fs.Bool("frame", true, "Draw a box around the screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("-name is required")
	}

	cfg, doc, err := common.load()
	if err != nil {
		return err
	}
	file, ok := doc.Lookup(*name)
	if !ok {
		return fmt.Errorf("%q not in %s", *name, *common.input)
	}
	if err := file.CheckScreenshots(); err != nil {
		return err
	}
	if *index < 0 || *index >= len(file.Screenshots) {
		return fmt.Errorf("%s has %d screenshot(s), no index %d", *name, len(file.Screenshots), *index)
	}

	encoded, err := file.Screenshot(*index)
	if err != nil {
		return err
	}
	screen, err := export.Decode(cfg, encoded)
	if err != nil {
		return fmt.Errorf("%s (%d): %w", *name, *index, err)
	}

	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width < screenshot.Columns+2 {
			log.Printf("WARN: Terminal is %d columns wide, the preview needs %d", width, screenshot.Columns+2)
		}
	}

	return preview.Write(stdout, screen, preview.Options{
		CP437: *cp437,
		Frame: *frame,
		Title: fmt.Sprintf("%s (%d)", *name, *index),
	})
}

// cmdView runs the interactive viewer.
func cmdView(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	all := fs.Bool("all", false, "Include every program, not only the selected ones")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("view needs an interactive terminal")
	}

	cfg, doc, err := common.load()
	if err != nil {
		return err
	}

	p := tea.NewProgram(viewer.New(export.Entries(cfg, doc, *all)), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
