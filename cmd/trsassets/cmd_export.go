package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/stlalpha/trs80assets/internal/export"
	"github.com/stlalpha/trs80assets/internal/glyph"
	"github.com/stlalpha/trs80assets/internal/logging"
	"github.com/stlalpha/trs80assets/internal/watcher"
)

// cmdScreens exports the selected screenshots.
func cmdScreens(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("screens", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	output := fs.String("o", "", "Output file (default: stdout)")
	watch := fs.Bool("watch", false, "Re-export when the input or config changes (requires -o)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *watch && *output == "" {
		return errors.New("-watch requires -o")
	}

	err := exportScreens(common, *output, stdout, stderr)
	if !*watch {
		return err
	}
	if err != nil {
		log.Printf("ERROR: %v", err)
	}

	files := []string{*common.input}
	if *common.configPath != "" {
		files = append(files, *common.configPath)
	}
	w, err := watcher.New(files, watcher.DefaultDebounce, func(string) {
		if err := exportScreens(common, *output, stdout, stderr); err != nil {
			log.Printf("ERROR: %v", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func exportScreens(common commonFlags, output string, stdout, stderr io.Writer) error {
	cfg, doc, err := common.load()
	if err != nil {
		return err
	}

	var report export.Report
	run := func(w io.Writer) error {
		var err error
		report, err = export.New(cfg, w, stderr).Run(doc)
		return err
	}
	if output == "" {
		err = run(stdout)
	} else {
		err = writeFile(output, run)
	}
	if err != nil {
		return err
	}

	if n := len(report.Failures); n > 0 {
		return fmt.Errorf("%d screenshot(s) failed, %d exported", n, report.Exported)
	}
	logging.Debug("exported %d screenshot(s)", report.Exported)
	return nil
}

// cmdLogos exports the configured logos and their header.
func cmdLogos(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("logos", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	source := fs.String("source", "logos.cpp", "Source output file")
	header := fs.String("header", "logos.h", "Header output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, doc, err := common.load()
	if err != nil {
		return err
	}
	if len(cfg.Logos) == 0 {
		return errors.New("no logos configured")
	}

	var report export.Report
	err = writeFiles([]string{*source, *header}, func(w []io.Writer) error {
		var err error
		report, err = export.New(cfg, io.Discard, stderr).Logos(doc, w[0], w[1], filepath.Base(*header))
		return err
	})
	if err != nil {
		return err
	}

	if n := len(report.Failures); n > 0 {
		return fmt.Errorf("%d logo(s) failed, %d exported", n, report.Exported)
	}
	log.Printf("INFO: Wrote %d logo(s) to %s and %s", report.Exported, *source, *header)
	return nil
}

// cmdGlyphs writes the graphics glyph table.
func cmdGlyphs(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("glyphs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *output == "" {
		return glyph.WriteTable(stdout)
	}
	return writeFile(*output, glyph.WriteTable)
}
