package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultNames are the programs whose screenshots ship with the firmware.
var DefaultNames = []string{
	"Obstacle Run",
	"TRSDOS 1.3",
	"Scarfman",
	"Sea Dragon",
	"Defense Command",
}

// DefaultScreenLength is the cell count of a Model III text screen (64x16).
const DefaultScreenLength = 1024

// LengthPolicy decides what happens when a decoded screen does not have
// ScreenLength cells.
type LengthPolicy string

const (
	LengthIgnore LengthPolicy = "ignore" // export as-is, silently
	LengthWarn   LengthPolicy = "warn"   // export as-is, log a warning
	LengthStrict LengthPolicy = "strict" // fail the screenshot
)

// ParseLengthPolicy validates a policy name.
func ParseLengthPolicy(s string) (LengthPolicy, error) {
	switch p := LengthPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case LengthIgnore, LengthWarn, LengthStrict:
		return p, nil
	}
	return "", fmt.Errorf("unknown length policy %q (want ignore, warn or strict)", s)
}

// LogoConfig crops a row range out of one screenshot into a named array.
type LogoConfig struct {
	Name     string `json:"name" yaml:"name"`           // program name in the document
	Index    int    `json:"index" yaml:"index"`         // screenshot index within the program
	Symbol   string `json:"symbol" yaml:"symbol"`       // C array name, e.g. SEA_DRAGON_LOGO
	FirstRow int    `json:"first_row" yaml:"first_row"` // first screen row to keep
	Rows     int    `json:"rows" yaml:"rows"`           // number of rows to keep
}

// Config holds the export settings.
type Config struct {
	Names          []string     `json:"names" yaml:"names"`
	ScreenLength   int          `json:"screen_length" yaml:"screen_length"`
	LengthPolicy   LengthPolicy `json:"length_policy" yaml:"length_policy"`
	IgnoreModeFlag bool         `json:"ignore_mode_flag" yaml:"ignore_mode_flag"`
	Logos          []LogoConfig `json:"logos" yaml:"logos"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Names:        append([]string(nil), DefaultNames...),
		ScreenLength: DefaultScreenLength,
		LengthPolicy: LengthWarn,
	}
}

// NameSet returns the selection list as a set.
func (c Config) NameSet() map[string]bool {
	set := make(map[string]bool, len(c.Names))
	for _, n := range c.Names {
		set[n] = true
	}
	return set
}

var symbolPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the configuration for values the exporter cannot use.
func (c Config) Validate() error {
	if c.ScreenLength <= 0 {
		return fmt.Errorf("screen_length must be positive, got %d", c.ScreenLength)
	}
	if _, err := ParseLengthPolicy(string(c.LengthPolicy)); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Logos))
	for i, l := range c.Logos {
		switch {
		case l.Name == "":
			return fmt.Errorf("logos[%d]: name is required", i)
		case !symbolPattern.MatchString(l.Symbol):
			return fmt.Errorf("logos[%d]: invalid symbol %q", i, l.Symbol)
		case seen[l.Symbol]:
			return fmt.Errorf("logos[%d]: duplicate symbol %q", i, l.Symbol)
		case l.Index < 0:
			return fmt.Errorf("logos[%d]: index must not be negative", i)
		case l.FirstRow < 0 || l.Rows <= 0:
			return fmt.Errorf("logos[%d]: invalid row range %d+%d", i, l.FirstRow, l.Rows)
		}
		seen[l.Symbol] = true
	}
	return nil
}

// Load reads the export configuration from path. YAML is used for .yaml and
// .yml files, JSON otherwise. An empty path or a missing file yields the
// defaults.
func Load(path string) (Config, error) {
	defaultConfig := Default()
	if path == "" {
		return defaultConfig, nil
	}
	log.Printf("INFO: Loading export configuration from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("WARN: %s not found. Using default export settings.", path)
			return defaultConfig, nil
		}
		return defaultConfig, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Initialize with defaults before unmarshalling
	config := defaultConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return defaultConfig, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return defaultConfig, fmt.Errorf("invalid config %s: %w", path, err)
	}
	config.LengthPolicy, _ = ParseLengthPolicy(string(config.LengthPolicy))

	log.Printf("INFO: Loaded export configuration: %d name(s), %d logo(s), length policy %s",
		len(config.Names), len(config.Logos), config.LengthPolicy)
	return config, nil
}
