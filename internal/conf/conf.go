// Package conf has functions for loading the optional run-control file of
// the interpreter, a small TOML file that adjusts the prompt and a few
// session behaviors.
package conf

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FormatMarker is the value of the "format" key every run-control file must
// carry. It is how a file is confirmed to be intended for dmk at all, as
// opposed to some other program's TOML that happens to be at the expected
// path.
const FormatMarker = "dmk"

// DefaultPath is the file consulted when no explicit path is given.
const DefaultPath = "dmk.toml"

// Config holds the tunable session settings. The zero value is not suitable
// for use; obtain one from Default or Load.
type Config struct {

	// Format identifies the file as a dmk run-control file. It must be set
	// to FormatMarker in the file.
	Format string `toml:"format"`

	// Prompt is the string printed before each interactive read.
	Prompt string `toml:"prompt"`

	// StrictComments makes an unclosed block comment a syntax error rather
	// than letting it silently run to end of input.
	StrictComments bool `toml:"strict_comments"`

	// HistoryFile, when non-empty, is where interactive line history is
	// persisted between sessions.
	HistoryFile string `toml:"history_file"`
}

// Default returns the settings used when no run-control file exists.
func Default() Config {
	return Config{
		Format: FormatMarker,
		Prompt: "> ",
	}
}

// Load reads and decodes the run-control file at the given path. The file
// must exist and must carry the dmk format marker. Keys the file omits keep
// their default values; keys it does not define are ignored.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading conf file: %w", err)
	}

	c := Default()
	// the marker has to come from the file itself, not from the defaults
	c.Format = ""
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("decoding conf file %q: %w", path, err)
	}

	if c.Format != FormatMarker {
		return Config{}, fmt.Errorf("conf file %q does not have format = %q", path, FormatMarker)
	}
	if c.Prompt == "" {
		c.Prompt = Default().Prompt
	}

	return c, nil
}

// LoadIfPresent is Load, except that a file that simply does not exist is
// not an error and yields the defaults.
func LoadIfPresent(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
