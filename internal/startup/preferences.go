package startup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"imagehost/internal/logging"
	"imagehost/internal/transcode"

	"github.com/pelletier/go-toml/v2"
)

// Preferences are the processing choices remembered between runs.
type Preferences struct {
	Processing transcode.Options `toml:"processing"`
	Output     OutputPreferences `toml:"output"`
}

// OutputPreferences control where and how results are written.
type OutputPreferences struct {
	Dir         string `toml:"dir,omitempty"`
	UniqueNames bool   `toml:"unique_names"`
}

// DefaultPreferences enables both stages.
func DefaultPreferences() Preferences {
	return Preferences{
		Processing: transcode.Options{
			EnableCompression: true,
			EnableWebP:        true,
		},
	}
}

// LoadPreferences reads path. A missing file yields DefaultPreferences and
// exists=false; keys absent from the file keep their defaults.
func LoadPreferences(path string) (prefs Preferences, exists bool, err error) {
	prefs = DefaultPreferences()

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("No preferences file at %s, using defaults", path)
		return prefs, false, nil
	}
	if err != nil {
		return prefs, false, fmt.Errorf("open preferences: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(&prefs); err != nil {
		return DefaultPreferences(), true, fmt.Errorf("parse preferences %s: %w", path, err)
	}
	logging.Debug("Loaded preferences from %s: %+v", path, prefs)
	return prefs, true, nil
}

// SavePreferences writes prefs to path, creating parent directories. The
// file is replaced atomically.
func SavePreferences(path string, prefs Preferences) error {
	data, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace preferences: %w", err)
	}

	logging.Info("Saved preferences to %s", path)
	return nil
}
