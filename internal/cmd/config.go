package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// ConfigPath is the arguments file under the XDG config directory.
var ConfigPath = filepath.Join("mapcanvas", "mapcanvas.conf")

// LoadConfig returns the arguments stored in the config file, to be parsed
// before the command line. Lines starting with # are skipped.
func LoadConfig() ([]string, error) {
	path, err := xdg.ConfigFile(ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parseConfig(string(b)), nil
}

func parseConfig(contents string) []string {
	var args []string
	for _, line := range strings.Split(contents, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		args = append(args, strings.Fields(line)...)
	}
	return args
}
