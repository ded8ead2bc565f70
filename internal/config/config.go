package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inventree/plugin-creator/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Dir returns the path to the config directory (~/.inventree-plugin-creator/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file location. PLUGIN_CREATOR_CONFIG overrides
// the default of ~/.inventree-plugin-creator/config.yaml.
func FilePath() string {
	if v := os.Getenv(branding.EnvVar("CONFIG")); v != "" {
		return v
	}
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// CheckPath rejects config paths whose extension is not .yaml or .yml.
func CheckPath(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return nil
	}
	return fmt.Errorf("unsupported config file %s: use a .yaml or .yml extension", path)
}

// ensureDir creates the directory holding path if it does not exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}
