package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	SaveRoots   []string `toml:"save_roots"`
	Extensions  []string `toml:"extensions"`
	DBPath      string   `toml:"db_path"`
	StrictOrder bool     `toml:"strict_order"`
	LogLevel    string   `toml:"log_level"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(home, ".config", "tsave", "config.toml"))
}

// LoadFile applies cfgPath on top of the defaults. A missing file is not an
// error.
func LoadFile(cfgPath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SaveRoots: []string{
			filepath.Join(home, ".local", "share", "TitanSouls"),
			filepath.Join(home, "AppData", "Local", "TitanSouls"),
		},
		Extensions: []string{".sav"},
		DBPath:     filepath.Join(home, ".config", "tsave", "tsave.db"),
		LogLevel:   "info",
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	for i, root := range cfg.SaveRoots {
		cfg.SaveRoots[i] = expandHome(root, home)
	}
	cfg.DBPath = expandHome(cfg.DBPath, home)

	for i, ext := range cfg.Extensions {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			cfg.Extensions[i] = "." + ext
		}
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
