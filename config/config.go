package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Dir returns the scriptkit configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "scriptkit")
}

// File returns the path to the optional config.toml.
func File() string {
	return filepath.Join(Dir(), "config.toml")
}

// Config holds the ambient settings read from config.toml, overridable by
// environment variables of the same name prefixed SCRIPTKIT_.
type Config struct {
	ScriptsDir   string `toml:"scripts_dir"`
	LogsDir      string `toml:"logs_dir"`
	StoreFile    string `toml:"store_file"`
	GuestLibPath string `toml:"guest_lib_path"`
}

// Default returns the configuration that applies when config.toml is
// absent or a field is left unset there.
func Default() Config {
	dir := Dir()
	return Config{
		ScriptsDir:   filepath.Join(dir, "scripts"),
		LogsDir:      filepath.Join(dir, "logs"),
		StoreFile:    filepath.Join(dir, "store.db"),
		GuestLibPath: filepath.Join(dir, "lib"),
	}
}

// Load reads config.toml if present, falling back to Default for any
// field left unset (zero value) in the file, then applies SCRIPTKIT_*
// environment overrides.
func Load() (Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(File()); err == nil {
		var fromFile Config
		if _, err := toml.Decode(string(data), &fromFile); err != nil {
			return cfg, err
		}
		applyNonEmpty(&cfg, fromFile)
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyNonEmpty(dst *Config, src Config) {
	if src.ScriptsDir != "" {
		dst.ScriptsDir = src.ScriptsDir
	}
	if src.LogsDir != "" {
		dst.LogsDir = src.LogsDir
	}
	if src.StoreFile != "" {
		dst.StoreFile = src.StoreFile
	}
	if src.GuestLibPath != "" {
		dst.GuestLibPath = src.GuestLibPath
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCRIPTKIT_SCRIPTS_DIR"); v != "" {
		cfg.ScriptsDir = v
	}
	if v := os.Getenv("SCRIPTKIT_LOGS_DIR"); v != "" {
		cfg.LogsDir = v
	}
	if v := os.Getenv("SCRIPTKIT_STORE_FILE"); v != "" {
		cfg.StoreFile = v
	}
	if v := os.Getenv("SCRIPTKIT_GUEST_LIB_PATH"); v != "" {
		cfg.GuestLibPath = v
	}
}
