// Package config loads simulator tunables from an optional TOML file,
// falling back to built-in defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// ExecutionConfig controls the simulated machine's resource limits.
type ExecutionConfig struct {
	MaxCycles  uint64 `toml:"max_cycles"`
	MemorySize uint32 `toml:"memory_size"`
}

// TraceConfig controls the optional per-retirement instruction trace.
type TraceConfig struct {
	Enabled    bool   `toml:"enabled"`
	OutputFile string `toml:"output_file"` // empty means stdout
}

// Config is the full set of simulator tunables.
type Config struct {
	Execution ExecutionConfig `toml:"execution"`
	Trace     TraceConfig     `toml:"trace"`
}

// DefaultMaxCycles and DefaultMemorySize mirror vm.DefaultMaxCycles and
// vm.DefaultMemorySize; duplicated here (rather than imported) so this
// package has no dependency on vm and stays loadable standalone.
const (
	DefaultMaxCycles  = 10_000_000
	DefaultMemorySize = 1 << 24
)

// DefaultConfig returns a Config populated with the simulator's built-in
// defaults.
func DefaultConfig() *Config {
	return &Config{
		Execution: ExecutionConfig{
			MaxCycles:  DefaultMaxCycles,
			MemorySize: DefaultMemorySize,
		},
	}
}

// GetConfigPath returns the platform default config file location:
// %APPDATA%\rv32sim\config.toml on Windows, ~/.config/rv32sim/config.toml
// on macOS/Linux.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rv32sim")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rv32sim")

	default:
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads the config file at the platform default path. A missing
// file is not an error: it returns DefaultConfig(). A malformed file is
// an error.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads the config file at path, returning defaults if the file
// does not exist and an error only on a malformed file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the platform default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes cfg as TOML to path, creating parent directories as
// needed.
func (c *Config) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: creating directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: creating %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: encoding %s: %w", path, err)
	}
	return nil
}

// Validate reports whether the configuration is usable: memory_size
// must be a power of two of at least 4096 bytes.
func (c *Config) Validate() error {
	size := c.Execution.MemorySize
	if size < 4096 || size&(size-1) != 0 {
		return fmt.Errorf("config: memory_size %d must be a power of two >= 4096", size)
	}
	return nil
}
