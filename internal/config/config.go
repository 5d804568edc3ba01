package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the server settings. Every field has a working default, so
// running without a config file is the normal dev setup.
type Config struct {
	ListenAddr      string `toml:"listen_addr"`
	SnapThresholdPx int    `toml:"snap_threshold_px"`
	LogLevel        string `toml:"log_level"`
	ScenePath       string `toml:"scene_path"`
}

func Default() Config {
	return Config{
		ListenAddr:      ":8080",
		SnapThresholdPx: 128,
		LogLevel:        "info",
	}
}

// Load reads a TOML config file over the defaults. A missing file is not an
// error; a present but unparsable one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.SnapThresholdPx < 0 {
		return cfg, fmt.Errorf("config %s: snap_threshold_px must not be negative", path)
	}
	return cfg, nil
}
