package config

import (
	"os"
	"path/filepath"
)

// BannerPath returns the root directory for banner data.
// It uses $BANNER_PATH if set, otherwise defaults to ~/.banner.
func BannerPath() string {
	if v := os.Getenv("BANNER_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".banner")
	}
	return filepath.Join(home, ".banner")
}

// ConfigPath returns the path to the daemon config file.
func ConfigPath() string {
	return filepath.Join(BannerPath(), "config.jsonc")
}

// SettingsPath returns the path to the mutable styling settings record.
func SettingsPath() string {
	return filepath.Join(BannerPath(), "settings.json")
}

// EntitiesPath returns the directory holding per-entity override records.
func EntitiesPath() string {
	return filepath.Join(BannerPath(), "entities")
}

// PresetsPath returns the path to the styling presets file.
func PresetsPath() string {
	return filepath.Join(BannerPath(), "presets.yaml")
}

// DotenvPath returns the path to the .env file.
func DotenvPath() string {
	return filepath.Join(BannerPath(), ".env")
}

// HeartbeatPath returns the path to the gateway heartbeat file.
func HeartbeatPath() string {
	return filepath.Join(BannerPath(), "gateway.heartbeat")
}
