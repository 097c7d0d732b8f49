package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Composer holds composer-specific settings.
type Composer struct {
	// Placeholder is shown in the empty composer. Empty means the built-in default.
	Placeholder string `toml:"placeholder"`
	// RTL switches the composer to right-to-left text direction.
	RTL bool `toml:"rtl"`
	// AttachmentMaxKB caps the size of files accepted from clipboard pastes.
	AttachmentMaxKB int64 `toml:"attachment_max_kb"`
}

// Config represents the global ~/.tchat/config.toml.
type Config struct {
	DefaultSession string   `toml:"default_session"`
	Composer       Composer `toml:"composer"`
}

// DefaultAttachmentMaxKB is used when the config does not set a cap.
const DefaultAttachmentMaxKB = 2048

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Composer.AttachmentMaxKB <= 0 {
		cfg.Composer.AttachmentMaxKB = DefaultAttachmentMaxKB
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
