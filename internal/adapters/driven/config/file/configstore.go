// Package file provides file-based configuration adapters: TOML defaults
// beneath the environment, and user-editable prompt templates.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/kumar8074/GitSurfer/internal/config"
)

// configFile is the on-disk TOML schema for ~/.gitsurfer/config.toml.
type configFile struct {
	LLMProvider       string `toml:"llm_provider"`
	EmbeddingProvider string `toml:"embedding_provider"`
	DataDir           string `toml:"data_dir"`
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".gitsurfer", "config.toml"), nil
}

// LoadDefaults reads file-sourced defaults from path. If path is empty the
// default location is used. A missing file yields zero defaults and no error.
func LoadDefaults(path string) (config.Defaults, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return config.Defaults{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Defaults{}, nil
		}
		return config.Defaults{}, fmt.Errorf("read config file: %w", err)
	}

	var cf configFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return config.Defaults{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return config.Defaults{
		LLMProvider:       cf.LLMProvider,
		EmbeddingProvider: cf.EmbeddingProvider,
		DataDir:           cf.DataDir,
	}, nil
}

// SaveDefaults writes defaults to path (or the default location), creating
// the parent directory as needed.
func SaveDefaults(path string, defaults config.Defaults) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(configFile{
		LLMProvider:       defaults.LLMProvider,
		EmbeddingProvider: defaults.EmbeddingProvider,
		DataDir:           defaults.DataDir,
	})
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
