package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "semchem.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/semchem"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	homeDir string
	workDir string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHomeDir sets the directory holding the user config instead of the
// user's home directory.
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) { l.homeDir = dir }
}

// WithWorkDir sets the directory the project config search starts from
// instead of the working directory.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) { l.workDir = dir }
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/semchem/config.yaml)
// 3. Project config (semchem.yaml in current or parent directories)
//
// Each layer only overrides the keys it sets.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if userConfigPath := l.userConfigPath(); userConfigPath != "" {
		if err := config.overlay(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if projectConfigPath := l.findProjectConfig(); projectConfigPath != "" {
		if err := config.overlay(projectConfigPath); err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
	} else {
		l.logger.Debug("No project config found")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() (string, error) {
	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return "", errors.New("no home directory")
	}

	if _, err := os.Stat(userConfigPath); err == nil {
		return userConfigPath, nil
	}

	if err := DefaultConfig().SaveToFile(userConfigPath); err != nil {
		return "", err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return userConfigPath, nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for semchem.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
