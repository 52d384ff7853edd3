// Package config provides configuration management for versync.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/ini.v1"
)

// Config is the resolved environment of one run: where the sources live,
// which collection to check in to, and how to authenticate. It is built once
// and passed by value from there on.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\versync\config
//   - Unix: ~/.config/versync/config
//
// INI format:
//
//	[collection]
//	url = https://tfs.voice4net.com/tfs/DefaultCollection
//
//	[auth]
//	mode = pat
//	username = builder
//	token = <personal-access-token>
type Config struct {
	// SourcesRoot is the checked-out source tree the build is compiling.
	SourcesRoot string

	// TempDir holds the per-file workspace mappings for the run.
	TempDir string

	// CollectionURL is the version-control collection endpoint.
	CollectionURL string

	// WorkspaceName is the build agent's workspace, used to resolve local
	// paths to server paths.
	WorkspaceName string

	// BuildNumber is the displayed identifier of the running build.
	BuildNumber string

	// AgentName identifies the build agent that owns the workspace.
	AgentName string

	// Auth settings for the collection connection.
	AuthMode string `ini:"mode"`
	Username string `ini:"username"`
	Token    string `ini:"token"`
}

// Validation errors
var (
	ErrMissingSourcesRoot = errors.New("sources root is required (BUILD_SOURCESDIRECTORY)")
	ErrMissingCollection  = errors.New("collection URL is required when check-in is enabled")
	ErrMissingWorkspace   = errors.New("workspace name is required when check-in is enabled")
	ErrInvalidAuthMode    = errors.New("auth mode must be one of pat, basic, ntlm")
)

// configErrors lists every error class that must abort the run before any
// scanning happens.
var configErrors = []error{
	ErrMissingSourcesRoot,
	ErrMissingCollection,
	ErrMissingWorkspace,
	ErrInvalidAuthMode,
}

// IsConfigError reports whether err is a fatal misconfiguration.
func IsConfigError(err error) bool {
	for _, sentinel := range configErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// DefaultConfigPath returns the default path for the versync config file.
func DefaultConfigPath() (string, error) {
	var configDir string

	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		configDir = filepath.Join(userProfile, ".config", "versync")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "versync")
	}

	return filepath.Join(configDir, "config"), nil
}

// Load builds a Config from the build agent environment, then overlays the
// INI config file if one exists. A missing file is not an error; the agent
// environment alone is a complete configuration for PAT-less NTLM setups.
func Load(path string) (Config, error) {
	cfg := Config{
		SourcesRoot:   os.Getenv("BUILD_SOURCESDIRECTORY"),
		TempDir:       os.Getenv("AGENT_TEMPDIRECTORY"),
		CollectionURL: os.Getenv("SYSTEM_TEAMFOUNDATIONCOLLECTIONURI"),
		WorkspaceName: os.Getenv("BUILD_REPOSITORY_TFVC_WORKSPACE"),
		BuildNumber:   os.Getenv("BUILD_BUILDNUMBER"),
		AgentName:     os.Getenv("AGENT_NAME"),
		AuthMode:      "ntlm",
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config file: %w", err)
	}

	collection := iniFile.Section("collection")
	cfg.CollectionURL = collection.Key("url").MustString(cfg.CollectionURL)

	auth := iniFile.Section("auth")
	cfg.AuthMode = auth.Key("mode").MustString(cfg.AuthMode)
	cfg.Username = auth.Key("username").String()
	cfg.Token = auth.Key("token").String()

	return cfg, nil
}

// Validate checks the configuration against what the run will need.
// Check-in needs the collection endpoint and workspace; a local-only run
// (check-in disabled) only needs the source tree.
func (cfg Config) Validate(checkinEnabled bool) error {
	if strings.TrimSpace(cfg.SourcesRoot) == "" {
		return ErrMissingSourcesRoot
	}

	switch strings.ToLower(cfg.AuthMode) {
	case "pat", "basic", "ntlm":
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidAuthMode, cfg.AuthMode)
	}

	if checkinEnabled {
		if strings.TrimSpace(cfg.CollectionURL) == "" {
			return ErrMissingCollection
		}
		if strings.TrimSpace(cfg.WorkspaceName) == "" {
			return ErrMissingWorkspace
		}
	}

	return nil
}

// NeedsToken reports whether the configured auth mode requires a credential
// that has not been provided. Used by the CLI to decide whether to prompt.
func (cfg Config) NeedsToken() bool {
	mode := strings.ToLower(cfg.AuthMode)
	if mode != "pat" && mode != "basic" {
		return false
	}
	return cfg.Token == ""
}
