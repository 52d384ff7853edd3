package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFlags(t *testing.T) {
	tests := []struct {
		name string
		raw  RawFlags
		want Flags
	}{
		{
			name: "defaults increment build and check in",
			raw:  RawFlags{IncrementBuild: true},
			want: Flags{IncrementBuild: true, Checkin: true},
		},
		{
			name: "revision increment passes through",
			raw:  RawFlags{IncrementRevision: true},
			want: Flags{IncrementRevision: true, Checkin: true},
		},
		{
			name: "skip check-in",
			raw:  RawFlags{IncrementBuild: true, SkipCheckin: true},
			want: Flags{IncrementBuild: true},
		},
		{
			name: "do-not-increment overrides everything",
			raw: RawFlags{
				IncrementBuild:    true,
				IncrementRevision: true,
				DoNotIncrement:    true,
			},
			want: Flags{},
		},
		{
			name: "filter pattern enables filtering",
			raw:  RawFlags{IncrementBuild: true, FilterPattern: "Voice4Net"},
			want: Flags{
				IncrementBuild: true,
				Checkin:        true,
				FilterEnabled:  true,
				FilterPattern:  "Voice4Net",
			},
		},
		{
			name: "do-not-increment keeps the filter",
			raw:  RawFlags{DoNotIncrement: true, FilterPattern: "Voice4Net"},
			want: Flags{FilterEnabled: true, FilterPattern: "Voice4Net"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveFlags(tt.raw); got != tt.want {
				t.Errorf("ResolveFlags(%+v) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		SourcesRoot:   "/srv/build/sources",
		CollectionURL: "https://tfs.example.com/tfs/DefaultCollection",
		WorkspaceName: "ws_42_7",
		AuthMode:      "ntlm",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		checkin bool
		wantErr error
	}{
		{
			name:    "valid for check-in",
			mutate:  func(*Config) {},
			checkin: true,
		},
		{
			name:    "missing sources root",
			mutate:  func(c *Config) { c.SourcesRoot = " " },
			checkin: false,
			wantErr: ErrMissingSourcesRoot,
		},
		{
			name:    "missing collection only matters for check-in",
			mutate:  func(c *Config) { c.CollectionURL = "" },
			checkin: false,
		},
		{
			name:    "missing collection fatal for check-in",
			mutate:  func(c *Config) { c.CollectionURL = "" },
			checkin: true,
			wantErr: ErrMissingCollection,
		},
		{
			name:    "missing workspace fatal for check-in",
			mutate:  func(c *Config) { c.WorkspaceName = "" },
			checkin: true,
			wantErr: ErrMissingWorkspace,
		},
		{
			name:    "bad auth mode",
			mutate:  func(c *Config) { c.AuthMode = "kerberos" },
			checkin: false,
			wantErr: ErrInvalidAuthMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate(tt.checkin)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !IsConfigError(err) {
				t.Errorf("IsConfigError(%v) = false, want true", err)
			}
		})
	}
}

func TestLoadOverlaysINIFile(t *testing.T) {
	t.Setenv("BUILD_SOURCESDIRECTORY", "/srv/build/sources")
	t.Setenv("AGENT_TEMPDIRECTORY", "/srv/build/tmp")
	t.Setenv("SYSTEM_TEAMFOUNDATIONCOLLECTIONURI", "https://env.example.com/tfs/Env")
	t.Setenv("BUILD_REPOSITORY_TFVC_WORKSPACE", "ws_9_1")
	t.Setenv("BUILD_BUILDNUMBER", "CallRouter_1.0.0.0_Nightly")
	t.Setenv("AGENT_NAME", "BUILD01")

	path := filepath.Join(t.TempDir(), "config")
	content := `[collection]
url = https://file.example.com/tfs/File

[auth]
mode = pat
username = builder
token = secret
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SourcesRoot != "/srv/build/sources" {
		t.Errorf("SourcesRoot = %q", cfg.SourcesRoot)
	}
	if cfg.CollectionURL != "https://file.example.com/tfs/File" {
		t.Errorf("CollectionURL = %q, file should win over environment", cfg.CollectionURL)
	}
	if cfg.AuthMode != "pat" || cfg.Username != "builder" || cfg.Token != "secret" {
		t.Errorf("auth = %q/%q/%q", cfg.AuthMode, cfg.Username, cfg.Token)
	}
	if cfg.BuildNumber != "CallRouter_1.0.0.0_Nightly" {
		t.Errorf("BuildNumber = %q", cfg.BuildNumber)
	}
	if cfg.NeedsToken() {
		t.Error("NeedsToken() = true with token present")
	}
}

func TestLoadWithoutFileUsesEnvironment(t *testing.T) {
	t.Setenv("BUILD_SOURCESDIRECTORY", "/srv/build/sources")
	t.Setenv("AGENT_TEMPDIRECTORY", "")
	t.Setenv("SYSTEM_TEAMFOUNDATIONCOLLECTIONURI", "https://env.example.com/tfs/Env")
	t.Setenv("BUILD_REPOSITORY_TFVC_WORKSPACE", "")
	t.Setenv("BUILD_BUILDNUMBER", "")
	t.Setenv("AGENT_NAME", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CollectionURL != "https://env.example.com/tfs/Env" {
		t.Errorf("CollectionURL = %q", cfg.CollectionURL)
	}
	if cfg.TempDir == "" {
		t.Error("TempDir should fall back to the system temp directory")
	}
	if cfg.AuthMode != "ntlm" {
		t.Errorf("AuthMode default = %q, want ntlm", cfg.AuthMode)
	}
	if cfg.NeedsToken() {
		t.Error("NeedsToken() = true for ntlm mode")
	}
}

func TestNeedsToken(t *testing.T) {
	if !(Config{AuthMode: "pat"}).NeedsToken() {
		t.Error("pat without token should need a token")
	}
	if (Config{AuthMode: "pat", Token: "x"}).NeedsToken() {
		t.Error("pat with token should not need a token")
	}
	if (Config{AuthMode: "ntlm"}).NeedsToken() {
		t.Error("ntlm should not need a token")
	}
}
