package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/tmuxito/internal/state"
)

func writeConfig(t *testing.T, body string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tmuxito", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, []string{"XDG_CONFIG_HOME=" + dir}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.Timeout != DefaultTimeout || cfg.App.PreviewInterval != DefaultPreviewInterval {
		t.Fatalf("unexpected durations: %+v", cfg.App)
	}
	if cfg.App.TmuxBinary != "tmux" || cfg.App.DefaultSort != state.SortName || cfg.App.Theme != "dark" {
		t.Fatalf("unexpected defaults: %+v", cfg.App)
	}
	if cfg.App.SkipKillConfirmation {
		t.Fatalf("kill confirmation should be on by default")
	}
	if cfg.File != "" {
		t.Fatalf("missing default file should be ignored, got %q", cfg.File)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadArgsReadsConfigFile(t *testing.T) {
	path, env := writeConfig(t, "skip_kill_confirmation = true\ndefault_sort = \"date\"\ncolor_theme = \"latte\"\n")
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.File != path {
		t.Fatalf("file = %q, want %q", cfg.File, path)
	}
	if !cfg.App.SkipKillConfirmation || cfg.App.DefaultSort != state.SortDate || cfg.App.Theme != "latte" {
		t.Fatalf("file values not applied: %+v", cfg.App)
	}
}

func TestFlagsAndEnvOverrideFile(t *testing.T) {
	_, env := writeConfig(t, "skip_kill_confirmation = true\ndefault_sort = \"date\"\ncolor_theme = \"latte\"\n")
	env = append(env, "TMUXITO_THEME=frappe", "TMUXITO_TIMEOUT=2s")
	cfg, err := LoadArgs([]string{"-sort", "attached", "-skip-kill-confirm=false", "-preview-interval", "0"}, env)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.DefaultSort != state.SortAttached {
		t.Fatalf("sort = %v", cfg.App.DefaultSort)
	}
	if cfg.App.SkipKillConfirmation {
		t.Fatalf("explicit flag should win over the file")
	}
	if cfg.App.Theme != "frappe" {
		t.Fatalf("env theme should win over the file, got %q", cfg.App.Theme)
	}
	if cfg.App.Timeout != 2*time.Second || cfg.App.PreviewInterval != 0 {
		t.Fatalf("durations = %s, %s", cfg.App.Timeout, cfg.App.PreviewInterval)
	}
	if cfg.Flags["sort"] != "attached" || cfg.Flags["theme"] != "frappe" {
		t.Fatalf("flags map = %v", cfg.Flags)
	}
}

func TestDefaultFileUnknownKeyIsAWarning(t *testing.T) {
	_, env := writeConfig(t, "default_sort = \"date\"\ncolour = \"red\"\n")
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "colour") {
		t.Fatalf("warnings = %v", cfg.Warnings)
	}
	if cfg.App.DefaultSort != state.SortDate {
		t.Fatalf("known keys should still apply, sort = %v", cfg.App.DefaultSort)
	}
}

func TestDefaultFileInvalidValuesFallBack(t *testing.T) {
	_, env := writeConfig(t, "default_sort = \"size\"\ncolor_theme = \"solarized\"\nskip_kill_confirmation = true\n")
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.DefaultSort != state.SortName || cfg.App.Theme != "dark" || !cfg.App.SkipKillConfirmation {
		t.Fatalf("expected defaults for bad values only: %+v", cfg.App)
	}
	if len(cfg.Warnings) != 2 {
		t.Fatalf("warnings = %v", cfg.Warnings)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDefaultFileMalformedFallsBack(t *testing.T) {
	_, env := writeConfig(t, "skip_kill_confirmation = \"yes\"\ndefault_sort = \"date\"\n")
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.File != "" || cfg.App.SkipKillConfirmation || cfg.App.DefaultSort != state.SortName {
		t.Fatalf("malformed file should be ignored entirely: file=%q %+v", cfg.File, cfg.App)
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "ignoring config file") {
		t.Fatalf("warnings = %v", cfg.Warnings)
	}

	_, env = writeConfig(t, "this is not toml\n")
	if cfg, err = LoadArgs(nil, env); err != nil || len(cfg.Warnings) != 1 {
		t.Fatalf("expected a warning, got %v, %v", cfg.Warnings, err)
	}
}

func TestExplicitFileIsStrict(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":  "colour = \"red\"\n",
		"invalid sort": "default_sort = \"size\"\n",
		"wrong type":   "skip_kill_confirmation = \"yes\"\n",
		"not toml":     "this is not toml\n",
	} {
		t.Run(name, func(t *testing.T) {
			path, _ := writeConfig(t, body)
			if _, err := LoadArgs([]string{"-config", path}, nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	path, _ := writeConfig(t, "color_theme = \"solarized\"\n")
	cfg, err := LoadArgs([]string{"-config", path}, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected invalid theme error")
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := LoadArgs([]string{"-config", missing}, nil); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
	if _, err := LoadArgs(nil, []string{"TMUXITO_CONFIG=" + missing}); err == nil {
		t.Fatalf("expected error for missing config from env")
	}
}

func TestInvalidEnvironment(t *testing.T) {
	env := []string{"XDG_CONFIG_HOME=" + t.TempDir(), "TMUXITO_TIMEOUT=soon", "TMUXITO_TRACE=maybe"}
	_, err := LoadArgs(nil, env)
	if err == nil || !strings.Contains(err.Error(), "TMUXITO_TIMEOUT") || !strings.Contains(err.Error(), "TMUXITO_TRACE") {
		t.Fatalf("expected both env errors, got %v", err)
	}
}

func TestValidateRejectsBadDurations(t *testing.T) {
	cfg, err := LoadArgs([]string{"-timeout", "0s"}, []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected timeout error")
	}
	cfg, err = LoadArgs([]string{"-preview-interval", "-1s"}, []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected preview interval error")
	}
}

func TestHelpReturnsUsage(t *testing.T) {
	_, err := LoadArgs([]string{"-h"}, nil)
	var help *HelpRequested
	if !errors.As(err, &help) {
		t.Fatalf("expected HelpRequested, got %v", err)
	}
	if !strings.Contains(help.Usage, "-preview-interval") {
		t.Fatalf("usage missing flags:\n%s", help.Usage)
	}
}

func TestDefaultConfigPathFallsBackToHome(t *testing.T) {
	got := defaultConfigPath(map[string]string{"HOME": "/home/me"})
	if got != filepath.Join("/home/me", ".config", "tmuxito", "config.toml") {
		t.Fatalf("path = %q", got)
	}
	if defaultConfigPath(map[string]string{}) != "" {
		t.Fatalf("expected no path without HOME")
	}
}
