package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/atomicstack/tmuxito/internal/app"
	"github.com/atomicstack/tmuxito/internal/state"
	"github.com/atomicstack/tmuxito/internal/theme"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging

	// File is the config file that was read, or "" when none was.
	File  string
	Flags map[string]string
	Args  []string

	// Warnings describe problems in the default config file that were
	// skipped in favour of built-in values.
	Warnings []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	DefaultTimeout         = 5 * time.Second
	DefaultPreviewInterval = 3 * time.Second
	DefaultTmuxBinary      = "tmux"
)

const (
	envConfig          = "TMUXITO_CONFIG"
	envSocketPath      = "TMUXITO_SOCKET"
	envTmux            = "TMUXITO_TMUX"
	envTimeout         = "TMUXITO_TIMEOUT"
	envPreviewInterval = "TMUXITO_PREVIEW_INTERVAL"
	envSort            = "TMUXITO_SORT"
	envSkipKillConfirm = "TMUXITO_SKIP_KILL_CONFIRM"
	envTheme           = "TMUXITO_THEME"
	envTrace           = "TMUXITO_TRACE"
	envLogFile         = "TMUXITO_LOG_FILE"
)

// HelpRequested is returned when -h or -help is given.
type HelpRequested struct {
	Usage string
}

func (h *HelpRequested) Error() string { return "help requested" }

// fileConfig mirrors config.toml. Pointers distinguish unset keys from zero
// values.
type fileConfig struct {
	SkipKillConfirmation *bool   `toml:"skip_kill_confirmation"`
	DefaultSort          *string `toml:"default_sort"`
	ColorTheme           *string `toml:"color_theme"`
}

// Load parses configuration from CLI arguments, environment variables and
// the config file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Precedence is
// flag, then environment, then config file, then built-in default.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := envReader{values: parseEnv(environ)}

	fs := flag.NewFlagSet("tmuxito", flag.ContinueOnError)
	usage := new(strings.Builder)
	fs.SetOutput(usage)

	configPath := fs.String("config", env.str(envConfig, ""), "path to config.toml (default $XDG_CONFIG_HOME/tmuxito/config.toml)")
	socket := fs.String("socket", env.str(envSocketPath, ""), "path to the tmux socket (overrides environment detection)")
	binary := fs.String("tmux", env.str(envTmux, DefaultTmuxBinary), "tmux binary name or path")
	timeout := fs.Duration("timeout", env.duration(envTimeout, DefaultTimeout), "timeout for each tmux command")
	interval := fs.Duration("preview-interval", env.duration(envPreviewInterval, DefaultPreviewInterval), "preview refresh interval (0 disables)")
	sortKey := fs.String("sort", env.str(envSort, ""), "initial sort: name, date or attached")
	skipConfirm := fs.Bool("skip-kill-confirm", env.boolean(envSkipKillConfirm, false), "kill sessions without asking")
	themeName := fs.String("theme", env.str(envTheme, ""), "colour theme: "+strings.Join(theme.Names(), ", "))
	trace := fs.Bool("trace", env.boolean(envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", env.str(envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, &HelpRequested{Usage: usage.String()}
		}
		return Config{}, err
	}
	if err := env.err(); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	explicit := env.present()
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	// an explicitly named file must be valid; the default one degrades to
	// built-in values with a warning
	path, required := *configPath, *configPath != ""
	if !required {
		path = defaultConfigPath(env.values)
	}
	var warnings []string
	file, used, unknown, err := readFile(path, required)
	if err != nil {
		if required {
			return Config{}, err
		}
		warnings = append(warnings, fmt.Sprintf("ignoring config file: %v", err))
		file, used = fileConfig{}, false
	}
	if len(unknown) > 0 {
		msg := fmt.Sprintf("parse %s: unknown keys: %s", path, strings.Join(unknown, ", "))
		if required {
			return Config{}, errors.New(msg)
		}
		warnings = append(warnings, msg)
	}

	sortSet, themeSet := *sortKey != "", *themeName != ""
	if !explicit["sort"] && file.DefaultSort != nil {
		if _, perr := state.ParseSortKey(*file.DefaultSort); perr != nil && !required {
			warnings = append(warnings, fmt.Sprintf("%s: default_sort: %v", path, perr))
		} else {
			*sortKey, sortSet = *file.DefaultSort, true
		}
	}
	if !explicit["theme"] && file.ColorTheme != nil {
		if !theme.Valid(*file.ColorTheme) && !required {
			warnings = append(warnings, fmt.Sprintf("%s: unknown color_theme %q", path, *file.ColorTheme))
		} else {
			*themeName, themeSet = *file.ColorTheme, true
		}
	}
	if !explicit["skip-kill-confirm"] && file.SkipKillConfirmation != nil {
		*skipConfirm = *file.SkipKillConfirmation
	}

	key := state.SortName
	if sortSet {
		key, err = state.ParseSortKey(*sortKey)
		if err != nil {
			return Config{}, fmt.Errorf("sort: %w", err)
		}
	}
	if !themeSet {
		*themeName = theme.DefaultName
	}

	cfg := Config{
		App: app.Config{
			SocketPath:           *socket,
			TmuxBinary:           *binary,
			Timeout:              *timeout,
			PreviewInterval:      *interval,
			DefaultSort:          key,
			SkipKillConfirmation: *skipConfirm,
			Theme:                *themeName,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"config":            *configPath,
			"socket":            *socket,
			"tmux":              *binary,
			"timeout":           timeout.String(),
			"preview-interval":  interval.String(),
			"sort":              key.String(),
			"skip-kill-confirm": strconv.FormatBool(*skipConfirm),
			"theme":             *themeName,
			"trace":             strconv.FormatBool(*trace),
			"logFile":           *logFile,
		},
		Args:     append([]string(nil), args...),
		Warnings: warnings,
	}
	if used {
		cfg.File = path
	}
	return cfg, nil
}

// defaultConfigPath resolves $XDG_CONFIG_HOME/tmuxito/config.toml, falling
// back to ~/.config.
func defaultConfigPath(env map[string]string) string {
	base := env["XDG_CONFIG_HOME"]
	if base == "" {
		home := env["HOME"]
		if home == "" {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "tmuxito", "config.toml")
}

// readFile decodes path and reports keys it does not know. A missing file is
// only an error when the path was given explicitly.
func readFile(path string, required bool) (fileConfig, bool, []string, error) {
	var fc fileConfig
	if path == "" {
		return fc, false, nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return fc, false, nil, nil
		}
		return fc, false, nil, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fileConfig{}, false, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	undecoded := md.Undecoded()
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fc, true, keys, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

// envReader supplies flag defaults from TMUXITO_* variables and remembers
// values that failed to parse.
type envReader struct {
	values map[string]string
	errs   []error
}

var envFlags = map[string]string{
	envSort:            "sort",
	envTheme:           "theme",
	envSkipKillConfirm: "skip-kill-confirm",
}

// present reports which file-backed settings the environment already sets.
func (r *envReader) present() map[string]bool {
	out := make(map[string]bool, len(envFlags))
	for envKey, flagName := range envFlags {
		if v, ok := r.values[envKey]; ok && strings.TrimSpace(v) != "" {
			out[flagName] = true
		}
	}
	return out
}

func (r *envReader) str(key, fallback string) string {
	if v, ok := r.values[key]; ok && v != "" {
		return v
	}
	return fallback
}

func (r *envReader) boolean(key string, fallback bool) bool {
	v, ok := r.values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return fallback
	}
	return parsed
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v, ok := r.values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return fallback
	}
	return parsed
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}

// Validate ensures the loaded values are usable.
func Validate(cfg Config) error {
	if cfg.App.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", cfg.App.Timeout)
	}
	if cfg.App.PreviewInterval < 0 {
		return fmt.Errorf("preview-interval must be >= 0 (got %s)", cfg.App.PreviewInterval)
	}
	if strings.TrimSpace(cfg.App.TmuxBinary) == "" {
		return errors.New("tmux binary must not be empty")
	}
	if !theme.Valid(cfg.App.Theme) {
		return fmt.Errorf("unknown theme %q (want one of %s)", cfg.App.Theme, strings.Join(theme.Names(), ", "))
	}
	return nil
}

// MustLoad returns validated configuration or exits: 0 after printing help,
// 1 on any configuration error.
func MustLoad() Config {
	cfg, err := Load()
	if err == nil {
		err = Validate(cfg)
	}
	if err != nil {
		var help *HelpRequested
		if errors.As(err, &help) {
			fmt.Fprint(os.Stdout, help.Usage)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
