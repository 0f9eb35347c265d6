// Package config loads vcprobe configuration from YAML, global git config and
// command-line overrides, plus the per-root ignore file.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Newline policies for the rendered prompt.
const (
	NewlineAuto   = "auto"
	NewlineAlways = "always"
	NewlineNever  = "never"
)

// RootConfigFile is the per-working-copy file read by LoadRootConfig.
const RootConfigFile = ".vcprobe"

// AppConfig defines the global vcprobe configuration options.
type AppConfig struct {
	Format            string
	ModifiedIndicator string
	UnknownIndicator  string
	DebugLog          string
	// IgnoreModified lists directories whose svn working copies skip the
	// modification and untracked checks. Entries are absolute after loading.
	IgnoreModified    []string
	NetworkFSCheck    bool
	GitCommand        string
	HgCommand         string
	SvnCommand        string
	SvnVersionCommand string
	Newline           string
}

// RootConfig is the content of a .vcprobe file.
type RootConfig struct {
	Path           string
	IgnoreModified bool
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Format:            "[%n:%b%m%u] ",
		ModifiedIndicator: "+",
		UnknownIndicator:  "?",
		NetworkFSCheck:    true,
		GitCommand:        "git",
		HgCommand:         "hg",
		SvnCommand:        "svn",
		SvnVersionCommand: "svnversion",
		Newline:           NewlineAuto,
	}
}

func normalizePathList(value any) []string {
	var raw []string
	switch v := value.(type) {
	case string:
		raw = []string{v}
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}

	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if expanded, err := expandPath(p); err == nil {
			p = expanded
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		paths = append(paths, p)
	}
	return paths
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

// coerceString accepts plain strings and the last element of a multi-value
// git config key.
func coerceString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []any:
		if len(v) == 0 {
			return "", false
		}
		s, ok := v[len(v)-1].(string)
		return s, ok
	}
	return "", false
}

func setString(data map[string]any, key string, dst *string, allowEmpty bool) {
	v, ok := coerceString(data[key])
	if !ok {
		return
	}
	if !allowEmpty {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
	}
	*dst = v
}

func normalizeNewline(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case NewlineAuto:
		return NewlineAuto, true
	case NewlineAlways, "true", "yes":
		return NewlineAlways, true
	case NewlineNever, "false", "no":
		return NewlineNever, true
	}
	return "", false
}

// applyConfig layers data over cfg. Keys absent from data keep their value.
func applyConfig(cfg *AppConfig, data map[string]any) {
	// format and indicators may legitimately contain only whitespace
	setString(data, "format", &cfg.Format, true)
	setString(data, "modified_indicator", &cfg.ModifiedIndicator, true)
	setString(data, "unknown_indicator", &cfg.UnknownIndicator, true)

	setString(data, "debug_log", &cfg.DebugLog, false)
	setString(data, "git_command", &cfg.GitCommand, false)
	setString(data, "hg_command", &cfg.HgCommand, false)
	setString(data, "svn_command", &cfg.SvnCommand, false)
	setString(data, "svnversion_command", &cfg.SvnVersionCommand, false)

	if v, ok := data["ignore_modified"]; ok {
		cfg.IgnoreModified = append(cfg.IgnoreModified, normalizePathList(v)...)
	}
	if v, ok := data["network_fs_check"]; ok {
		cfg.NetworkFSCheck = coerceBool(v, cfg.NetworkFSCheck)
	}
	if v, ok := coerceString(data["newline"]); ok {
		if policy, ok := normalizeNewline(v); ok {
			cfg.Newline = policy
		}
	} else if v, ok := data["newline"].(bool); ok {
		cfg.Newline = NewlineNever
		if v {
			cfg.Newline = NewlineAlways
		}
	}
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	applyConfig(cfg, data)
	return cfg
}

// IgnoresModified reports whether dir is listed in ignore_modified or
// carries a .vcprobe file with ignore_modified set.
func (c *AppConfig) IgnoresModified(dir string) bool {
	clean := filepath.Clean(dir)
	for _, p := range c.IgnoreModified {
		if filepath.Clean(p) == clean {
			return true
		}
	}

	rc, _, err := LoadRootConfig(clean)
	if err != nil {
		return false
	}
	return rc != nil && rc.IgnoreModified
}

// LoadRootConfig loads the .vcprobe file in dir. A missing file yields a nil
// config and no error.
func LoadRootConfig(dir string) (*RootConfig, string, error) {
	if dir == "" {
		return nil, "", fmt.Errorf("empty directory")
	}
	cleanDir := filepath.Clean(dir)
	path := filepath.Join(cleanDir, RootConfigFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, path, nil
	}

	if !isPathWithin(cleanDir, path) {
		return nil, "", fmt.Errorf("invalid directory %q", dir)
	}

	dataBytes, err := fs.ReadFile(os.DirFS(cleanDir), RootConfigFile)
	if err != nil {
		return nil, path, fmt.Errorf("failed to read %s file: %w", RootConfigFile, err)
	}

	var yamlData map[string]any
	if err := yaml.Unmarshal(dataBytes, &yamlData); err != nil {
		return nil, path, fmt.Errorf("failed to parse %s file: %w", RootConfigFile, err)
	}

	return &RootConfig{
		Path:           path,
		IgnoreModified: coerceBool(yamlData["ignore_modified"], false),
	}, path, nil
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the application configuration from a YAML file and layers
// the global vcprobe.* git config keys over it. On error the returned config
// holds the defaults and is still usable.
func LoadConfig(configPath string) (*AppConfig, error) {
	configBase := filepath.Clean(filepath.Join(getConfigDir(), "vcprobe"))

	var paths []string

	if configPath != "" {
		expanded, err := expandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		if !isPathWithin(configBase, absPath) {
			return DefaultConfig(), fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	cfg := DefaultConfig()

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
		}

		applyConfig(cfg, yamlData)
		break
	}

	gitData, err := loadGitConfig()
	if err != nil {
		// a missing or broken git only means there are no overrides
		return cfg, nil
	}
	applyConfig(cfg, gitData)

	return cfg, nil
}

// ApplyCLIOverrides applies vcprobe.key=value overrides on top of c.
func (c *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyConfig(c, data)
	return nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}
