package bootstrap

import (
	"fmt"
	"io"

	"github.com/chmouel/vcprobe/internal/config"
	"github.com/chmouel/vcprobe/internal/log"
	"github.com/chmouel/vcprobe/internal/runner"
	"github.com/chmouel/vcprobe/internal/vcs"
)

var loadConfigFunc = config.LoadConfig

// loadCLIConfig loads the application configuration and applies the
// command-line overrides. A broken config file only produces a warning.
func loadCLIConfig(stderr io.Writer, configFileFlag, formatFlag string, formatSet bool, configOverrides []string) (*config.AppConfig, error) {
	cfg, err := loadConfigFunc(configFileFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if len(configOverrides) > 0 {
		if err := cfg.ApplyCLIOverrides(configOverrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	if formatSet {
		cfg.Format = formatFlag
	}

	return cfg, nil
}

// setupDebugLog picks the debug destination: --debug wins over --debug-log,
// which wins over the debug_log config key. Without any, the buffered
// messages are dropped.
func setupDebugLog(stderr io.Writer, debug bool, flagPath, configPath string) {
	switch {
	case debug:
		log.SetOutput(stderr)
	case flagPath != "":
		openDebugLog(stderr, flagPath)
	case configPath != "":
		openDebugLog(stderr, configPath)
	default:
		_ = log.SetFile("")
	}
}

func openDebugLog(stderr io.Writer, path string) {
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

// newEnv maps the configuration onto the backend environment.
func newEnv(cfg *config.AppConfig) vcs.Env {
	return vcs.Env{
		Runner: runner.Exec{},
		Commands: vcs.Commands{
			Git:        cfg.GitCommand,
			Hg:         cfg.HgCommand,
			Svn:        cfg.SvnCommand,
			SvnVersion: cfg.SvnVersionCommand,
		},
		IgnoreModified: cfg.IgnoresModified,
		NetworkFSCheck: cfg.NetworkFSCheck,
	}
}
