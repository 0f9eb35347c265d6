// Package bootstrap defines the vcprobe command line and wires configuration,
// logging, the VCS registry and the prompt renderer together.
package bootstrap

import (
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all flags of the vcprobe command.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Prompt format: %b branch, %r revision, %m modified, %u unknown, %n VCS name, %% percent",
			Sources: urfavecli.EnvVars("VCPROBE_FORMAT"),
		},
		&urfavecli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Directory to probe (default: current directory)",
		},
		&urfavecli.BoolFlag{
			Name:  "debug",
			Usage: "Print debug messages to stderr",
		},
		&urfavecli.StringFlag{
			Name:    "debug-log",
			Usage:   "Path to debug log file",
			Sources: urfavecli.EnvVars("VCPROBE_DEBUG_LOG"),
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): -C vcprobe.key=value",
		},
		&urfavecli.BoolFlag{
			Name:  "list-backends",
			Usage: "List the supported version control systems in detection order",
		},
	}
}
