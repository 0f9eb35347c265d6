package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/chmouel/vcprobe/internal/buildinfo"
	"github.com/chmouel/vcprobe/internal/config"
	"github.com/chmouel/vcprobe/internal/format"
	"github.com/chmouel/vcprobe/internal/log"
	"github.com/chmouel/vcprobe/internal/vcs"
)

const programName = "vcprobe"

var (
	getwdFunc      = os.Getwd
	isTerminalFunc = isTerminal
)

// Run executes vcprobe with args (including the program name) and returns
// the process exit code.
func Run(ctx context.Context, args []string) int {
	urfavecli.VersionPrinter = printVersion

	cmd := NewCommand(os.Stdout, os.Stderr)
	if err := cmd.Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

// NewCommand builds the root command writing the prompt to stdout and
// diagnostics to stderr.
func NewCommand(stdout, stderr io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  programName,
		Usage:                 "Print the version control status of a directory for a shell prompt",
		Version:               buildinfo.Version(),
		Flags:                 globalFlags(),
		Writer:                stdout,
		ErrWriter:             stderr,
		HideHelpCommand:       true,
		EnableShellCompletion: true,
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return probeAction(ctx, cmd, stdout, stderr)
		},

		// formats may legitimately contain commas
		DisableSliceFlagSeparator: true,
	}
}

// probeAction is the default action: detect, extract, render, print.
func probeAction(ctx context.Context, cmd *urfavecli.Command, stdout, stderr io.Writer) error {
	defer func() {
		if err := log.Close(); err != nil {
			fmt.Fprintf(stderr, "Error closing debug log: %v\n", err)
		}
	}()

	cfg, err := loadCLIConfig(stderr,
		cmd.String("config-file"),
		cmd.String("format"),
		cmd.IsSet("format") || cmd.String("format") != "",
		cmd.StringSlice("config"),
	)
	if err != nil {
		_ = log.SetFile("")
		return err
	}

	debug := cmd.Bool("debug")
	setupDebugLog(stderr, debug, cmd.String("debug-log"), cfg.DebugLog)

	registry := vcs.NewRegistry(newEnv(cfg))
	if cmd.Bool("list-backends") {
		for _, name := range registry.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	dir, err := probeDir(cmd.String("dir"))
	if err != nil {
		return err
	}

	renderer := format.Renderer{
		Format:            cfg.Format,
		ModifiedIndicator: cfg.ModifiedIndicator,
		UnknownIndicator:  cfg.UnknownIndicator,
	}
	opts := renderer.Options(debug)
	log.Printf("probing %s with format %q (options %+v)", dir, cfg.Format, opts)
	if !opts.Any() {
		log.Printf("format requests no optional fields")
	}

	out := renderer.Render(registry.Probe(ctx, dir, opts))
	if out == "" {
		return nil
	}
	if wantNewline(cfg.Newline, stdout) {
		out += "\n"
	}
	_, err = io.WriteString(stdout, out)
	return err
}

func probeDir(flag string) (string, error) {
	if flag == "" {
		dir, err := getwdFunc()
		if err != nil {
			return "", fmt.Errorf("cannot determine current directory: %w", err)
		}
		return dir, nil
	}

	expanded, err := config.ExpandPath(flag)
	if err != nil {
		return "", fmt.Errorf("error expanding dir: %w", err)
	}
	return expanded, nil
}

// wantNewline applies the newline policy. In auto mode a newline is only
// written to terminals so prompts embedding the output stay on one line.
func wantNewline(policy string, w io.Writer) bool {
	switch policy {
	case config.NewlineAlways:
		return true
	case config.NewlineNever:
		return false
	default:
		return isTerminalFunc(w)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}

// printVersion prints version information.
func printVersion(cmd *urfavecli.Command) {
	buildinfo.Enrich()
	fmt.Fprintf(cmd.Root().Writer, "%s %s\n", cmd.Root().Name, buildinfo.Get())
}
