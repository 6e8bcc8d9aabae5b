package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vidgrab/internal/bootstrap"
	"vidgrab/internal/prompt"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Install yt-dlp and ffmpeg into the tools directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.runLogger()
			if err != nil {
				return err
			}

			var opts []bootstrap.Option
			stderr := cmd.ErrOrStderr()
			if attachedToTerminal(stderr) {
				opts = append(opts, bootstrap.WithProgress(stderr))
			}
			confirm := bootstrap.AlwaysConfirm
			if !yes {
				p := prompt.New(cmd.InOrStdin(), stderr)
				confirm = func(tool string) (bool, error) {
					return p.Confirm(fmt.Sprintf("Download %s into %s?", tool, cfg.Paths.ToolsDir), true)
				}
			}

			originalPath := os.Getenv("PATH")
			report, err := bootstrap.New(cfg, logger, opts...).Ensure(cmd.Context(), confirm)
			if err != nil {
				return fmt.Errorf("setup: %w", err)
			}
			if jsonOut {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, name := range report.Present {
				fmt.Fprintln(out, renderStatusLine(name, statusOK, "already available", colorize))
			}
			for _, name := range report.Installed {
				fmt.Fprintln(out, renderStatusLine(name, statusOK, "installed", colorize))
			}
			if len(report.Installed) > 0 && !onPath(originalPath, report.ToolsDir) {
				fmt.Fprintln(out, "Add the tools directory to your shell PATH to use the binaries directly:")
				fmt.Fprintf(out, "  export PATH=%q:\"$PATH\"\n", report.ToolsDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Install missing tools without asking")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// onPath reports whether dir is an entry of the PATH-style list pathList.
func onPath(pathList, dir string) bool {
	for _, entry := range filepath.SplitList(pathList) {
		if strings.TrimSpace(entry) != "" && filepath.Clean(entry) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}
