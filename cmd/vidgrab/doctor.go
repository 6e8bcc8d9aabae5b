package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidgrab/internal/config"
	"vidgrab/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var dest string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the toolchain and destination folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(dest)
			if target == "" {
				target = cfg.Paths.DownloadDir
			}
			target, err = config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("resolve destination: %w", err)
			}

			results := preflight.RunAll(cmd.Context(), cfg, target)
			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				lines := renderSectionHeader("vidgrab toolchain", colorize)
				lines = append(lines, preflightLines(results, colorize)...)
				lines = append(lines, renderStatusLine("Tools dir", statusInfo, cfg.Paths.ToolsDir, colorize))
				lines = append(lines, renderStatusLine("Auto install", statusInfo, yesNo(cfg.Bootstrap.AutoInstall), colorize))
				for _, line := range lines {
					fmt.Fprintln(out, line)
				}
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New("doctor found problems: " + failedNames(failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination folder to check (defaults to paths.download_dir)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
