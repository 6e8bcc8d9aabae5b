package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidgrab/internal/invocation"
	"vidgrab/internal/quality"
)

type tierOutput struct {
	Level         string   `json:"level"`
	Aliases       []string `json:"aliases,omitempty"`
	Description   string   `json:"description"`
	TranscodeArgs []string `json:"transcode_args"`
}

func newTiersCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "List quality tiers and their encoder settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := invocation.OptionsFromConfig(cfg)

			profiles := quality.Profiles()
			tiers := make([]tierOutput, 0, len(profiles))
			for _, profile := range profiles {
				tiers = append(tiers, tierOutput{
					Level:         profile.Level.String(),
					Aliases:       profile.Aliases,
					Description:   profile.Description,
					TranscodeArgs: invocation.TranscodeArgs(profile, nil, opts.VideoCodec, opts.SharpenFilter),
				})
			}

			if jsonOut {
				return writeJSON(cmd, tiers)
			}

			rows := make([][]string, 0, len(tiers))
			for _, tier := range tiers {
				rows = append(rows, []string{
					tier.Level,
					strings.Join(tier.Aliases, ", "),
					tier.Description,
					strings.Join(tier.TranscodeArgs, " "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]tableColumn{
					{header: "Level"},
					{header: "Aliases"},
					{header: "Description", maxWidth: 32},
					{header: "Encoder arguments", maxWidth: 60},
				},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
