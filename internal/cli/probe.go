package cli

import (
	"fmt"
	"time"

	"imagehost/internal/libvips"
	"imagehost/internal/startup"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration
	var noVips bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Report whether WebP conversion is available here",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("timeout") {
				config.ProbeTimeout = timeout
			}

			initRuntime()
			engine := newEngine(config, !noVips)
			defer engine.close()

			start := time.Now()
			decodable := engine.probe.SupportsTargetFormat(cmd.Context())
			elapsed := time.Since(start)

			fmt.Fprintln(cmd.OutOrStdout(), renderProbe(engine.vips, decodable, elapsed))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", startup.DefaultProbeTimeout, "Probe timeout")
	cmd.Flags().BoolVar(&noVips, "no-vips", false, "Probe without starting libvips")

	return cmd
}

func renderProbe(encoder, decodable bool, elapsed time.Duration) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Check", "Result"})
	tw.AppendRow(table.Row{"WebP sample decodes", yesNo(decodable)})
	tw.AppendRow(table.Row{"WebP encoder (libvips " + vipsVersion(encoder) + ")", yesNo(encoder)})
	tw.AppendRow(table.Row{"Probe time", elapsed.Round(time.Microsecond).String()})
	tw.AppendFooter(table.Row{"WebP conversion", availability(encoder && decodable)})
	return tw.Render()
}

func vipsVersion(available bool) string {
	if !available {
		return "not loaded"
	}
	return libvips.Version()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func availability(v bool) string {
	if v {
		return "available"
	}
	return "unavailable"
}
