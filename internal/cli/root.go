package cli

import (
	"context"
	"fmt"

	"imagehost/internal/logging"
	"imagehost/internal/startup"

	"github.com/spf13/cobra"
)

// commandContext carries the persistent flags and lazily loaded
// configuration shared by every subcommand.
type commandContext struct {
	logLevel  string
	prefsPath string

	config *startup.Config
}

func (c *commandContext) ensureConfig() (*startup.Config, error) {
	if c.config != nil {
		return c.config, nil
	}

	config, err := startup.LoadConfig()
	if err != nil {
		return nil, err
	}
	if c.prefsPath != "" {
		config.PreferencesPath = c.prefsPath
	}
	c.config = config
	return config, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "imagehost",
		Short:         "Compress and convert images to WebP before upload",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if ctx.logLevel != "" {
				level, ok := logging.ParseLevel(ctx.logLevel)
				if !ok {
					return fmt.Errorf("invalid --log-level %q", ctx.logLevel)
				}
				logging.SetLevel(level)
			}
			logging.SetOutput(cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&ctx.prefsPath, "prefs", "", "Preferences file (default $IMAGEHOST_PREFERENCES)")

	rootCmd.AddCommand(newProcessCommand(ctx))
	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the command line with args (without the program name).
func Execute(ctx context.Context, args []string) error {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
