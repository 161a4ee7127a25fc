package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"imagehost/internal/logging"
	"imagehost/internal/startup"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

const lockFileName = ".imagehost.lock"

type processFlags struct {
	compress    bool
	webp        bool
	outDir      string
	uniqueNames bool
	metricsAddr string
	savePrefs   bool
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	flags := &processFlags{}

	cmd := &cobra.Command{
		Use:   "process <file>...",
		Short: "Compress and convert images, writing the results to the output directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			prefs, _, err := startup.LoadPreferences(config.PreferencesPath)
			if err != nil {
				return err
			}
			applyProcessFlags(cmd, flags, config, &prefs)

			return runProcess(cmd, config, prefs, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.compress, "compress", true, "Reduce size and dimensions before upload")
	cmd.Flags().BoolVar(&flags.webp, "webp", true, "Convert to WebP when supported")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "Output directory (default $IMAGEHOST_OUTPUT_DIR)")
	cmd.Flags().BoolVar(&flags.uniqueNames, "unique-names", false, "Name outputs <unix-ms>-<hex>.<ext>")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address while processing")
	cmd.Flags().BoolVar(&flags.savePrefs, "save-prefs", false, "Remember the effective options in the preferences file")

	return cmd
}

// applyProcessFlags layers explicitly set flags over the preferences file,
// which in turn overrides the environment.
func applyProcessFlags(cmd *cobra.Command, flags *processFlags, config *startup.Config, prefs *startup.Preferences) {
	f := cmd.Flags()
	if f.Changed("compress") {
		prefs.Processing.EnableCompression = flags.compress
	}
	if f.Changed("webp") {
		prefs.Processing.EnableWebP = flags.webp
	}
	if f.Changed("unique-names") {
		prefs.Output.UniqueNames = flags.uniqueNames
	} else if config.UniqueNames {
		prefs.Output.UniqueNames = true
	}

	switch {
	case f.Changed("out"):
		config.OutputDir = flags.outDir
	case prefs.Output.Dir != "":
		config.OutputDir = prefs.Output.Dir
	}
	if f.Changed("out") && flags.savePrefs {
		prefs.Output.Dir = flags.outDir
	}

	if f.Changed("metrics-addr") {
		config.MetricsAddr = flags.metricsAddr
	}
}

func runProcess(cmd *cobra.Command, config *startup.Config, prefs startup.Preferences, paths []string, flags *processFlags) error {
	opts := prefs.Processing

	inputs, err := readInputs(paths)
	if err != nil {
		return err
	}

	outDir, err := filepath.Abs(config.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	if err := startup.EnsureOutputDir(outDir); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(outDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another imagehost process is writing to %s", outDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.Warn("failed to release output lock: %v", err)
		}
	}()

	initRuntime()
	engine := newEngine(config, opts.EnableWebP)
	defer engine.close()

	if config.MetricsAddr != "" {
		stop := startMetricsServer(config.MetricsAddr, engine)
		defer stop()
	}

	logging.Debug("Processing %d images (compression: %v, webp: %v) into %s",
		len(inputs), opts.EnableCompression, opts.EnableWebP, outDir)

	onProgress, done := newProgress(cmd.ErrOrStderr(), len(inputs))
	results := engine.pipeline.ProcessFiles(cmd.Context(), inputs, opts, onProgress)
	done()

	if err := cmd.Context().Err(); err != nil {
		return fmt.Errorf("processing interrupted, nothing written: %w", err)
	}

	outcomes, err := writeOutputs(outDir, inputs, results, prefs.Output.UniqueNames)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderResults(outcomes))

	if flags.savePrefs {
		if err := startup.SavePreferences(config.PreferencesPath, prefs); err != nil {
			return errors.Join(errors.New("results written but preferences not saved"), err)
		}
	}
	return nil
}
