package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/img2dcm/pkg/config"
	"github.com/jpfielding/img2dcm/pkg/convert"
	"github.com/jpfielding/img2dcm/pkg/dicom/uid"
	"github.com/jpfielding/img2dcm/pkg/logging"
)

// app is the configuration shared by every subcommand, loaded before any runs
type app struct {
	cfg    config.Config
	closer io.Closer
}

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	a := &app{cfg: config.Default()}
	cmd := &cobra.Command{
		Use:           "img2dcm",
		Short:         "convert images to DICOM Secondary Capture",
		Long:          "Converts PNG, JPEG, BMP, GIF, TIFF and WebP images into DICOM Secondary Capture files, from the command line or over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closer != nil {
				a.closer.Close()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewServeCmd(ctx, a),
		NewConvertCmd(ctx, a),
		NewInspectCmd(ctx, a),
	)
	pf := cmd.PersistentFlags()
	pf.String("config", "", "YAML configuration file")
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "Also write logs to this size rotated file")
	pf.Bool("log-json", false, "Log as JSON")
	return cmd
}

// load reads the config file, applies flag overrides and installs the logger
func (a *app) load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON, _ = flags.GetBool("log-json")
	}

	logger, closer := logging.New(os.Stderr, cfg.Log)
	slog.SetDefault(logger)
	a.cfg = cfg
	a.closer = closer
	return nil
}

// converter builds the batch converter described by the loaded configuration
func (a *app) converter() (*convert.Converter, error) {
	conv := a.cfg.Conversion
	gen, err := uid.NewGenerator(conv.UIDRoot)
	if err != nil {
		return nil, err
	}
	return convert.NewConverter(
		convert.NewEncoder(conv.EncoderConfig),
		gen,
		convert.WithWorkers(conv.Workers),
		convert.WithMaxPixels(conv.MaxPixels),
		convert.WithDefaults(a.cfg.Defaults),
		convert.WithLogger(slog.Default()),
	), nil
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}
