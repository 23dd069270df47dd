package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"stickies/internal/config"
	"stickies/internal/logging"
	"stickies/internal/tui"
	"stickies/internal/watch"
)

var (
	failure = color.New(color.FgRed, color.Bold)
	success = color.New(color.FgGreen)
	subtle  = color.New(color.FgHiBlack)
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		failure.Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions
	root := &cobra.Command{
		Use:   "stickies [file...]",
		Short: "Sticky notes on a pannable, zoomable canvas",
		Long: `Stickies edits graphs of sticky notes in the terminal. Notes can be
dragged, resized and linked with arrows; the canvas pans and zooms with the
mouse or the keyboard. Press ? inside the editor for the key map.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd, &opts, args)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	f.String("save-directory", "", "directory for bare file names")
	f.String("log-file", "", "log file (default under the user state directory)")
	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.Float64("cell-width", 8, "terminal cell width in pixels")
	f.Float64("cell-height", 16, "terminal cell height in pixels")
	root.Flags().Bool("watch", false, "reload open files when they change on disk")

	root.AddCommand(newExportCmd(&opts))
	return root
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func runEditor(cmd *cobra.Command, opts *rootOptions, files []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, closer, err := logging.OpenFile(cfg.LogPath(), logging.Level(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := cmd.Context()
	var w *watch.Watcher
	if cfg.Watch {
		if w, err = watch.New(watch.DefaultQuiet, logger); err != nil {
			logger.Warn("file watching disabled", "err", err)
			w = nil
		} else {
			defer w.Close()
			go w.Run(ctx)
		}
	}

	logger.Info("editor starting", "files", len(files), "watch", w != nil)
	err = tui.Run(ctx, tui.Options{Config: cfg, Logger: logger, Watcher: w}, files...)
	logger.Info("editor stopped", "err", err)
	return err
}
