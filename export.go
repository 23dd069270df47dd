package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stickies/internal/logging"
	"stickies/internal/render"
	"stickies/internal/store"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file> [output.png]",
		Short: "Render a document to PNG without opening the editor",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger := logging.New(os.Stderr, logging.Level(cfg.LogLevel))
			ctx := logging.WithLogger(cmd.Context(), logger)

			in := cfg.SavePath(args[0])
			out := render.PNGName(in)
			if len(args) == 2 {
				out = cfg.SavePath(args[1])
			}
			nodes, links, err := exportPNG(ctx, in, out)
			if err != nil {
				return err
			}
			success.Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "%s ", out)
			subtle.Fprintf(cmd.OutOrStdout(), "(%d notes, %d links)\n", nodes, links)
			return nil
		},
	}
}

func exportPNG(ctx context.Context, in, out string) (nodes, links int, err error) {
	logger := logging.FromContext(ctx)
	prog := logging.NewProgress(logger)

	g, st, err := store.LoadFile(in)
	if err != nil {
		return 0, 0, err
	}
	if st.Dropped > 0 {
		logger.Warn("dropped dangling links", "path", in, "count", st.Dropped)
	}
	if err := render.ExportPNG(out, g); err != nil {
		return 0, 0, err
	}
	prog.Done("Exported " + out)
	return g.Len(), len(g.Links()), nil
}
