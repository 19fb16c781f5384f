package main

import (
	"fmt"
	"io"
	"os"

	"tsnview/internal/codec"
	"tsnview/internal/loader"
	"tsnview/internal/repository/sqlite"

	"github.com/spf13/cobra"
)

const (
	formatSQLite   = "sqlite"
	formatTopology = "topology"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the loaded network as a snapshot or topology description.",
		Long: "Formats: json and yaml write the snapshot (nodes with traffic and arrivals, " +
			"links, streams with paths); sqlite saves it to the database; topology " +
			"writes a YAML topology file that tsnview can load again.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			switch format {
			case formatSQLite:
				path := output
				if path == "" {
					path = opts.cfg.Database.Path
				}
				repo, err := sqlite.New(path)
				if err != nil {
					return err
				}
				defer repo.Close()
				snap := n.Snapshot()
				if err := repo.Save(cmd.Context(), snap); err != nil {
					return err
				}
				opts.logger.Info("snapshot saved", "snapshot", snap.ID, "path", path)
				return nil

			case formatTopology:
				data, err := loader.ExportYAML(n)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
					_, err := w.Write(data)
					return err
				})
			}

			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}
			snap := n.Snapshot()
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return c.Export(snap, w)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "json, yaml, sqlite or topology")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout; database path for sqlite)")
	return cmd
}

// writeOutput writes to the named file, or to stdout when path is empty
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
