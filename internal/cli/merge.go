package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/chemlab/internal/core"
)

type mergeOptions struct {
	dir     int64
	mode    string
	jobs    int
	maxSize int64
}

func newMergeCmd(opts *rootOptions) *cobra.Command {
	mo := &mergeOptions{}

	cmd := &cobra.Command{
		Use:   "merge --dir <id> <file.csv> [file.csv...]",
		Short: "Import CSV files into a directory and print its merged table",
		Long: `Parse the given CSV files concurrently, add them to a directory of the
seed dataset in argument order, and write the directory's merged table
to stdout as CSV. Cells a file does not have are written empty.

If any file fails to parse nothing is added and the command fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := offlineService(cmd, opts, core.ServiceConfig{MaxFileSize: mo.maxSize})
			if err != nil {
				return err
			}
			return runMerge(cmd, svc, mo, args)
		},
	}

	cmd.Flags().Int64Var(&mo.dir, "dir", 0, "Target directory id (required)")
	cmd.Flags().StringVar(&mo.mode, "mode", string(core.ParseHeader), "Parse mode: header or raw")
	cmd.Flags().IntVar(&mo.jobs, "jobs", 4, "Files parsed in parallel")
	cmd.Flags().Int64Var(&mo.maxSize, "max-size", 0, "Largest accepted file in bytes (default 10MB)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func runMerge(cmd *cobra.Command, svc *core.Service, mo *mergeOptions, paths []string) error {
	ctx := cmd.Context()
	dirID := core.DirectoryID(mo.dir)
	if _, ok := svc.Directory(dirID); !ok {
		return fmt.Errorf("%w: %d", core.ErrInvalidDirectory, dirID)
	}

	contents := make([]core.Content, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(mo.jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := parseFile(gctx, svc, path, core.ParseMode(mo.mode))
			if err != nil {
				return err
			}
			contents[i] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range paths {
		if _, err := svc.AddFile(ctx, filepath.Base(path), dirID, contents[i]); err != nil {
			return err
		}
	}

	table, err := svc.MergedTable(dirID)
	if err != nil {
		return err
	}
	slog.Info("merged", "directory_id", dirID, "files", len(paths), "columns", len(table.Columns), "rows", len(table.Rows))
	return writeCSV(cmd.OutOrStdout(), table)
}

func parseFile(ctx context.Context, svc *core.Service, path string, mode core.ParseMode) (core.Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Content{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return core.Content{}, err
	}
	return svc.ParseFile(ctx, filepath.Base(path), f, info.Size(), mode, nil)
}

// writeCSV writes the merged columns as the header row, then one record
// per merged row with absent cells left empty.
func writeCSV(w io.Writer, table core.MergedTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			cell, _ := row.Get(col)
			record[i] = cell.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
