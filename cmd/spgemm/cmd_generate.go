package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spgemm/internal/conv"
	"github.com/hupe1980/spgemm/persistence"
	"github.com/hupe1980/spgemm/testutil"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		rows, cols, nnz, uniqueCols int
		seed                        int64
	)
	cmd := &cobra.Command{
		Use:   "generate <out>",
		Short: "Write a random matrix",
		Long: `Write a random rows x cols matrix with nnz distinct entries. With
--unique-cols k, column indices are drawn from k columns only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 0 || cols < 0 || nnz < 0 {
				return fmt.Errorf("rows, cols and nnz must be non-negative")
			}
			if cols > 0 {
				if _, err := conv.IntToIndex(cols - 1); err != nil {
					return fmt.Errorf("cols: %w", err)
				}
			}
			if total := rows * cols; nnz > total {
				return fmt.Errorf("nnz %d exceeds %dx%d", nnz, rows, cols)
			}
			codec, err := a.cfg.compression()
			if err != nil {
				return err
			}

			m := testutil.RandomCSR(testutil.NewRNG(seed), rows, cols, nnz, uniqueCols)
			err = persistence.SaveCSR(cmd.Context(), args[0], m,
				persistence.WithCompression(codec),
				persistence.WithResourceController(a.cfg.resources()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %dx%d nnz=%d\n", args[0], m.Rows, m.Cols, m.NNZ())
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&rows, "rows", 1000, "number of rows")
	f.IntVar(&cols, "cols", 1000, "number of columns")
	f.IntVar(&nnz, "nnz", 10000, "number of entries")
	f.IntVar(&uniqueCols, "unique-cols", 0, "restrict columns to this many distinct values (0 = all)")
	f.Int64Var(&seed, "seed", testutil.DefaultSeed, "random seed")
	return cmd
}
