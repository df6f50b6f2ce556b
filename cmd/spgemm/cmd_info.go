package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spgemm/internal/simd"
	"github.com/hupe1980/spgemm/merge"
	"github.com/hupe1980/spgemm/persistence"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file...]",
		Short: "Print matrix shapes and the selected vector target",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "simd: isa=%s target=%s lanes=%d overridden=%t default-merger=%s\n",
				simd.ActiveISA(), simd.Target(), simd.Lanes(), simd.IsOverridden(), merge.Default().Name())

			for _, path := range args {
				m, err := persistence.LoadCSR(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if err := m.Validate(); err != nil {
					fmt.Fprintf(out, "%s: %dx%d nnz=%d INVALID: %v\n", path, m.Rows, m.Cols, m.NNZ(), err)
					continue
				}
				fmt.Fprintf(out, "%s: %dx%d nnz=%d max-row=%d\n", path, m.Rows, m.Cols, m.NNZ(), m.MaxRowLen())
			}
			return nil
		},
	}
}
