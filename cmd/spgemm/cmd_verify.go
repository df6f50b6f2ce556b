package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spgemm/persistence"
	"github.com/hupe1980/spgemm/sparse"
)

// errNotEqual makes verify exit non-zero without usage output.
var errNotEqual = errors.New("matrices differ")

func newVerifyCmd() *cobra.Command {
	var tol float32
	cmd := &cobra.Command{
		Use:   "verify <want> <got>",
		Short: "Compare two persisted matrices",
		Long: `Compare two persisted matrices. Shapes, row offsets and column indices
must be identical; values must differ by less than --tol. --tol 0 requires
identical values.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			want, err := persistence.LoadCSR(ctx, args[0])
			if err != nil {
				return err
			}
			got, err := persistence.LoadCSR(ctx, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := sparse.Compare(want, got, tol); err != nil {
				fmt.Fprintf(out, "Mismatch: %v\n", err)
				return errNotEqual
			}
			fmt.Fprintln(out, "Pass: Results are equal")
			return nil
		},
	}
	cmd.Flags().Float32Var(&tol, "tol", 1e-2, "absolute value tolerance")
	return cmd
}
