package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spgemm"
	"github.com/hupe1980/spgemm/persistence"
)

func newMultiplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "multiply <a> <b> <c>",
		Short: "Compute C = A*B from persisted matrices and save C",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, err := a.cfg.logger()
			if err != nil {
				return err
			}
			codec, err := a.cfg.compression()
			if err != nil {
				return err
			}
			rc := a.cfg.resources()
			opts, err := a.cfg.multiplyOptions(logger, rc)
			if err != nil {
				return err
			}

			io := persistence.WithResourceController(rc)
			ma, err := persistence.LoadCSR(ctx, args[0], io)
			if err != nil {
				return err
			}
			mb, err := persistence.LoadCSR(ctx, args[1], io)
			if err != nil {
				return err
			}

			metrics := &spgemm.BasicMetricsCollector{}
			start := time.Now()
			c, err := spgemm.Multiply(ctx, ma, mb, append(opts, spgemm.WithMetricsCollector(metrics))...)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			if err := persistence.SaveCSR(ctx, args[2], c, io, persistence.WithCompression(codec)); err != nil {
				return err
			}
			stats := metrics.GetStats()
			fmt.Fprintf(cmd.OutOrStdout(), "C: %dx%d nnz=%d in %s (merges=%d heap fixes=%d)\n",
				c.Rows, c.Cols, c.NNZ(), elapsed, stats.Merges, stats.HeapFixes)
			return nil
		},
	}
}
