package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spgemm"
	"github.com/hupe1980/spgemm/workload"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		storeLoc   string
		reportPath string
		repeat     int
	)
	cmd := &cobra.Command{
		Use:   "bench <workload>",
		Short: "Run a JSON or YAML workload description and write a timing report",
		Long: `Run a workload description. Matrix file names in the description are
resolved against --store, which defaults to the directory holding the
description. The kernel name selects the engine; --workers and the memory
limit still apply.`,
		Args: cobra.ExactArgs(1),
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
			desc, err := workload.Load(args[0])
			if err != nil {
				return err
			}

			if storeLoc == "" {
				storeLoc = filepath.Dir(args[0])
			}
			store, err := openStore(ctx, storeLoc)
			if err != nil {
				return err
			}

			runner := workload.NewRunner(store,
				workload.WithLogger(logger),
				workload.WithCompression(codec),
				workload.WithMultiplyOptions(
					spgemm.WithWorkers(a.cfg.Workers),
					spgemm.WithResourceController(a.cfg.resources()),
				),
			)
			report, err := runner.Run(ctx, desc, repeat)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if reportPath != "" {
				f, err := os.Create(reportPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if err := report.WriteJSON(out); err != nil {
				return err
			}
			if reportPath != "" {
				mul := report.Timings[workload.PhaseMultiply]
				fmt.Fprintf(cmd.OutOrStdout(), "%s: mean %.0fns sd %.0fns over %d runs\n",
					desc.KernelName, mul.Mean, mul.SD, mul.N)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&storeLoc, "store", "", "matrix store: directory, s3://bucket/prefix or minio://host/bucket/prefix")
	f.StringVar(&reportPath, "report", "", "write the JSON report here instead of stdout")
	f.IntVar(&repeat, "repeat", 5, "recorded multiplies after one warmup run")
	return cmd
}
