package main

import (
	"github.com/spf13/cobra"
)

type app struct {
	cfg        Config
	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: defaultConfig()}

	root := &cobra.Command{
		Use:           "spgemm",
		Short:         "Sparse matrix-matrix multiplication on persisted CSR files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.configPath == "" {
				return nil
			}
			// Flags set on the command line win over the file.
			flags := a.cfg
			if err := loadConfig(a.configPath, &a.cfg); err != nil {
				return err
			}
			a.overrideChanged(cmd, flags)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML file with default settings")
	pf.StringVar(&a.cfg.Engine, "engine", a.cfg.Engine, "row engine: stack, heap or dense")
	pf.StringVar(&a.cfg.Merger, "merger", a.cfg.Merger, "two-way merge for the stack engine: scalar, vector or auto")
	pf.IntVar(&a.cfg.Workers, "workers", a.cfg.Workers, "row workers; 1 runs sequentially")
	pf.StringVar(&a.cfg.Compression, "compression", a.cfg.Compression, "output codec: none, lz4 or zstd")
	pf.Int64Var(&a.cfg.MemoryLimitBytes, "memory-limit", 0, "scratch and output memory limit in bytes (0 = unlimited)")
	pf.Int64Var(&a.cfg.IOLimitBytesPerSec, "io-limit", 0, "file IO limit in bytes per second (0 = unlimited)")
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "debug, info, warn or error")
	pf.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "text or json")

	root.AddCommand(
		newMultiplyCmd(a),
		newVerifyCmd(),
		newGenerateCmd(a),
		newBenchCmd(a),
		newInfoCmd(),
	)
	return root
}

// overrideChanged restores values of flags the user set explicitly.
func (a *app) overrideChanged(cmd *cobra.Command, flags Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("engine") {
		a.cfg.Engine = flags.Engine
	}
	if changed("merger") {
		a.cfg.Merger = flags.Merger
	}
	if changed("workers") {
		a.cfg.Workers = flags.Workers
	}
	if changed("compression") {
		a.cfg.Compression = flags.Compression
	}
	if changed("memory-limit") {
		a.cfg.MemoryLimitBytes = flags.MemoryLimitBytes
	}
	if changed("io-limit") {
		a.cfg.IOLimitBytesPerSec = flags.IOLimitBytesPerSec
	}
	if changed("log-level") {
		a.cfg.LogLevel = flags.LogLevel
	}
	if changed("log-format") {
		a.cfg.LogFormat = flags.LogFormat
	}
}
