// SPDX-License-Identifier: MIT

// Command gnme evaluates nonorthogonal matrix elements for the patterns
// listed in a YAML job file.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/gnme/config"
)

var (
	// Global flags
	verbose bool
	jobPath string
	workers int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gnme",
	Short: "Generalised Wick theorem matrix elements between nonorthogonal determinants",
	Long: `gnme pairs a bra and a ket set of orbitals and evaluates overlaps,
Hamiltonian matrix elements and transition density matrices between
excitations of the two reference determinants.

All input is read from a YAML job file passed with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Print overlap and Hamiltonian element for every pattern",
	RunE:  runEval,
}

var rdmCmd = &cobra.Command{
	Use:   "rdm",
	Short: "Print overlap and AO transition density for every pattern",
	RunE:  runRDM,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&jobPath, "config", "c", "", "YAML job file (required)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Override the setup worker count")
	_ = rootCmd.MarkPersistentFlagRequired("config")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(rdmCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadJob() (*config.Job, error) {
	job, err := config.Load(jobPath)
	if err != nil {
		return nil, err
	}
	if workers > 0 {
		job.Workers = workers
	}
	logger.Debug("job loaded",
		zap.String("path", jobPath),
		zap.Int("nbsf", job.NBasis),
		zap.Int("nmo", job.NOrb),
		zap.Int("patterns", len(job.Excitations)),
	)

	return job, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	job, err := loadJob()
	if err != nil {
		return err
	}
	eng, err := job.Engine(logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "pattern\toverlap\tenergy")
	for i, p := range job.Patterns() {
		s, v, err := eng.Evaluate(p.XA, p.XB, p.WA, p.WB)
		if err != nil {
			return fmt.Errorf("pattern %d (%s): %w", i, p.Name, err)
		}
		fmt.Fprintf(w, "%s\t%.10f\t%.10f\n", label(i, p.Name), s, v)
	}

	return w.Flush()
}

func runRDM(cmd *cobra.Command, args []string) error {
	job, err := loadJob()
	if err != nil {
		return err
	}
	eng, err := job.Engine(logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, p := range job.Patterns() {
		s, rdm, err := eng.Evaluate1RDM(p.XA, p.XB, p.WA, p.WB)
		if err != nil {
			return fmt.Errorf("pattern %d (%s): %w", i, p.Name, err)
		}
		fmt.Fprintf(out, "# %s overlap=%.10f\n", label(i, p.Name), s)
		for r := 0; r < rdm.Rows(); r++ {
			for c := 0; c < rdm.Cols(); c++ {
				if c > 0 {
					fmt.Fprint(out, " ")
				}
				fmt.Fprintf(out, "% .10f", rdm.Get(r, c))
			}
			fmt.Fprintln(out)
		}
	}

	return nil
}

func label(i int, name string) string {
	if name == "" {
		return fmt.Sprintf("#%d", i)
	}

	return name
}
