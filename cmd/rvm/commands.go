package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	opts options

	rootCmd = &cobra.Command{
		Use:   "rvm",
		Short: "Train sparse bayesian kernel models with relevance vector machines",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			opts.seedSet = cmd.Flags().Changed("seed")
		},
	}

	regressionCmd = &cobra.Command{
		Use:   "regression",
		Short: "Fit a regression model with the spline kernel on scalar inputs",
		Long: `Fits a relevance vector regression model on a csv file of 'x,target' rows,
or on a noisy sine wave or sinc curve if no data is given, and reports the test error
of the predictive means and of one predictive sample per test input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := runRegression(cmd.Context(), opts)
			if err != nil {
				return err
			}
			s.print(cmd.OutOrStdout())
			s.wait(cmd.Context())
			return nil
		},
	}

	classificationCmd = &cobra.Command{
		Use:   "classification",
		Short: "Fit a binary classification model with the gaussian kernel",
		Long: `Fits a relevance vector classification model on a csv file of 'x1,...,xd,label' rows
with exactly two label values, or on two gaussian blobs if no data is given, and reports the test error rate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := runClassification(cmd.Context(), opts)
			if err != nil {
				return err
			}
			s.print(cmd.OutOrStdout())
			s.wait(cmd.Context())
			return nil
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.config, "config", "c", "", "yaml settings file")
	flags.StringVarP(&opts.data, "data", "d", "", "csv data file, the last column holds the target")
	flags.BoolVar(&opts.header, "header", false, "skip the first row of the csv data file")
	flags.IntVarP(&opts.samples, "samples", "n", 50, "number of synthetic samples if no data file is given")
	flags.Uint64Var(&opts.seed, "seed", 1, "seed of the shuffling, the synthetic data and the predictive samples")
	flags.StringVar(&opts.storage, "storage", "", "directory to store the report and the iteration log, 'memory' to keep them in process")
	flags.IntVar(&opts.metrics, "metrics", 0, "port to expose prometheus metrics on")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	regressionCmd.Flags().StringVar(&opts.dataset, "dataset", sine, "synthetic regression curve if no data file is given, 'sine' on [0,1] or 'sinc' on [-10,10]")

	rootCmd.AddCommand(regressionCmd, classificationCmd)
}
