package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/blagojts/viper"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/timescale/csvstat/internal/utils"
	"github.com/timescale/csvstat/pkg/data/source"
	"github.com/timescale/csvstat/pkg/pipeline"
	"github.com/timescale/csvstat/pkg/stats"
	"github.com/timescale/csvstat/pkg/status"
)

func argumentError(err error) error {
	return status.New(status.ArgumentError, err)
}

func positionalArgs(_ *cobra.Command, args []string) error {
	if len(args) > 2 {
		return argumentError(errors.Errorf("expected at most 2 arguments, got %d", len(args)))
	}
	return nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "csvstat [csv-file [column-name]]",
		Short: "Print summary statistics of one numeric column of a CSV file",
		Long: "csvstat streams a CSV file once, in bounded memory, and prints the row\n" +
			"counts and the min, max, mean and sample standard deviation of one column.\n" +
			"Fields are split on commas only; quoting is not supported.",
		Args:          positionalArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return argumentError(err)
	})

	fs := runFlags()
	cmd.Flags().AddFlagSet(fs)
	// --config selects the file and is not itself a setting
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		if err := utils.SetupConfigFile(v, cfgFile, fs); err != nil {
			return argumentError(errors.Wrap(err, "reading configuration"))
		}
		conf := defaultRunConfig()
		if err := v.Unmarshal(conf); err != nil {
			return argumentError(errors.Wrap(err, "decoding configuration"))
		}
		if len(args) > 0 {
			conf.File = args[0]
		}
		if len(args) > 1 {
			conf.Column = args[1]
		}
		return run(conf, stdout, stderr)
	}

	cmd.AddCommand(newConfigCmd(stdout))
	return cmd
}

func run(conf *RunConfig, stdout, stderr io.Writer) error {
	if err := conf.Validate(); err != nil {
		return argumentError(err)
	}

	in, err := source.Open(conf.dataSource())
	if err != nil {
		return err
	}
	defer in.Close()

	pconf := conf.pipelineConfig(stderr)
	if conf.Quantiles {
		d, err := stats.NewDistribution(conf.QuantileMax)
		if err != nil {
			return argumentError(err)
		}
		pconf.Distribution = d
	}

	res, err := pipeline.Run(in, pconf)
	if err != nil {
		return err
	}

	var summary bytes.Buffer
	if err := pipeline.WriteSummary(&summary, conf.displayName(), res); err != nil {
		return status.New(status.InternalError, err)
	}
	if conf.HDRFile != "" && res.Distribution != nil {
		if err := writeHDRFile(conf.HDRFile, res.Distribution); err != nil {
			return err
		}
	}
	if _, err := stdout.Write(summary.Bytes()); err != nil {
		return status.New(status.IOError, errors.Wrap(err, "writing summary"))
	}
	return nil
}

func writeHDRFile(path string, d *stats.Distribution) error {
	f, err := os.Create(path)
	if err != nil {
		return status.New(status.IOError, err)
	}
	if err := d.WritePercentiles(f); err != nil {
		f.Close()
		return status.New(status.IOError, errors.Wrapf(err, "writing %s", path))
	}
	if err := f.Close(); err != nil {
		return status.New(status.IOError, err)
	}
	return nil
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return int(status.OK)
	}
	code := status.CodeOf(err)
	fmt.Fprintf(stderr, "csvstat: %s\n", status.Report(err))
	if code == status.ArgumentError {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return int(code)
}
