package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/blagojts/viper"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/timescale/csvstat/pkg/status"
	"gopkg.in/yaml.v2"
)

const (
	outputFlag    = "output"
	writeConfigTo = "./config.yaml"
)

func newConfigCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate example config yaml file and save it to " + writeConfigTo,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString(outputFlag)
			if err != nil {
				return status.New(status.InternalError, err)
			}
			if err := writeExampleConfig(path); err != nil {
				return status.New(status.IOError, err)
			}
			fmt.Fprintf(stdout, "Wrote example config to: %s\n", path)
			return nil
		},
	}
	cmd.Flags().String(outputFlag, writeConfigTo, "where to write the example config")
	return cmd
}

func exampleConfig() *RunConfig {
	conf := defaultRunConfig()
	conf.File = "./data.csv"
	conf.Column = "value"
	return conf
}

func setExampleConfigInViper(conf *RunConfig) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// convert RunConfig to yaml to load into viper
	configInBytes, err := yaml.Marshal(conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not convert example config to yaml")
	}
	if err := v.ReadConfig(bytes.NewBuffer(configInBytes)); err != nil {
		return nil, errors.Wrap(err, "could not load example config in viper")
	}
	return v, nil
}

func writeExampleConfig(path string) error {
	v, err := setExampleConfigInViper(exampleConfig())
	if err != nil {
		return err
	}
	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrapf(err, "could not write sample config to file %s", path)
	}
	return nil
}
