package utils

import (
	"github.com/blagojts/viper"
	"github.com/spf13/pflag"
)

// SetupConfigFile binds fs to v and overlays the configuration file. When
// cfgFile is empty, ./config.yaml is used if it exists.
func SetupConfigFile(v *viper.Viper, cfgFile string, fs *pflag.FlagSet) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		// Ignore error if the default config file is not found.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return err
		}
	}

	return nil
}
