/*
Copyright © 2023 - 2025 chroot-toolkit contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chroot-toolkit/chrootw/pkg/config"
	"github.com/chroot-toolkit/chrootw/pkg/constants"
	"github.com/chroot-toolkit/chrootw/pkg/types"
)

// decodeHook allows list values, i.e. supplementary groups, to be given as
// comma separated strings in config files and environment variables
var decodeHook = viper.DecodeHook(
	mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	),
)

// ReadConfigRun returns the runtime configuration of a run command. Sources
// merge in order: config file in the config dir, environment variables with
// the CHROOTW prefix and finally the given command flags.
func ReadConfigRun(configDir string, flags *pflag.FlagSet) (*types.RunConfig, error) {
	cfg := config.NewRunConfig(
		config.WithLogger(types.NewLogger()),
	)

	configLogger(cfg.Logger)

	viperReadConfig(configDir)

	if flags != nil {
		_ = viper.BindPFlags(flags)
	}

	// unmarshal all the vars into the config object
	err := viper.Unmarshal(cfg, decodeHook)
	if err != nil {
		cfg.Logger.Warnf("error unmarshalling RunConfig: %s", err)
	}

	cfg.Logger.Debugf("Full config loaded: %+v", cfg)

	return cfg, err
}

func configLogger(log types.Logger) {
	// Set debug level
	if viper.GetBool("debug") {
		log.SetLevel(types.DebugLevel())
	}

	// Set formatter so both file and stdout format are equal
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableColors:    false,
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	// Logfile
	logfile := viper.GetString("logfile")
	if logfile != "" {
		o, err := os.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, os.ModePerm)

		if err != nil {
			log.Errorf("Could not open %s for logging to file: %s", logfile, err.Error())
		}

		if viper.GetBool("quiet") { // if quiet is set, only set the log to the file
			log.SetOutput(o)
		} else { // else set it to both stdout and the file
			mw := io.MultiWriter(os.Stdout, o)
			log.SetOutput(mw)
		}
	} else { // no logfile
		if viper.GetBool("quiet") { // quiet is enabled so discard all logging
			log.SetOutput(io.Discard)
		} else { // default to stdout
			log.SetOutput(os.Stdout)
		}
	}
}

func viperReadConfig(configDir string) {
	if configDir == "" {
		configDir = constants.ConfigDir
	}

	viper.AddConfigPath(configDir)
	viper.SetConfigType("yaml")
	viper.SetConfigName(constants.ConfigFile)
	// If a config file is found, read it in.
	_ = viper.MergeInConfig()

	// Set the prefix for vars so we get only the ones starting with CHROOTW
	viper.SetEnvPrefix(constants.EnvPrefix)

	// If we expect to override complex keys in the config, i.e. configs that are nested, we probably need to manually do
	// the env stuff ourselves, as this will only match keys in the config root
	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match
}
