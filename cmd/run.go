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

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/chroot-toolkit/chrootw/cmd/config"
	"github.com/chroot-toolkit/chrootw/pkg/chroot"
	toolkitError "github.com/chroot-toolkit/chrootw/pkg/error"
	"github.com/chroot-toolkit/chrootw/pkg/types"
)

func NewRunCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "run ROOT PROGRAM [ARGS...]",
		Short: "Run a program inside a new root directory",
		Long: "Builds a chroot invocation for the given root directory and program " +
			"and executes it through the external chroot utility",
		Args: cobra.MinimumNArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = viper.BindPFlags(cmd.Flags())
			if viper.GetBool("dry-run") {
				return nil
			}
			return CheckRoot()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ReadConfigRun(viper.GetString("config-dir"), cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("Error reading config: %s\n", err)
				return toolkitError.NewFromError(err, toolkitError.ReadingRunConfig)
			}
			return runChroot(cfg, args[0], args[1], args[2:])
		},
	}
	root.AddCommand(c)
	c.Flags().Bool("skip-chdir", false, "Do not change the working directory to / after entering the new root")
	c.Flags().String("user", "", "User (ID or name) to run the program as")
	c.Flags().String("group", "", "Group (ID or name) to run the program as, only used together with --user")
	c.Flags().StringSlice("groups", []string{}, "Supplementary groups for the program")
	c.Flags().String("env-file", "", "Load the program environment from the given file")
	c.Flags().Bool("dry-run", false, "Print the resulting invocation without executing it")
	return c
}

func runChroot(cfg *types.RunConfig, root string, program string, extraArgs []string) error {
	ch := chroot.New()
	if cfg.SkipChdir {
		ch.SkipChdir()
	}
	if cfg.User != "" {
		if cfg.Group != "" {
			ch.UserGroup(cfg.User, cfg.Group)
		} else {
			ch.User(cfg.User)
		}
	}
	ch.Groups(cfg.Groups)
	inv := ch.Invocation(root, program, extraArgs...)

	if cfg.DryRun {
		data, err := yaml.Marshal(inv)
		if err != nil {
			return toolkitError.NewFromError(err, toolkitError.DumpInvocation)
		}
		fmt.Printf("%s", string(data))
		return nil
	}

	if !cfg.Runner.CommandExists(inv.Program) {
		cfg.Logger.Errorf("'%s' utility not found in PATH", inv.Program)
		return toolkitError.New("chroot utility not found in PATH", toolkitError.ChrootNotFound)
	}

	cmd := cfg.Runner.InitCmd(inv.Program, inv.Args...)
	if cfg.EnvFile != "" {
		envMap, err := godotenv.Read(cfg.EnvFile)
		if err != nil {
			cfg.Logger.Errorf("Error reading environment file %s: %s", cfg.EnvFile, err.Error())
			return toolkitError.NewFromError(err, toolkitError.ReadingEnvFile)
		}
		env := os.Environ()
		for k, v := range envMap {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		// fake runners hand back a nil cmd
		if cmd != nil {
			cmd.Env = env
		}
	}

	cfg.Logger.Debugf("Running chroot invocation: '%s'", inv.String())
	out, err := cfg.Runner.RunCmd(cmd)
	if len(out) > 0 {
		fmt.Printf("%s", string(out))
	}
	if err != nil {
		cfg.Logger.Errorf("Error running chroot: %s", err.Error())
		return toolkitError.NewFromError(err, toolkitError.CommandRun)
	}
	return nil
}

// register the subcommand into rootCmd
var _ = NewRunCmd(rootCmd)
