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

package types

// Config holds the collaborators shared by every chrootw operation
type Config struct {
	Logger Logger `yaml:"-" mapstructure:"-"`
	Runner Runner `yaml:"-" mapstructure:"-"`
}

// RunConfig is the configuration of the run command. The option fields are
// loaded from config files, environment variables and flags through viper.
type RunConfig struct {
	SkipChdir bool     `yaml:"skip-chdir,omitempty" mapstructure:"skip-chdir"`
	User      string   `yaml:"user,omitempty" mapstructure:"user"`
	Group     string   `yaml:"group,omitempty" mapstructure:"group"`
	Groups    []string `yaml:"groups,omitempty" mapstructure:"groups"`
	EnvFile   string   `yaml:"env-file,omitempty" mapstructure:"env-file"`
	DryRun    bool     `yaml:"dry-run,omitempty" mapstructure:"dry-run"`

	Config `yaml:"-" mapstructure:",squash"`
}
