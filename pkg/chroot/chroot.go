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

package chroot

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/chroot-toolkit/chrootw/pkg/constants"
	"github.com/chroot-toolkit/chrootw/pkg/types"
)

// Invocation is a ready to execute command descriptor, the program name plus
// its ordered argument list. Executing it is owned by the caller's Runner.
type Invocation struct {
	Program string   `yaml:"program"`
	Args    []string `yaml:"args,omitempty"`
}

// Argv returns the flat argument vector, program name included.
func (i Invocation) Argv() []string {
	return append([]string{i.Program}, i.Args...)
}

func (i Invocation) String() string {
	return strings.Join(i.Argv(), " ")
}

// Chroot accumulates the optional flags of a chroot(1) invocation. All setters
// are chainable and infallible, nothing is validated here: unknown users,
// missing roots or insufficient privileges surface only when the resulting
// invocation is executed by the external utility.
type Chroot struct {
	skipChdir bool
	userSpec  string
	groups    []string
}

func New() *Chroot {
	return &Chroot{}
}

// SkipChdir suppresses changing the working directory to / after entering the
// new root. Calling it more than once has no further effect.
func (c *Chroot) SkipChdir() *Chroot {
	c.skipChdir = true
	return c
}

// User sets the user (ID or name) to run as, with no group. It overwrites any
// previous user or user and group setting.
func (c *Chroot) User(user string) *Chroot {
	c.userSpec = user
	return c
}

// UserGroup sets the user and group (ID or name) to run as. It overwrites any
// previous user or user and group setting.
func (c *Chroot) UserGroup(user string, group string) *Chroot {
	c.userSpec = fmt.Sprintf("%s:%s", user, group)
	return c
}

// Groups sets the supplementary groups, preserving order and duplicates as
// given. An empty slice is a no-op and does not clear a previous list, an
// empty groups flag would be meaningless to the chroot utility.
func (c *Chroot) Groups(groups []string) *Chroot {
	if len(groups) > 0 {
		c.groups = append([]string{}, groups...)
	}
	return c
}

// Invocation materializes the accumulated options, the root directory and the
// program to run inside it into a chroot invocation. Flags render in a fixed
// order regardless of the order the setters were called in.
func (c *Chroot) Invocation(root string, program string, args ...string) Invocation {
	cmdArgs := []string{}
	if c.skipChdir {
		cmdArgs = append(cmdArgs, constants.SkipChdirFlag)
	}
	if c.userSpec != "" {
		cmdArgs = append(cmdArgs, fmt.Sprintf("%s=%s", constants.UserSpecFlag, c.userSpec))
	}
	if len(c.groups) > 0 {
		cmdArgs = append(cmdArgs, fmt.Sprintf("%s=%s", constants.GroupsFlag, strings.Join(c.groups, constants.GroupSeparator)))
	}
	cmdArgs = append(cmdArgs, root, program)
	cmdArgs = append(cmdArgs, args...)
	return Invocation{Program: constants.ChrootBinary, Args: cmdArgs}
}

// Cmd hands the materialized invocation to the given runner without running it
func (c *Chroot) Cmd(runner types.Runner, root string, program string, args ...string) *exec.Cmd {
	inv := c.Invocation(root, program, args...)
	return runner.InitCmd(inv.Program, inv.Args...)
}

// Run executes the invocation through the configured runner and returns its
// combined output
func (c *Chroot) Run(cfg *types.Config, root string, program string, args ...string) ([]byte, error) {
	inv := c.Invocation(root, program, args...)
	out, err := cfg.Runner.Run(inv.Program, inv.Args...)
	if err != nil {
		cfg.Logger.Errorf("Cant run command '%s': %s", inv.String(), err.Error())
		return out, err
	}
	return out, err
}
