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
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/chroot-toolkit/chrootw/pkg/chroot"
	conf "github.com/chroot-toolkit/chrootw/pkg/config"
	toolkitError "github.com/chroot-toolkit/chrootw/pkg/error"
	"github.com/chroot-toolkit/chrootw/pkg/mocks"
	"github.com/chroot-toolkit/chrootw/pkg/types"
)

var _ = Describe("run", Label("run", "cmd"), func() {
	When("parsing flags and arguments", func() {
		BeforeEach(func() {
			rootCmd = NewRootCmd()
			_ = NewRunCmd(rootCmd)
		})
		AfterEach(func() {
			viper.Reset()
		})
		It("fails when the root or the program are missing", func() {
			_, _, err := executeCommandC(rootCmd, "run", "/some/root")
			Expect(err).To(HaveOccurred())
		})
		It("prints the invocation on dry run", func() {
			_, out, err := executeCommandC(
				rootCmd, "run", "--dry-run", "--skip-chdir",
				"--user", "nvzqz", "--group", "everyone",
				"--groups", "wheel,docker",
				"/path/to/root", "ls", "/",
			)
			Expect(err).ToNot(HaveOccurred())

			inv := chroot.Invocation{}
			Expect(yaml.Unmarshal([]byte(out), &inv)).To(Succeed())
			Expect(inv.Argv()).To(Equal([]string{
				"chroot", "--skip-chdir", "--userspec=nvzqz:everyone",
				"--groups=wheel,docker", "/path/to/root", "ls", "/",
			}))
		})
		It("omits the group from the userspec when only the user is given", func() {
			_, out, err := executeCommandC(
				rootCmd, "run", "--dry-run", "--user", "alice", "/some/root", "ls",
			)
			Expect(err).ToNot(HaveOccurred())

			inv := chroot.Invocation{}
			Expect(yaml.Unmarshal([]byte(out), &inv)).To(Succeed())
			Expect(inv.Args).To(Equal([]string{"--userspec=alice", "/some/root", "ls"}))
		})
		It("requires root privileges to actually execute", func() {
			if os.Geteuid() == 0 {
				Skip("this test cannot run as root")
			}
			_, _, err := executeCommandC(rootCmd, "run", "/some/root", "ls")
			Expect(err).To(HaveOccurred())
		})
	})
	When("executing through a runner", func() {
		var runner *mocks.FakeRunner
		var cfg *types.RunConfig

		BeforeEach(func() {
			runner = mocks.NewFakeRunner()
			cfg = conf.NewRunConfig(
				conf.WithRunner(runner),
				conf.WithLogger(types.NewNullLogger()),
			)
		})
		It("hands the full invocation to the runner", func() {
			cfg.SkipChdir = true
			cfg.User = "alice"
			cfg.Groups = []string{"wheel"}
			err := runChroot(cfg, "/some/root", "ls", []string{"/"})
			Expect(err).ToNot(HaveOccurred())
			Expect(runner.CmdsMatch([][]string{
				{"chroot", "--skip-chdir", "--userspec=alice", "--groups=wheel", "/some/root", "ls", "/"},
			})).To(BeNil())
		})
		It("fails when the chroot utility is not in PATH", func() {
			runner.CmdNotFound = "chroot"
			err := runChroot(cfg, "/some/root", "ls", []string{})
			Expect(err).To(HaveOccurred())
			tErr := &toolkitError.ToolkitError{}
			Expect(errors.As(err, &tErr)).To(BeTrue())
			Expect(tErr.ExitCode()).To(Equal(toolkitError.ChrootNotFound))
		})
		It("maps runner failures to the command run exit code", func() {
			runner.ReturnError = errors.New("exit status 125")
			err := runChroot(cfg, "/missing/root", "ls", []string{})
			Expect(err).To(HaveOccurred())
			tErr := &toolkitError.ToolkitError{}
			Expect(errors.As(err, &tErr)).To(BeTrue())
			Expect(tErr.ExitCode()).To(Equal(toolkitError.CommandRun))
		})
		It("loads the program environment from the env file", func() {
			dir, err := os.MkdirTemp("", "chrootw")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(dir)
			envFile := filepath.Join(dir, "program.env")
			Expect(os.WriteFile(envFile, []byte("FOO=bar\n"), 0644)).To(Succeed())

			cfg.EnvFile = envFile
			err = runChroot(cfg, "/some/root", "ls", []string{})
			Expect(err).ToNot(HaveOccurred())
			Expect(runner.CmdsMatch([][]string{
				{"chroot", "/some/root", "ls"},
			})).To(BeNil())
		})
		It("fails with the env file exit code when the file is missing", func() {
			cfg.EnvFile = "/nonexisting/program.env"
			err := runChroot(cfg, "/some/root", "ls", []string{})
			Expect(err).To(HaveOccurred())
			tErr := &toolkitError.ToolkitError{}
			Expect(errors.As(err, &tErr)).To(BeTrue())
			Expect(tErr.ExitCode()).To(Equal(toolkitError.ReadingEnvFile))
		})
	})
})
