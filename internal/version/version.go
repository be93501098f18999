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

package version

// values injected at build time through ldflags
var (
	version   = "v0.1.0"
	gitCommit = "none"
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
}

func Get() *Info {
	return &Info{
		Version:   version,
		GitCommit: gitCommit,
	}
}
