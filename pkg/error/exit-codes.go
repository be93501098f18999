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

// provides a custom error interface and exit codes to use on chrootw
package error

//
// Provided exit codes for chrootw

// To make it easy to generate them you have to respect the structure:
//
// comment that explains the error
// const NamedConstant = ERRORCODE

// Error running a command
const CommandRun = 11

// Error reading the run config
const ReadingRunConfig = 12

// Error reading the environment file
const ReadingEnvFile = 13

// Command requires root privileges
const RequiresRoot = 14

// The chroot utility was not found in PATH
const ChrootNotFound = 15

// Error dumping the invocation
const DumpInvocation = 16

// Unknown error
const Unknown = 255
