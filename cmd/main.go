/*
Copyright 2025.

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

package main

import (
	"fmt"

	"github.com/lexfrei/mcx/internal/cli"
)

var (
	// Version information set via ldflags.
	version   = "dev"
	gitCommit = "unknown"
	buildDate = ""
)

func versionString() string {
	if buildDate == "" {
		return fmt.Sprintf("%s (commit: %s)", version, gitCommit)
	}

	return fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate)
}

func main() {
	cli.Execute(versionString())
}
