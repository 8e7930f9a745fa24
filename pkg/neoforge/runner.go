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

package neoforge

import (
	"context"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// Runner executes the installer.
type Runner interface {
	// Run executes command in dir and returns its combined output.
	Run(ctx context.Context, dir string, command []string) ([]byte, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct{}

// Run executes command in dir. The process is killed when ctx is done.
func (ExecRunner) Run(ctx context.Context, dir string, command []string) ([]byte, error) {
	if len(command) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...) //nolint:gosec // command is built by this package
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, errors.Wrapf(err, "failed to run %s", command[0])
	}

	return out, nil
}
