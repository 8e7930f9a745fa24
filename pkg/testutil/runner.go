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

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// MockRunner records commands and simulates an installer by writing Files
// into the working directory.
type MockRunner struct {
	mu sync.Mutex

	// Files are written relative to the working directory on success.
	Files map[string]string
	// Output is returned as the combined output.
	Output string
	// Err fails the run after Output is produced.
	Err error

	Commands [][]string
	Dirs     []string
}

// NewInstallerRunner returns a MockRunner producing a typical server layout.
func NewInstallerRunner() *MockRunner {
	return &MockRunner{
		Files: map[string]string{
			"run.sh":                        "#!/usr/bin/env sh\njava @user_jvm_args.txt \"$@\"\n",
			"run.bat":                       "java @user_jvm_args.txt %*\n",
			"user_jvm_args.txt":             "# JVM arguments\n",
			"libraries/net/neoforged/x.txt": "lib",
			"installer.jar.log":             "log",
		},
		Output: "The server installed successfully\n",
	}
}

// Run implements neoforge.Runner.
func (m *MockRunner) Run(_ context.Context, dir string, command []string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, command)
	m.Dirs = append(m.Dirs, dir)

	if m.Err != nil {
		return []byte(m.Output), m.Err
	}

	for name, content := range m.Files {
		path := filepath.Join(dir, filepath.FromSlash(name))

		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, err
		}

		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return nil, err
		}
	}

	return []byte(m.Output), nil
}

// Calls returns the number of recorded runs.
func (m *MockRunner) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Commands)
}
