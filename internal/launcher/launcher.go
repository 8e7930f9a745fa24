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

// Package launcher starts an installed server in the foreground.
package launcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/mcx/pkg/loader"
	"github.com/lexfrei/mcx/pkg/neoforge"
	"github.com/lexfrei/mcx/pkg/paper"
	"github.com/lexfrei/mcx/pkg/vanilla"
)

const (
	// EULAFile is read by the server on startup.
	EULAFile = "eula.txt"
	// StopGracePeriod is how long a cancelled server may take to save and exit.
	StopGracePeriod = 30 * time.Second
)

// ErrNotInstalled is returned when the launch target is missing.
var ErrNotInstalled = errors.New("server is not installed")

// Options describes how to launch a server.
type Options struct {
	Dir    string
	Kind   loader.Kind
	Java   string
	Memory string
	// GOOS selects the NeoForge run script. Empty uses runtime.GOOS.
	GOOS string
}

// Command returns the argv that launches the server in opts.Dir.
func Command(opts Options) ([]string, error) {
	switch opts.Kind {
	case loader.Vanilla, loader.Paper:
		jar := vanilla.ServerJar
		if opts.Kind == loader.Paper {
			jar = paper.ServerJar
		}

		if err := requireFile(opts.Dir, jar); err != nil {
			return nil, err
		}

		java := opts.Java
		if java == "" {
			java = neoforge.DefaultJava
		}

		command := []string{java}
		if opts.Memory != "" {
			command = append(command, "-Xmx"+opts.Memory, "-Xms"+opts.Memory)
		}

		return append(command, "-jar", jar, "nogui"), nil
	case loader.NeoForge:
		goos := opts.GOOS
		if goos == "" {
			goos = runtime.GOOS
		}

		if goos == "windows" {
			if err := requireFile(opts.Dir, "run.bat"); err != nil {
				return nil, err
			}

			return []string{"cmd", "/c", "run.bat", "nogui"}, nil
		}

		if err := requireFile(opts.Dir, "run.sh"); err != nil {
			return nil, err
		}

		return []string{"sh", "run.sh", "nogui"}, nil
	default:
		return nil, loader.UnknownLoader(string(opts.Kind))
	}
}

func requireFile(dir, name string) error {
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		return errors.Wrapf(ErrNotInstalled, "%s: %v", name, err)
	}

	if info.IsDir() {
		return errors.Wrapf(ErrNotInstalled, "%s is a directory", name)
	}

	return nil
}

// AcceptEULA writes eula.txt accepting the Minecraft EULA.
func AcceptEULA(dir string) error {
	content := "# https://aka.ms/MinecraftEULA\neula=true\n"

	if err := os.WriteFile(filepath.Join(dir, EULAFile), []byte(content), 0o644); err != nil {
		return errors.Wrap(err, "failed to write "+EULAFile)
	}

	return nil
}

// Stdio holds the streams attached to the server process.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run runs command in dir until it exits. When ctx is cancelled the server
// is interrupted so it can save, and killed after StopGracePeriod.
func Run(ctx context.Context, dir string, command []string, stdio Stdio) error {
	if len(command) == 0 {
		return errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...) //nolint:gosec // built by Command
	cmd.Dir = dir
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
	cmd.WaitDelay = StopGracePeriod
	cmd.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}

		return cmd.Process.Signal(os.Interrupt)
	}

	slog.InfoContext(ctx, "Starting server", "dir", dir, "command", command)

	err := cmd.Run()
	if ctx.Err() != nil {
		slog.InfoContext(ctx, "Server stopped")

		return nil
	}

	if err != nil {
		return errors.Wrap(err, "server exited")
	}

	return nil
}
