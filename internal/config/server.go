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

// Package config reads and writes the per-server mcx.toml and the global
// mcx settings.
package config

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/lexfrei/mcx/pkg/loader"
)

// FileName is the server config file inside a server directory.
const FileName = "mcx.toml"

// ErrNoServerConfig is returned when a directory has no mcx.toml.
var ErrNoServerConfig = errors.New("no " + FileName + " found")

// Server identifies an installed server.
type Server struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Loader  string `toml:"loader"`
}

type serverFile struct {
	Server Server `toml:"server"`
}

// Validate checks that every field is set and the loader is supported.
func (s Server) Validate() error {
	if s.Name == "" {
		return errors.New("server name is empty")
	}

	if s.Version == "" {
		return errors.New("server version is empty")
	}

	if _, ok := loader.ParseKind(s.Loader); !ok {
		return loader.UnknownLoader(s.Loader)
	}

	return nil
}

// Kind returns the parsed loader kind. Call Validate first.
func (s Server) Kind() loader.Kind {
	kind, _ := loader.ParseKind(s.Loader)

	return kind
}

// WriteServer writes s to dir/mcx.toml, replacing any previous file.
func WriteServer(dir string, s Server) error {
	if err := s.Validate(); err != nil {
		return errors.Wrap(err, "refusing to write invalid server config")
	}

	data, err := toml.Marshal(serverFile{Server: s})
	if err != nil {
		return errors.Wrap(err, "failed to encode server config")
	}

	path := filepath.Join(dir, FileName)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return errors.Wrapf(err, "failed to write %s", path)
	}

	return nil
}

// ReadServer reads dir/mcx.toml.
func ReadServer(dir string) (Server, error) {
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Server{}, errors.Wrapf(ErrNoServerConfig, "in %s", dir)
	}

	if err != nil {
		return Server{}, errors.Wrapf(err, "failed to read %s", path)
	}

	var file serverFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return Server{}, errors.Wrapf(err, "failed to parse %s", path)
	}

	if err := file.Server.Validate(); err != nil {
		return Server{}, errors.Wrapf(err, "invalid %s", path)
	}

	return file.Server, nil
}
