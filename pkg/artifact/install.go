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

package artifact

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/mcx/pkg/loader"
)

// ReceiptFile records which top-level entries of a server directory were
// produced by the last install.
const ReceiptFile = ".mcx-install.json"

// Receipt is the content of ReceiptFile.
type Receipt struct {
	Loader  string   `json:"loader"`
	Version string   `json:"version"`
	Files   []string `json:"files"`
}

// PopulateFunc writes the server layout into an empty staging directory.
type PopulateFunc func(ctx context.Context, staging string) error

const (
	stagingPrefix = ".mcx-staging-"
	backupPrefix  = ".mcx-previous-"
)

// Install runs populate against a staging directory inside destination and
// moves its output into place only when populate succeeds. Staging inside
// destination keeps every move on one filesystem, so destination may be a
// mount point.
//
// Entries listed in the previous receipt are replaced, so a reinstall ends
// in the same state as a fresh install. Entries the receipt does not list,
// such as worlds or mcx.toml, are left alone. On failure destination is
// left as it was, and removed if Install created it.
func Install(ctx context.Context, destination string, receipt Receipt, populate PopulateFunc) (err error) {
	dest, err := filepath.Abs(destination)
	if err != nil {
		return loader.IOError(err, "failed to resolve destination")
	}

	if filepath.Dir(dest) == dest {
		return loader.IOError(errors.Newf("%s is a filesystem root", dest),
			"refusing to install into "+dest+": choose a server directory")
	}

	created, err := firstMissing(dest)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return loader.IOError(err, "failed to create destination")
	}

	defer func() {
		if err != nil && created != "" {
			_ = os.RemoveAll(created)
		}
	}()

	staging, err := os.MkdirTemp(dest, stagingPrefix)
	if err != nil {
		return loader.IOError(err, "failed to create staging directory")
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	if err := populate(ctx, staging); err != nil {
		return err
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return loader.IOError(err, "failed to read staging directory")
	}

	if len(entries) == 0 {
		return loader.InvalidMetadata("%s %s produced no artifacts", receipt.Loader, receipt.Version)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}

	slices.Sort(files)
	receipt.Files = files

	if err := commit(dest, staging, receipt); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Server installed",
		"loader", receipt.Loader, "version", receipt.Version, "path", dest, "files", len(files))

	return nil
}

// firstMissing returns the outermost directory of path that does not exist
// yet, or "" when path exists.
func firstMissing(path string) (string, error) {
	missing := ""

	for dir := path; ; dir = filepath.Dir(dir) {
		_, err := os.Stat(dir)
		if err == nil {
			return missing, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return "", loader.IOError(err, "failed to inspect "+dir)
		}

		missing = dir

		if filepath.Dir(dir) == dir {
			return missing, nil
		}
	}
}

// commit swaps the staged entries into dest. Entries being replaced are
// parked in a backup directory first and restored if any step fails.
func commit(dest, staging string, receipt Receipt) error {
	previous, err := ReadReceipt(dest)
	if err != nil {
		return err
	}

	backup, err := os.MkdirTemp(dest, backupPrefix)
	if err != nil {
		return loader.IOError(err, "failed to create backup directory")
	}
	defer func() {
		_ = os.RemoveAll(backup)
	}()

	var parked, placed []string

	rollback := func() {
		for _, name := range placed {
			_ = os.RemoveAll(filepath.Join(dest, name))
		}

		for _, name := range parked {
			_ = os.Rename(filepath.Join(backup, name), filepath.Join(dest, name))
		}
	}

	for _, name := range replaced(previous.Files, receipt.Files) {
		err := os.Rename(filepath.Join(dest, name), filepath.Join(backup, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			rollback()

			return loader.IOError(err, "failed to set aside previous "+name)
		}

		parked = append(parked, name)
	}

	for _, name := range receipt.Files {
		if err := os.Rename(filepath.Join(staging, name), filepath.Join(dest, name)); err != nil {
			rollback()

			return loader.IOError(err, "failed to move "+name+" into place")
		}

		placed = append(placed, name)
	}

	if err := writeReceipt(dest, receipt); err != nil {
		rollback()

		return err
	}

	return nil
}

// replaced lists the entries of dest an install overwrites or retires.
func replaced(previous, next []string) []string {
	names := make([]string, 0, len(previous)+len(next))

	for _, name := range append(slices.Clone(previous), next...) {
		if isEntryName(name) && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}

// ReadReceipt returns the receipt stored in dir, or an empty one if dir has
// never been installed into.
func ReadReceipt(dir string) (Receipt, error) {
	data, err := os.ReadFile(filepath.Join(dir, ReceiptFile))
	if errors.Is(err, fs.ErrNotExist) {
		return Receipt{}, nil
	}

	if err != nil {
		return Receipt{}, loader.IOError(err, "failed to read install receipt")
	}

	var receipt Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return Receipt{}, loader.JSONError(err, "failed to parse install receipt")
	}

	return receipt, nil
}

func writeReceipt(dir string, receipt Receipt) error {
	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return loader.JSONError(err, "failed to encode install receipt")
	}

	tmp := filepath.Join(dir, ReceiptFile+".tmp")
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return loader.IOError(err, "failed to write install receipt")
	}

	if err := os.Rename(tmp, filepath.Join(dir, ReceiptFile)); err != nil {
		_ = os.Remove(tmp)

		return loader.IOError(err, "failed to write install receipt")
	}

	return nil
}

// isEntryName guards receipt cleanup against names that escape dir or
// belong to Install itself.
func isEntryName(name string) bool {
	switch {
	case name == "", name == ".", name == "..", name == ReceiptFile, name == ReceiptFile+".tmp":
		return false
	case strings.HasPrefix(name, stagingPrefix), strings.HasPrefix(name, backupPrefix):
		return false
	}

	return name == filepath.Base(name)
}
