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
	"archive/zip"
	"bytes"
	"slices"
)

// BuildTestJAR creates an in-memory JAR with a single entry, used as a fake
// server jar or installer.
func BuildTestJAR(filename, content string) []byte {
	return BuildTestJARMulti(map[string]string{filename: content})
}

// BuildTestJARMulti creates an in-memory JAR with entries in name order, so
// equal inputs give byte-identical archives and stable digests.
// Panics on error since this is a test utility.
func BuildTestJARMulti(files map[string]string) []byte {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	slices.Sort(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			panic("BuildTestJARMulti: " + err.Error())
		}

		if _, err := f.Write([]byte(files[name])); err != nil {
			panic("BuildTestJARMulti: " + err.Error())
		}
	}

	if err := w.Close(); err != nil {
		panic("BuildTestJARMulti: " + err.Error())
	}

	return buf.Bytes()
}
