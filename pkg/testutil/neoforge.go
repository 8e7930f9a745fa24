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

import "fmt"

// NeoForgeVersionsPath mirrors the maven API listing path.
const NeoForgeVersionsPath = "/api/maven/versions/releases/net/neoforged/neoforge"

// NeoForgeRelease describes one version served by StubNeoForge.
type NeoForgeRelease struct {
	Version string
	// OmitInstaller lists the version but serves no installer.
	OmitInstaller bool
	// OmitSHA1 serves the installer without a .sha1 sidecar.
	OmitSHA1 bool
	// BadSHA1 publishes a sidecar that does not match the installer.
	BadSHA1 bool
}

// NeoForgeInstallerPath returns the maven path of the installer for v.
func NeoForgeInstallerPath(v string) string {
	return fmt.Sprintf("/releases/net/neoforged/neoforge/%s/neoforge-%s-installer.jar", v, v)
}

// StubNeoForge registers a maven listing and installers on m and returns the
// maven base URL.
func StubNeoForge(m *MockHTTPServer, releases ...NeoForgeRelease) string {
	versions := make([]string, 0, len(releases))

	for _, r := range releases {
		versions = append(versions, r.Version)

		if r.OmitInstaller {
			continue
		}

		path := NeoForgeInstallerPath(r.Version)
		installer := BuildTestJAR("installer.properties", "version="+r.Version)
		m.AddFile(path, installer)

		switch {
		case r.OmitSHA1:
		case r.BadSHA1:
			m.AddFile(path+".sha1", []byte(ComputeSHA1([]byte("other"))+"\n"))
		default:
			m.AddFile(path+".sha1", []byte(ComputeSHA1(installer)+"\n"))
		}
	}

	m.AddJSON(NeoForgeVersionsPath, map[string]any{
		"isSnapshot": false,
		"versions":   versions,
	})

	return m.URL()
}
