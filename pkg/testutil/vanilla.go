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

// VanillaManifestPath is where StubVanilla serves the version manifest.
const VanillaManifestPath = "/mc/game/version_manifest_v2.json"

// VanillaRelease describes one version served by StubVanilla.
type VanillaRelease struct {
	// ID is the version id, e.g. "1.20.4".
	ID string
	// ServerJar is the artifact content. Nil generates fake content.
	ServerJar []byte
	// OmitServer publishes the version without a server download.
	OmitServer bool
	// OmitDetail lists the version but serves no detail document.
	OmitDetail bool
}

// JarContent returns the artifact bytes StubVanilla serves for r.
func (r VanillaRelease) JarContent() []byte {
	if r.ServerJar != nil {
		return r.ServerJar
	}

	return []byte("fake-server-jar-" + r.ID)
}

// StubVanilla registers a piston-meta style manifest listing releases in the
// given order and returns the manifest URL.
func StubVanilla(m *MockHTTPServer, releases ...VanillaRelease) string {
	versions := make([]map[string]any, 0, len(releases))

	for _, r := range releases {
		detailPath := fmt.Sprintf("/v1/packages/%s.json", r.ID)
		jarPath := fmt.Sprintf("/v1/objects/%s/server.jar", r.ID)
		jar := r.JarContent()

		downloads := map[string]any{}
		if !r.OmitServer {
			downloads["server"] = map[string]any{
				"sha1": ComputeSHA1(jar),
				"size": len(jar),
				"url":  m.URL() + jarPath,
			}

			m.AddFile(jarPath, jar)
		}

		entry := map[string]any{
			"id":          r.ID,
			"type":        "release",
			"url":         m.URL() + detailPath,
			"releaseTime": "2024-01-01T00:00:00+00:00",
		}

		if !r.OmitDetail {
			detail := m.AddJSON(detailPath, map[string]any{
				"id":        r.ID,
				"downloads": downloads,
			})
			entry["sha1"] = ComputeSHA1(detail)
		}

		versions = append(versions, entry)
	}

	latest := ""
	if len(releases) > 0 {
		latest = releases[len(releases)-1].ID
	}

	m.AddJSON(VanillaManifestPath, map[string]any{
		"latest":   map[string]string{"release": latest, "snapshot": latest},
		"versions": versions,
	})

	return m.URL() + VanillaManifestPath
}
