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

// PaperProjectPath mirrors the PaperMC project document path.
const PaperProjectPath = "/v2/projects/paper"

// PaperRelease describes one version served by StubPaper.
type PaperRelease struct {
	Version string
	// Builds are build numbers, oldest first. Nil serves a single build 1.
	Builds []int
	// OmitApplication serves builds without an application download.
	OmitApplication bool
	// OmitBuilds lists the version but serves no build listing.
	OmitBuilds bool
}

// PaperJar returns the content StubPaper serves for a build.
func PaperJar(version string, build int) []byte {
	return BuildTestJAR("version.json", fmt.Sprintf(`{"id":%q,"build":%d}`, version, build))
}

// PaperBuildsPath returns the build listing path of version.
func PaperBuildsPath(version string) string {
	return fmt.Sprintf("%s/versions/%s/builds", PaperProjectPath, version)
}

// PaperDownloadPath returns the application download path of a build.
func PaperDownloadPath(version string, build int) string {
	return fmt.Sprintf("%s/%d/downloads/paper-%s-%d.jar", PaperBuildsPath(version), build, version, build)
}

// StubPaper registers the Paper project, builds and jars on m and returns
// the API base URL.
func StubPaper(m *MockHTTPServer, releases ...PaperRelease) string {
	versions := make([]string, 0, len(releases))

	for _, r := range releases {
		versions = append(versions, r.Version)

		if r.OmitBuilds {
			continue
		}

		numbers := r.Builds
		if numbers == nil {
			numbers = []int{1}
		}

		builds := make([]map[string]any, 0, len(numbers))

		for _, n := range numbers {
			downloads := map[string]any{}

			if !r.OmitApplication {
				jar := PaperJar(r.Version, n)
				m.AddFile(PaperDownloadPath(r.Version, n), jar)

				downloads["application"] = map[string]string{
					"name":   fmt.Sprintf("paper-%s-%d.jar", r.Version, n),
					"sha256": ComputeSHA256(jar),
				}
			}

			builds = append(builds, map[string]any{
				"build":     n,
				"channel":   "default",
				"downloads": downloads,
			})
		}

		m.AddJSON(PaperBuildsPath(r.Version), map[string]any{
			"project_id": "paper",
			"version":    r.Version,
			"builds":     builds,
		})
	}

	m.AddJSON(PaperProjectPath, map[string]any{
		"project_id": "paper",
		"versions":   versions,
	})

	return m.URL()
}
