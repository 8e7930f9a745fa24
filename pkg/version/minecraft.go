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

package version

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// firstNeoForgeMajor is the first NeoForge major that follows the
// <mc minor>.<mc patch>.<build> scheme.
const firstNeoForgeMajor = 20

// NeoForgeMinecraftVersion returns the Minecraft version a NeoForge release
// targets: 20.4.237 targets 1.20.4 and 21.0.3-beta targets 1.21.
func NeoForgeMinecraftVersion(neoforgeVersion string) (string, error) {
	v, err := ParseVersion(neoforgeVersion)
	if err != nil {
		return "", err
	}

	if v.Major() < firstNeoForgeMajor {
		return "", errors.Newf("NeoForge version %s predates the Minecraft-aligned scheme", neoforgeVersion)
	}

	if v.Minor() == 0 {
		return fmt.Sprintf("1.%d", v.Major()), nil
	}

	return fmt.Sprintf("1.%d.%d", v.Major(), v.Minor()), nil
}
