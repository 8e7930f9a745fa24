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

import "strings"

// MatchesVersionPattern checks if a target version matches a glob pattern.
// Supports patterns like "1.21.x" which matches "1.21" and any version
// starting with "1.21.".
func MatchesVersionPattern(pattern, target string) bool {
	prefix, ok := strings.CutSuffix(pattern, ".x")
	if !ok || prefix == "" {
		return false
	}

	return target == prefix || strings.HasPrefix(target, prefix+".")
}

// Matches reports whether target equals pattern or matches it as a glob.
func Matches(pattern, target string) bool {
	return pattern == target || MatchesVersionPattern(pattern, target)
}
