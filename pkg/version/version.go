// Package version provides version parsing and matching helpers for
// distribution catalogs.
package version

import (
	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
)

// ParseVersion parses a version string into a semver.Version.
// Returns an error if the version string is invalid.
func ParseVersion(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse version %q", version)
	}

	return v, nil
}

// Compare compares two version strings.
// Returns:
//   - -1 if v1 < v2
//   - 0 if v1 == v2
//   - 1 if v1 > v2
//   - error if either version is invalid
func Compare(v1, v2 string) (int, error) {
	ver1, err := ParseVersion(v1)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse first version")
	}

	ver2, err := ParseVersion(v2)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse second version")
	}

	return ver1.Compare(ver2), nil
}

// FindMaxVersion finds the maximum version from a list of version strings.
// Invalid versions are skipped. Returns an error if none is valid.
func FindMaxVersion(versions []string) (string, error) {
	var maxVer *semver.Version
	var maxStr string

	for _, v := range versions {
		ver, err := ParseVersion(v)
		if err != nil {
			continue
		}

		if maxVer == nil || ver.GreaterThan(maxVer) {
			maxVer = ver
			maxStr = v
		}
	}

	if maxVer == nil {
		return "", errors.New("no valid versions found")
	}

	return maxStr, nil
}

// LatestStable returns the highest version without a pre-release suffix.
// Snapshots and other non-semver names are skipped.
func LatestStable(versions []string) (string, error) {
	stable := make([]string, 0, len(versions))

	for _, v := range versions {
		ver, err := ParseVersion(v)
		if err != nil || ver.Prerelease() != "" {
			continue
		}

		stable = append(stable, v)
	}

	latest, err := FindMaxVersion(stable)
	if err != nil {
		return "", errors.Wrap(err, "no stable release")
	}

	return latest, nil
}
