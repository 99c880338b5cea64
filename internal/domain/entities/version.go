package entities

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// canonical adds the "v" prefix that golang.org/x/mod/semver requires.
func canonical(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// ValidVersion reports whether version is a semantic version, with or without a "v" prefix.
func ValidVersion(version string) bool {
	return semver.IsValid(canonical(version))
}

// CompareVersions returns -1, 0 or +1 comparing a with b. Invalid versions sort before
// valid ones, as in semver.Compare.
func CompareVersions(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

// IsNewer reports whether candidate is a strictly greater version than current.
func IsNewer(candidate, current string) bool {
	return CompareVersions(candidate, current) > 0
}

// SameVersion compares two versions ignoring the optional "v" prefix.
func SameVersion(a, b string) bool {
	if ValidVersion(a) && ValidVersion(b) {
		return CompareVersions(a, b) == 0
	}
	return strings.TrimPrefix(a, "v") == strings.TrimPrefix(b, "v")
}

// SortVersionsDescending orders versions from newest to oldest in place.
func SortVersionsDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return CompareVersions(versions[i], versions[j]) > 0
	})
}
