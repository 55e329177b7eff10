package model

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionDiff is the most significant component that changed between two versions
type VersionDiff string

const (
	DiffMajor VersionDiff = "major"
	DiffMinor VersionDiff = "minor"
	DiffPatch VersionDiff = "patch"
	// DiffOther covers equal versions and any transition involving a pre-release
	DiffOther VersionDiff = "other"
)

// ReleaseType describes how breaking a release looks on its own
type ReleaseType string

const (
	ReleaseMajor ReleaseType = "major"
	ReleaseMinor ReleaseType = "minor"
	ReleasePatch ReleaseType = "patch"
)

// ParseVersion parses a strict semantic version. A single leading range
// marker (^ or ~), a leading "v" or "=" and surrounding whitespace are ignored.
func ParseVersion(raw string) (*semver.Version, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "^") || strings.HasPrefix(s, "~") {
		s = s[1:]
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "="), "v")

	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Diff returns the category of change between from and to
func Diff(from, to *semver.Version) VersionDiff {
	if from.Compare(to) == 0 {
		return DiffOther
	}
	if from.Prerelease() != "" || to.Prerelease() != "" {
		return DiffOther
	}

	switch {
	case from.Major() != to.Major():
		return DiffMajor
	case from.Minor() != to.Minor():
		return DiffMinor
	case from.Patch() != to.Patch():
		return DiffPatch
	default:
		return DiffOther
	}
}

// ClassifyRelease looks at a version in isolation. A major bump that sat
// unmerged while further releases happened upstream may no longer be a clean
// X.0.0 by the time it is applied.
func ClassifyRelease(v *semver.Version) ReleaseType {
	switch {
	case v.Minor() == 0 && v.Patch() == 0:
		return ReleaseMajor
	case v.Minor() != 0 && v.Patch() == 0:
		return ReleaseMinor
	default:
		return ReleasePatch
	}
}
