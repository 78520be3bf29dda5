package release

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion extracts a semantic version from a tag such as "v1.2.3".
func ParseVersion(tag string) (*semver.Version, bool) {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(tag), "v"))
	if err != nil {
		return nil, false
	}
	return v, true
}

// LatestStable returns the highest non-prerelease entry whose tag is a
// semantic version. Entries flagged as prerelease by GitHub are skipped too.
func LatestStable(entries []Entry) (Entry, bool) {
	var (
		best    Entry
		bestVer *semver.Version
	)
	for _, e := range entries {
		if e.Prerelease {
			continue
		}
		v, ok := ParseVersion(e.Tag)
		if !ok || v.Prerelease() != "" {
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = e, v
		}
	}
	return best, bestVer != nil
}

// NewerThan returns the entries whose version is greater than installed, in
// catalog order. A "dev" or unparsable installed version yields nil.
func NewerThan(entries []Entry, installed string) []Entry {
	current, ok := ParseVersion(installed)
	if !ok {
		return nil
	}

	var out []Entry
	for _, e := range entries {
		v, ok := ParseVersion(e.Tag)
		if !ok {
			continue
		}
		if v.GreaterThan(current) {
			out = append(out, e)
		}
	}
	return out
}
