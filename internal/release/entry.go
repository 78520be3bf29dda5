// Package release fetches and holds the list of available modpack releases.
package release

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Entry is a single modpack release as known to the launcher.
type Entry struct {
	Tag         string
	DisplayName string
	Description string
	Prerelease  bool
	PublishedAt time.Time
}

// Label returns the text shown in the version picker.
func (e Entry) Label() string {
	return e.DisplayName + " (" + e.Tag + ")"
}

// githubRelease is the subset of the GitHub releases payload the launcher reads.
// Pointers distinguish absent and null fields from empty ones.
type githubRelease struct {
	TagName     *string    `json:"tag_name"`
	Name        *string    `json:"name"`
	Body        *string    `json:"body"`
	Prerelease  bool       `json:"prerelease"`
	PublishedAt *time.Time `json:"published_at"`
}

// DecodeEntries parses a GitHub releases array, preserving source order.
// Later duplicates of a tag are dropped.
func DecodeEntries(data []byte) ([]Entry, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return nil, newError(KindParse, "release list is not a JSON array", nil)
	}

	var raw []githubRelease
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newError(KindParse, "malformed release list", err)
	}

	entries := make([]Entry, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, r := range raw {
		if r.TagName == nil || strings.TrimSpace(*r.TagName) == "" {
			return nil, newError(KindParse, "missing tag_name",
				goerr.New("release without tag_name", goerr.V("index", i)))
		}
		tag := *r.TagName
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}

		e := Entry{
			Tag:         tag,
			DisplayName: tag,
			Prerelease:  r.Prerelease,
		}
		if r.Name != nil && strings.TrimSpace(*r.Name) != "" {
			e.DisplayName = *r.Name
		}
		if r.Body != nil {
			e.Description = *r.Body
		}
		if r.PublishedAt != nil {
			e.PublishedAt = *r.PublishedAt
		}
		entries = append(entries, e)
	}
	return entries, nil
}
