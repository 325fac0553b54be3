// Package settings defines the scan settings document (staging area, drive
// mappings, monitored directories with exclusion lists) and the pipeline
// that produces a trustworthy Settings value from untrusted JSON: lenient
// per-entry validation, exclusion-pattern compilation, and the mutation
// operations the CLI and the interactive menu share.
package settings

import (
	"encoding/json"

	"gitlab.com/tozd/go/errors"

	"github.com/aturpin0504/scancfg/internal/pathmatch"
)

// DefaultStagingArea is the fallback used when the document's stagingArea
// field is absent or blank.
const DefaultStagingArea = `C:\StagingArea`

// Settings is the root aggregate of the scan settings document. It is the
// sole owner of its child collections: the whole document is read from
// disk, mutated in memory, and rewritten wholesale, never patched.
type Settings struct {
	StagingArea          string               `json:"stagingArea"`
	VDrivePath           string               `json:"vDrivePath,omitempty"`
	DriveMappings        []DriveMapping       `json:"driveMappings"`
	MonitoredDirectories []MonitoredDirectory `json:"monitoredDirectories"`
}

// DriveMapping associates a single drive letter with a network share or a
// local path. Letters are stored uppercase and are unique across the
// collection; uniqueness is enforced at mutation time.
type DriveMapping struct {
	Letter string `json:"letter"`
	Path   string `json:"path"`
}

// MonitoredDirectory is one entry of the monitoredDirectories collection:
// a directory path plus its exclusion list. Exclusions keep their authored
// order and spelling. Compiled holds the derived match rules; it is rebuilt
// on every load and never persisted.
type MonitoredDirectory struct {
	Path       string                `json:"path"`
	Exclusions []string              `json:"exclusions"`
	Compiled   []pathmatch.MatchRule `json:"-"`
}

// Default returns a Settings with the staging-area fallback and empty
// collections.
func Default() *Settings {
	return &Settings{
		StagingArea:          DefaultStagingArea,
		DriveMappings:        []DriveMapping{},
		MonitoredDirectories: []MonitoredDirectory{},
	}
}

// Encode serializes the document for persistence: two-space indented JSON
// with a trailing newline. Compiled patterns are derived-only and never
// appear in the output.
func (s *Settings) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Errorf("encode settings document: %w", err)
	}
	return append(data, '\n'), nil
}
