package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// exclusionList is the wire shape of a directory's exclusions field. In
// documents in the wild the field arrives in several shapes: absent, null,
// a bare scalar, or a list whose elements may be scalars of any type.
// UnmarshalJSON repairs all of those into a list of strings; shapes that
// cannot be repaired (objects, nested containers) are errors and invalidate
// the whole record.
type exclusionList []string

func (x *exclusionList) UnmarshalJSON(data []byte) error {
	tok := bytes.TrimSpace(data)
	if len(tok) == 0 || bytes.Equal(tok, []byte("null")) {
		*x = exclusionList{}
		return nil
	}

	switch tok[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(tok, &items); err != nil {
			return errors.Errorf("exclusions list: %w", err)
		}
		out := make(exclusionList, 0, len(items))
		for i, item := range items {
			s, err := scalarText(item)
			if err != nil {
				return errors.Errorf("exclusions[%d]: %w", i, err)
			}
			out = append(out, s)
		}
		*x = out
	case '{':
		return errors.New("exclusions must be a string or a list of strings")
	default:
		s, err := scalarText(tok)
		if err != nil {
			return err
		}
		*x = exclusionList{s}
	}
	return nil
}

// scalarText renders one JSON scalar token as a string: strings decode,
// numbers and booleans keep their literal text, null becomes "".
func scalarText(tok json.RawMessage) (string, error) {
	t := bytes.TrimSpace(tok)
	if len(t) == 0 {
		return "", errors.New("empty value")
	}
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return "", errors.Errorf("string value: %w", err)
		}
		return s, nil
	case '[', '{':
		return "", errors.New("value must be a scalar")
	}
	if bytes.Equal(t, []byte("null")) {
		return "", nil
	}
	return string(t), nil
}

// directoryRecord is the wire shape of one monitoredDirectories entry.
type directoryRecord struct {
	Path       string        `json:"path"`
	Exclusions exclusionList `json:"exclusions"`
}

// validateDirectoryRecord checks and repairs one raw monitoredDirectories
// entry. Rules, in order: the record must be an object whose path is a
// string and non-blank after trimming (stored trimmed); an absent or null
// exclusions field becomes an empty list; a scalar exclusions field becomes
// a one-element list. Anything that cannot be repaired is reported as a
// malformed entry for the caller to log, count, and skip.
func validateDirectoryRecord(raw json.RawMessage) (MonitoredDirectory, error) {
	var rec directoryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return MonitoredDirectory{}, &malformedEntryError{reason: fmt.Sprintf("directory entry: %v", err)}
	}

	path := strings.TrimSpace(rec.Path)
	if path == "" {
		return MonitoredDirectory{}, &malformedEntryError{reason: "directory entry has no path"}
	}

	exclusions := []string(rec.Exclusions)
	if exclusions == nil {
		exclusions = []string{}
	}
	return MonitoredDirectory{Path: path, Exclusions: exclusions}, nil
}

// mappingRecord is the wire shape of one driveMappings entry.
type mappingRecord struct {
	Letter string `json:"letter"`
	Path   string `json:"path"`
}

// validateMappingRecord checks one raw driveMappings entry: the letter must
// be exactly one alphabetic character (stored uppercase) and the path must
// pass validMappingPath.
func validateMappingRecord(raw json.RawMessage) (DriveMapping, error) {
	var rec mappingRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return DriveMapping{}, &malformedEntryError{reason: fmt.Sprintf("mapping entry: %v", err)}
	}

	letter, ok := canonicalLetter(rec.Letter)
	if !ok {
		return DriveMapping{}, &malformedEntryError{
			reason: fmt.Sprintf("mapping letter %q must be a single alphabetic character", rec.Letter),
		}
	}
	if !validMappingPath(rec.Path) {
		return DriveMapping{}, &malformedEntryError{
			reason: fmt.Sprintf("mapping path %q must be a UNC path or a local drive path", rec.Path),
		}
	}
	return DriveMapping{Letter: letter, Path: rec.Path}, nil
}

// canonicalLetter validates a drive letter and returns it uppercased.
// Letters are ASCII A-Z only.
func canonicalLetter(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if len(t) != 1 {
		return "", false
	}
	c := t[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return string(c), true
	case c >= 'a' && c <= 'z':
		return string(c - 'a' + 'A'), true
	}
	return "", false
}

// validMappingPath accepts a UNC path (`\\server\share`) or a local
// drive-letter path (`X:\dir`, forward slash tolerated), either way longer
// than two characters.
func validMappingPath(p string) bool {
	if len(p) <= 2 {
		return false
	}
	if strings.HasPrefix(p, `\\`) {
		return true
	}
	c := p[0]
	if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
		return false
	}
	return p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}

// ValidateStrict enforces the completeness the downstream scan engine
// needs: vDrivePath must be present and non-blank. The regular load path
// never requires it; this runs only when explicitly requested.
func (s *Settings) ValidateStrict() error {
	if strings.TrimSpace(s.VDrivePath) == "" {
		return &ValidationError{Field: "vDrivePath"}
	}
	return nil
}
