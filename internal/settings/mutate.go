package settings

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Mutations edit the in-memory aggregate between a load and a wholesale
// rewrite. Unlike load-time assembly, which repairs what it can, mutations
// validate their inputs strictly.

// AddDirectory appends a monitored directory with the supplied (possibly
// empty) exclusions. The path is stored trimmed; uniqueness is exact string
// equality against existing entries. Compiled patterns are not attached
// here; they are derived on the next load.
func (s *Settings) AddDirectory(path string, exclusions []string) error {
	p := strings.TrimSpace(path)
	if p == "" {
		return &ValidationError{Field: "path"}
	}
	if s.findDirectory(p) >= 0 {
		return &DuplicatePathError{Path: p}
	}
	if exclusions == nil {
		exclusions = []string{}
	}
	s.MonitoredDirectories = append(s.MonitoredDirectories, MonitoredDirectory{
		Path:       p,
		Exclusions: exclusions,
	})
	return nil
}

// RemoveDirectory removes exactly one directory matching the given path.
func (s *Settings) RemoveDirectory(path string) error {
	p := strings.TrimSpace(path)
	i := s.findDirectory(p)
	if i < 0 {
		return &NotFoundError{Kind: "directory", Key: p}
	}
	s.MonitoredDirectories = append(s.MonitoredDirectories[:i], s.MonitoredDirectories[i+1:]...)
	return nil
}

// SetDirectoryExclusions replaces a directory's exclusion list wholesale;
// it never merges with the previous value. Any compiled patterns on the
// entry are cleared; they are stale until the next load rebuilds them.
func (s *Settings) SetDirectoryExclusions(path string, exclusions []string) error {
	p := strings.TrimSpace(path)
	i := s.findDirectory(p)
	if i < 0 {
		return &NotFoundError{Kind: "directory", Key: p}
	}
	if exclusions == nil {
		exclusions = []string{}
	}
	s.MonitoredDirectories[i].Exclusions = exclusions
	s.MonitoredDirectories[i].Compiled = nil
	return nil
}

// AddMapping adds a drive mapping. The letter is uppercased before the
// uniqueness check and before storage.
func (s *Settings) AddMapping(letter, path string) error {
	l, ok := canonicalLetter(letter)
	if !ok {
		return errors.Errorf("drive letter %q must be a single alphabetic character", letter)
	}
	if !validMappingPath(path) {
		return errors.Errorf("mapping path %q must be a UNC path or a local drive path", path)
	}
	if s.findMapping(l) >= 0 {
		return &DuplicateLetterError{Letter: l}
	}
	s.DriveMappings = append(s.DriveMappings, DriveMapping{Letter: l, Path: path})
	return nil
}

// RemoveMapping removes the mapping for the given letter, compared
// case-insensitively.
func (s *Settings) RemoveMapping(letter string) error {
	l, ok := canonicalLetter(letter)
	if !ok {
		return errors.Errorf("drive letter %q must be a single alphabetic character", letter)
	}
	i := s.findMapping(l)
	if i < 0 {
		return &NotFoundError{Kind: "drive mapping", Key: l}
	}
	s.DriveMappings = append(s.DriveMappings[:i], s.DriveMappings[i+1:]...)
	return nil
}

// SetMapping replaces the path of an existing mapping.
func (s *Settings) SetMapping(letter, path string) error {
	l, ok := canonicalLetter(letter)
	if !ok {
		return errors.Errorf("drive letter %q must be a single alphabetic character", letter)
	}
	if !validMappingPath(path) {
		return errors.Errorf("mapping path %q must be a UNC path or a local drive path", path)
	}
	i := s.findMapping(l)
	if i < 0 {
		return &NotFoundError{Kind: "drive mapping", Key: l}
	}
	s.DriveMappings[i].Path = path
	return nil
}

// SetStagingArea replaces the staging area path. Blank is rejected; the
// staging area always has a value (the assembler defaults it on load).
func (s *Settings) SetStagingArea(path string) error {
	p := strings.TrimSpace(path)
	if p == "" {
		return &ValidationError{Field: "stagingArea"}
	}
	s.StagingArea = p
	return nil
}

// SetVDrivePath replaces the virtual drive path. Blank is rejected; to be
// vDrive-less, leave the field out of the document entirely.
func (s *Settings) SetVDrivePath(path string) error {
	p := strings.TrimSpace(path)
	if p == "" {
		return &ValidationError{Field: "vDrivePath"}
	}
	s.VDrivePath = p
	return nil
}

// findDirectory returns the index of the directory with exactly this path,
// or -1.
func (s *Settings) findDirectory(path string) int {
	for i, d := range s.MonitoredDirectories {
		if d.Path == path {
			return i
		}
	}
	return -1
}

// findMapping returns the index of the mapping with this canonical letter,
// or -1.
func (s *Settings) findMapping(letter string) int {
	for i, m := range s.DriveMappings {
		if m.Letter == letter {
			return i
		}
	}
	return -1
}
