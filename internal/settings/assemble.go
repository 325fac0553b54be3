package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/aturpin0504/scancfg/internal/pathmatch"
)

// LoadStats are the diagnostic counters accumulated while assembling a
// settings document.
type LoadStats struct {
	ValidDirectories int `json:"validDirectories"`
	SkippedEntries   int `json:"skippedEntries"`
	CompiledPatterns int `json:"compiledPatterns"`
	TotalExclusions  int `json:"totalExclusions"`
	DroppedMappings  int `json:"droppedMappings"`
}

// Summary renders the counters as the conventional one-line diagnostic.
func (st LoadStats) Summary() string {
	return fmt.Sprintf("%d directories valid, %d skipped, %d patterns compiled of %d total",
		st.ValidDirectories, st.SkippedEntries, st.CompiledPatterns, st.TotalExclusions)
}

// Assemble turns raw document bytes into a validated Settings value.
//
// Only total failure is fatal, returned as *ParseError: empty or
// whitespace-only input, malformed JSON, or a top-level value that is not
// an object. Everything below the top level is repaired or dropped per
// entry: a missing or blank stagingArea takes the default, malformed drive
// mappings and directory records are dropped, and an exclusion string that
// fails to compile loses only its compiled form while the raw string stays
// in the document. Each repair and drop is logged through the context
// logger; Assemble never depends on the logger's output.
//
// Compiled patterns are rebuilt from scratch on every call. Nothing is
// cached between loads, so a compiled pattern can never outlive an edit to
// the exclusion list it came from.
func Assemble(ctx context.Context, raw []byte) (*Settings, LoadStats, error) {
	log := zerolog.Ctx(ctx)
	var stats LoadStats

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, stats, &ParseError{Err: errors.New("document is empty")}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, stats, &ParseError{Err: err}
	}
	if doc == nil {
		return nil, stats, &ParseError{Err: errors.New("document is not a JSON object")}
	}

	s := &Settings{
		DriveMappings:        []DriveMapping{},
		MonitoredDirectories: []MonitoredDirectory{},
	}

	// stagingArea: absent, non-string, or blank falls back to the default.
	// A corrected default is a warning, never a failure.
	if v, ok := stringField(doc, "stagingArea"); ok && strings.TrimSpace(v) != "" {
		s.StagingArea = v
	} else {
		s.StagingArea = DefaultStagingArea
		log.Warn().Str("default", DefaultStagingArea).Msg("stagingArea missing or blank, using default")
	}

	// vDrivePath is optional on load; ValidateStrict is the opt-in check.
	if v, ok := stringField(doc, "vDrivePath"); ok {
		s.VDrivePath = strings.TrimSpace(v)
	}

	// Drive mappings: validate each entry independently and drop the bad
	// ones. A document full of historical junk still loads.
	if rawList, ok := doc["driveMappings"]; ok {
		entries, err := decodeArray(rawList)
		if err != nil {
			stats.DroppedMappings++
			log.Warn().Err(err).Msg("driveMappings is not a list, ignoring")
		}
		for i, entry := range entries {
			m, err := validateMappingRecord(entry)
			if err != nil {
				stats.DroppedMappings++
				log.Warn().Int("index", i).Err(err).Msg("dropping invalid drive mapping")
				continue
			}
			s.DriveMappings = append(s.DriveMappings, m)
		}
	}

	// Monitored directories: repair or drop each record, then compile its
	// exclusions. One bad record or pattern never blocks its siblings.
	if rawList, ok := doc["monitoredDirectories"]; ok {
		entries, err := decodeArray(rawList)
		if err != nil {
			stats.SkippedEntries++
			log.Warn().Err(err).Msg("monitoredDirectories is not a list, ignoring")
		}
		for i, entry := range entries {
			dir, err := validateDirectoryRecord(entry)
			if err != nil {
				stats.SkippedEntries++
				log.Warn().Int("index", i).Err(err).Msg("skipping invalid monitored directory")
				continue
			}

			res := pathmatch.CompileAll(dir.Exclusions)
			for _, f := range res.Failures {
				log.Warn().Str("path", dir.Path).Err(f).Msg("dropping exclusion pattern")
			}
			dir.Compiled = res.Rules

			stats.ValidDirectories++
			stats.TotalExclusions += res.Total
			stats.CompiledPatterns += res.Compiled()
			s.MonitoredDirectories = append(s.MonitoredDirectories, dir)
		}
	}

	log.Debug().
		Int("directories", stats.ValidDirectories).
		Int("skipped", stats.SkippedEntries).
		Int("patterns", stats.CompiledPatterns).
		Int("mappings", len(s.DriveMappings)).
		Msg("settings document assembled")

	return s, stats, nil
}

// stringField extracts a top-level string field. ok is false when the field
// is absent or not a JSON string.
func stringField(doc map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := doc[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeArray splits a collection field into its raw elements. A JSON null
// decodes to no elements, same as an absent field.
func decodeArray(raw json.RawMessage) ([]json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Errorf("not a JSON list: %w", err)
	}
	return entries, nil
}
