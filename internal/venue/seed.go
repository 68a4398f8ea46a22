package venue

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SeedEntry is one hand-curated authority record, keyed by canonical name.
type SeedEntry struct {
	Postcode string   `yaml:"postcode"`
	Lat      *float64 `yaml:"lat"`
	Lng      *float64 `yaml:"lng"`
	Aliases  []string `yaml:"aliases"`
}

type seedDocument struct {
	Venues         map[string]SeedEntry `yaml:"venues"`
	AmbiguousNames []string             `yaml:"ambiguous_names"`
}

// SeedStore is the read-only authority directory: canonical name ->
// postcode/coordinates/aliases, plus the set of names known to denote
// multiple distinct physical venues. The document is parsed and validated
// once on first use; afterwards everything is an immutable map read, safe
// for concurrent callers without locking.
type SeedStore struct {
	path   string
	logger *logrus.Logger

	once      sync.Once
	loadErr   error
	entries   map[string]SeedEntry // canonical name -> entry
	aliases   map[string]string    // lowercased alias -> canonical name
	ambiguous map[string]struct{}
}

func NewSeedStore(path string, logger *logrus.Logger) *SeedStore {
	return &SeedStore{path: path, logger: logger}
}

// Load forces parsing and validation of the document. It is also triggered
// lazily by the first lookup.
func (s *SeedStore) Load() error {
	s.once.Do(s.load)
	return s.loadErr
}

func (s *SeedStore) load() {
	s.entries = map[string]SeedEntry{}
	s.aliases = map[string]string{}
	s.ambiguous = map[string]struct{}{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.loadErr = fmt.Errorf("read seed document: %w", err)
		return
	}
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		s.loadErr = fmt.Errorf("parse seed document: %w", err)
		return
	}

	for name, entry := range doc.Venues {
		if !s.validEntry(name, entry) {
			continue
		}
		if entry.Postcode != "" {
			entry.Postcode = FormatPostcode(entry.Postcode)
		}
		s.entries[name] = entry
		for _, alias := range entry.Aliases {
			key := strings.ToLower(strings.TrimSpace(alias))
			if key == "" {
				continue
			}
			if existing, ok := s.aliases[key]; ok && existing != name {
				s.logger.WithFields(logrus.Fields{
					"alias":   alias,
					"targets": []string{existing, name},
				}).Warn("seed alias maps to multiple canonical names, keeping first")
				continue
			}
			s.aliases[key] = name
		}
	}
	for _, name := range doc.AmbiguousNames {
		s.ambiguous[strings.TrimSpace(name)] = struct{}{}
	}
}

// validEntry applies the offline validation rules at load time as well:
// postcode shape and UK bounding box. Malformed entries are logged and
// skipped so one bad record cannot poison the directory.
func (s *SeedStore) validEntry(name string, entry SeedEntry) bool {
	if strings.TrimSpace(name) == "" {
		s.logger.Warn("seed entry with blank canonical name skipped")
		return false
	}
	if entry.Postcode != "" && FormatPostcode(entry.Postcode) == "" {
		s.logger.WithFields(logrus.Fields{"venue": name, "postcode": entry.Postcode}).
			Warn("seed entry has malformed postcode, skipped")
		return false
	}
	if (entry.Lat == nil) != (entry.Lng == nil) {
		s.logger.WithField("venue", name).Warn("seed entry has half a coordinate pair, skipped")
		return false
	}
	if entry.Lat != nil && !InUKBounds(*entry.Lat, *entry.Lng) {
		s.logger.WithFields(logrus.Fields{"venue": name, "lat": *entry.Lat, "lng": *entry.Lng}).
			Warn("seed entry coordinates outside UK bounds, skipped")
		return false
	}
	return true
}

// Lookup returns the authority entry for a canonical name.
func (s *SeedStore) Lookup(name string) (SeedEntry, bool) {
	if err := s.Load(); err != nil {
		return SeedEntry{}, false
	}
	entry, ok := s.entries[name]
	return entry, ok
}

// AliasTarget returns the canonical name a raw alias rewrites to.
func (s *SeedStore) AliasTarget(alias string) (string, bool) {
	if err := s.Load(); err != nil {
		return "", false
	}
	target, ok := s.aliases[strings.ToLower(strings.TrimSpace(alias))]
	return target, ok
}

// IsAmbiguous reports whether a canonical name is known to denote multiple
// distinct physical venues.
func (s *SeedStore) IsAmbiguous(name string) bool {
	if err := s.Load(); err != nil {
		return false
	}
	_, ok := s.ambiguous[name]
	return ok
}
