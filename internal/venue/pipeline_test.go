package venue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = `
venues:
  Kelsall Hill:
    postcode: CW6 0PE
    lat: 53.2096
    lng: -2.7107
    aliases:
      - The Hill At Kelsall
  Beaver Hall Equestrian Centre:
    postcode: ST13 7QR
    aliases:
      - Beaver Hall EC
  Bad Postcode Venue:
    postcode: NOTAPOSTCODE
  Far Away Venue:
    lat: 10.0
    lng: 10.0
ambiguous_names:
  - Rectory Farm
`

func newTestStore(t *testing.T) *SeedStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "venues.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSeed), 0o644))
	store := NewSeedStore(path, logrus.New())
	require.NoError(t, store.Load())
	return store
}

func TestSeedStoreValidation(t *testing.T) {
	store := newTestStore(t)

	entry, ok := store.Lookup("Kelsall Hill")
	require.True(t, ok)
	assert.Equal(t, "CW6 0PE", entry.Postcode)
	require.NotNil(t, entry.Lat)
	assert.InDelta(t, 53.2096, *entry.Lat, 1e-6)

	// Malformed entries are skipped, not fatal.
	_, ok = store.Lookup("Bad Postcode Venue")
	assert.False(t, ok)
	_, ok = store.Lookup("Far Away Venue")
	assert.False(t, ok)

	assert.True(t, store.IsAmbiguous("Rectory Farm"))
	assert.False(t, store.IsAmbiguous("Kelsall Hill"))
}

func TestSeedStoreMissingFile(t *testing.T) {
	store := NewSeedStore(filepath.Join(t.TempDir(), "absent.yaml"), logrus.New())
	assert.Error(t, store.Load())

	// Lookups on a broken store degrade to misses.
	_, ok := store.Lookup("Kelsall Hill")
	assert.False(t, ok)
	assert.False(t, store.IsAmbiguous("Rectory Farm"))
}

func TestResolve(t *testing.T) {
	p := NewPipeline(newTestStore(t))

	// Alias target is itself re-normalised: the seed target still carries
	// a venue suffix.
	assert.Equal(t, "Beaver Hall", p.Resolve("Beaver Hall EC"))
	assert.Equal(t, "Kelsall Hill", p.Resolve("The Hill At Kelsall"))

	// Unknown names pass through unchanged.
	assert.Equal(t, "Somerford Park", p.Resolve("Somerford Park"))
}

func TestDisambiguate(t *testing.T) {
	p := NewPipeline(newTestStore(t))

	assert.Equal(t, "Rectory Farm (GL7)", p.Disambiguate("Rectory Farm", "GL7 7JW"))
	assert.Equal(t, "Rectory Farm (GL7)", p.Disambiguate("Rectory Farm", "gl77jw"))

	// No-op without a well-formed postcode or for unambiguous names.
	assert.Equal(t, "Rectory Farm", p.Disambiguate("Rectory Farm", ""))
	assert.Equal(t, "Rectory Farm", p.Disambiguate("Rectory Farm", "garbage"))
	assert.Equal(t, "Kelsall Hill", p.Disambiguate("Kelsall Hill", "CW6 0PE"))
}

func TestCanonicalChain(t *testing.T) {
	p := NewPipeline(newTestStore(t))

	// Resolving an alias then normalising+disambiguating equals resolving
	// the canonical target directly.
	viaAlias := p.Canonical("The Hill At Kelsall", "")
	direct := p.Canonical("Kelsall Hill", "")
	assert.Equal(t, direct, viaAlias)
	assert.Equal(t, "Kelsall Hill", direct)

	// End to end: raw suffix + compact postcode.
	assert.Equal(t, "Kelsall Hill", p.Canonical("Kelsall Hill EC", "CW60PE"))

	// Ambiguous name with a producer postcode gains the outward code.
	assert.Equal(t, "Rectory Farm (GL7)", p.Canonical("Rectory Farm", "GL7 7JW"))
	// Without any postcode it stays bare.
	assert.Equal(t, "Rectory Farm", p.Canonical("Rectory Farm", ""))
}
