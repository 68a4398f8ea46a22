package venue

import "fmt"

// Pipeline is the composable name-rewriting chain:
// normalise -> resolve alias -> disambiguate. Each step is pure; the only
// shared state is the read-only seed store.
type Pipeline struct {
	store *SeedStore
}

func NewPipeline(store *SeedStore) *Pipeline {
	return &Pipeline{store: store}
}

// Resolve rewrites a known alternate spelling to its canonical name. The
// target is re-normalised because seed targets may themselves carry venue
// suffixes. Unknown names pass through unchanged; the mapping is
// many-to-one.
func (p *Pipeline) Resolve(name string) string {
	if target, ok := p.store.AliasTarget(name); ok {
		return Normalise(target)
	}
	return name
}

// Disambiguate appends the outward code to names known to collide across
// distinct physical venues: "Rectory Farm" + "GL7 7JW" -> "Rectory Farm
// (GL7)". No-op unless the name is ambiguous and the postcode is
// well-formed.
func (p *Pipeline) Disambiguate(name, postcode string) string {
	if !p.store.IsAmbiguous(name) {
		return name
	}
	outward := OutwardCode(postcode)
	if outward == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, outward)
}

// Canonical runs the full chain on a raw venue name. When the producer
// supplied no postcode the seed directory is consulted as ground truth for
// disambiguation.
func (p *Pipeline) Canonical(rawName, rawPostcode string) string {
	name := Normalise(rawName)
	name = p.Resolve(name)
	postcode := FormatPostcode(rawPostcode)
	if postcode == "" {
		if entry, ok := p.store.Lookup(name); ok {
			postcode = entry.Postcode
		}
	}
	return p.Disambiguate(name, postcode)
}

// Store exposes the seed directory for callers that need authority postcode
// or coordinates.
func (p *Pipeline) Store() *SeedStore {
	return p.store
}
