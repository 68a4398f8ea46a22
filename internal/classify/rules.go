package classify

import (
	"fmt"
	"regexp"
	"sort"

	"EquiSync/internal/config"
	"EquiSync/internal/model"
)

// Rules is the immutable classification rule set. It is built once at
// start-up and passed by reference into every Classify call, so there is no
// hidden module-level state and tests can swap tables freely. Safe for
// concurrent readers.
type Rules struct {
	eventTypes         []eventTypeRule
	trainingExclusions []*regexp.Regexp
	disciplines        []disciplineRule
}

type eventTypeRule struct {
	keyword   string
	eventType model.EventType
}

type disciplineRule struct {
	name    string
	pattern *regexp.Regexp
}

// defaultEventTypeKeywords maps listing keywords to event types. Order here
// is irrelevant; rule building sorts longest keyword first. Keywords match
// by substring, so a bare "hire" would fire inside county names (Cheshire,
// Wiltshire); only the compound hire phrases are listed.
var defaultEventTypeKeywords = []config.EventTypeKeyword{
	{Keyword: "venue hire", EventType: "venue_hire"},
	{Keyword: "arena hire", EventType: "venue_hire"},
	{Keyword: "course hire", EventType: "venue_hire"},
	{Keyword: "facility hire", EventType: "venue_hire"},
	{Keyword: "training", EventType: "training"},
	{Keyword: "clinic", EventType: "training"},
	{Keyword: "camp", EventType: "training"},
	{Keyword: "lesson", EventType: "training"},
	{Keyword: "rally", EventType: "training"},
	{Keyword: "fun show", EventType: "show"},
	{Keyword: "companion show", EventType: "show"},
	{Keyword: "fun day", EventType: "social"},
	{Keyword: "open day", EventType: "social"},
	{Keyword: "quiz night", EventType: "social"},
	{Keyword: "social", EventType: "social"},
	{Keyword: "demonstration", EventType: "other"},
	{Keyword: "demo", EventType: "other"},
}

// defaultTrainingExclusions are compound phrases where "training" is part of
// a discipline name, not an event type. A "training" keyword hit on a name
// matching one of these falls through to the next candidate.
var defaultTrainingExclusions = []string{
	`combined training`,
	`arena eventing training`,
}

// defaultDisciplines is scanned in order; phrases that embed another
// discipline's name (Arena Eventing, Combined Training) come first.
// Governing-body abbreviations (BS, BD, BE, ODE) stay case-sensitive
// uppercase: lowercased they are ordinary English words and the scan also
// covers description prose.
var defaultDisciplines = []config.DisciplineAlias{
	{Name: "Arena Eventing", Pattern: `arena eventing`},
	{Name: "Combined Training", Pattern: `combined training`},
	{Name: "Show Jumping", Pattern: `show ?jumping|british showjumping|\bsj\b|(?-i:\bBS\b)`},
	{Name: "Dressage", Pattern: `dressage|british dressage|(?-i:\bBD\b)`},
	{Name: "Eventing", Pattern: `eventing|horse trials|hunter trial|one day event|(?-i:\bODE\b|\bBE\b)|cross country|\bxc\b`},
	{Name: "Showing", Pattern: `\bshowing\b`},
	{Name: "Endurance", Pattern: `endurance`},
	{Name: "Le Trec", Pattern: `\ble ?trec\b|\btrec\b`},
	{Name: "Mounted Games", Pattern: `mounted games|gymkhana`},
	{Name: "Polocrosse", Pattern: `polocrosse`},
	{Name: "Tetrathlon", Pattern: `tetrathlon`},
	{Name: "Carriage Driving", Pattern: `carriage driving|driving trials`},
}

// NewRules builds a rule set from configuration; empty sections fall back to
// the built-in tables. Keywords are ordered longest first, discipline
// patterns compiled case-insensitively in list order.
func NewRules(cfg config.ClassifierConfig) (*Rules, error) {
	keywords := cfg.EventTypeKeywords
	if len(keywords) == 0 {
		keywords = defaultEventTypeKeywords
	}
	exclusions := cfg.TrainingExclusions
	if len(exclusions) == 0 {
		exclusions = defaultTrainingExclusions
	}
	disciplines := cfg.Disciplines
	if len(disciplines) == 0 {
		disciplines = defaultDisciplines
	}

	r := &Rules{}
	for _, kw := range keywords {
		et := model.EventType(kw.EventType)
		switch et {
		case model.EventTypeCompetition, model.EventTypeTraining, model.EventTypeVenueHire,
			model.EventTypeShow, model.EventTypeSocial, model.EventTypeOther:
		default:
			return nil, fmt.Errorf("unknown event type %q for keyword %q", kw.EventType, kw.Keyword)
		}
		r.eventTypes = append(r.eventTypes, eventTypeRule{keyword: kw.Keyword, eventType: et})
	}
	sort.SliceStable(r.eventTypes, func(i, j int) bool {
		return len(r.eventTypes[i].keyword) > len(r.eventTypes[j].keyword)
	})

	for _, phrase := range exclusions {
		re, err := regexp.Compile(`(?i)` + phrase)
		if err != nil {
			return nil, fmt.Errorf("compile training exclusion %q: %w", phrase, err)
		}
		r.trainingExclusions = append(r.trainingExclusions, re)
	}

	for _, d := range disciplines {
		re, err := regexp.Compile(`(?i)` + d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile discipline pattern for %q: %w", d.Name, err)
		}
		r.disciplines = append(r.disciplines, disciplineRule{name: d.Name, pattern: re})
	}
	return r, nil
}

// DefaultRules builds the built-in rule set. The built-in tables always
// compile, so this cannot fail.
func DefaultRules() *Rules {
	r, err := NewRules(config.ClassifierConfig{})
	if err != nil {
		panic(err)
	}
	return r
}
