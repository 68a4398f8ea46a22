package classify

import (
	"testing"

	"EquiSync/internal/config"
	"EquiSync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newDefault(t *testing.T) *Classifier {
	t.Helper()
	return New(DefaultRules())
}

func TestClassifyPairs(t *testing.T) {
	c := newDefault(t)

	cases := []struct {
		name        string
		description string
		discipline  string // "" means nil
		eventType   model.EventType
	}{
		// Discipline and event type are independent.
		{"Dressage Training Session", "", "Dressage", model.EventTypeTraining},
		{"Indoor Arena Hire", "", "", model.EventTypeVenueHire},
		{"Spring Show Jumping Championship", "", "Show Jumping", model.EventTypeCompetition},
		{"Polework Clinic", "", "", model.EventTypeTraining},
		// "training" inside a discipline name is not an event type.
		{"Combined Training", "", "Combined Training", model.EventTypeCompetition},
		{"Arena Eventing Training", "", "Arena Eventing", model.EventTypeCompetition},
		// A genuine training session in an excluded-adjacent discipline.
		{"Combined Training Clinic", "", "Combined Training", model.EventTypeTraining},
		// No pattern matched: the safe default, not an error.
		{"Midsummer Extravaganza", "", "", model.EventTypeCompetition},
		// Description contributes to discipline, never to event type.
		{"Club Night", "An evening dressage competition for all levels", "Dressage", model.EventTypeCompetition},
		{"BS National Championships", "", "Show Jumping", model.EventTypeCompetition},
		{"Summer Hunter Trial", "", "Eventing", model.EventTypeCompetition},
		{"Family Fun Show", "", "", model.EventTypeShow},
		{"Charity Open Day", "", "", model.EventTypeSocial},
		{"Le Trec Taster", "", "Le Trec", model.EventTypeCompetition},
		// Abbreviation aliases are uppercase-only: the words "be" and
		// "ode" in prose must not resolve a discipline.
		{"Clear Round Night", "All heights welcome, riders must be ready by 6pm", "", model.EventTypeCompetition},
		{"Pony Club ODE", "", "Eventing", model.EventTypeCompetition},
		// County names containing "hire" are not venue hire.
		{"Cheshire County Show", "", "", model.EventTypeCompetition},
		{"Wiltshire Dressage Series", "", "Dressage", model.EventTypeCompetition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			discipline, eventType := c.Classify(tc.name, tc.description)
			assert.Equal(t, tc.eventType, eventType)
			if tc.discipline == "" {
				assert.Nil(t, discipline)
			} else {
				require.NotNil(t, discipline)
				assert.Equal(t, tc.discipline, *discipline)
			}
		})
	}
}

// Every phrase on the training-exclusion list must classify as a
// competition, not a training session.
func TestTrainingExclusionsExhaustive(t *testing.T) {
	c := newDefault(t)
	caser := cases.Title(language.English)
	for _, phrase := range defaultTrainingExclusions {
		name := caser.String(phrase)
		_, eventType := c.Classify(name, "")
		assert.Equal(t, model.EventTypeCompetition, eventType, "phrase %q misclassified", phrase)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := newDefault(t)
	d1, e1 := c.Classify("Dressage Training Session", "weekly flatwork")
	d2, e2 := c.Classify("Dressage Training Session", "weekly flatwork")
	require.NotNil(t, d1)
	require.NotNil(t, d2)
	assert.Equal(t, *d1, *d2)
	assert.Equal(t, e1, e2)
}

func TestLongestKeywordWins(t *testing.T) {
	c := newDefault(t)
	// "arena hire" must win over the bare "hire" keyword; both map to
	// venue_hire, so prove ordering with a custom table instead.
	rules, err := NewRules(config.ClassifierConfig{
		EventTypeKeywords: []config.EventTypeKeyword{
			{Keyword: "show", EventType: "show"},
			{Keyword: "fun show", EventType: "social"},
		},
	})
	require.NoError(t, err)
	custom := New(rules)
	_, eventType := custom.Classify("Village Fun Show", "")
	assert.Equal(t, model.EventTypeSocial, eventType)

	_, eventType = c.Classify("Indoor Arena Hire", "")
	assert.Equal(t, model.EventTypeVenueHire, eventType)
}

func TestNewRulesRejectsUnknownEventType(t *testing.T) {
	_, err := NewRules(config.ClassifierConfig{
		EventTypeKeywords: []config.EventTypeKeyword{
			{Keyword: "whatever", EventType: "festival"},
		},
	})
	assert.Error(t, err)
}

func TestNewRulesRejectsBadPattern(t *testing.T) {
	_, err := NewRules(config.ClassifierConfig{
		Disciplines: []config.DisciplineAlias{{Name: "Broken", Pattern: "("}},
	})
	assert.Error(t, err)
}

func TestDerivedHelpers(t *testing.T) {
	c := newDefault(t)

	d := c.Discipline("Evening Dressage", "")
	require.NotNil(t, d)
	assert.Equal(t, "Dressage", *d)
	assert.Nil(t, c.Discipline("Quiz Night", ""))

	assert.True(t, c.IsCompetition("Spring Show Jumping Championship"))
	assert.False(t, c.IsCompetition("Polework Clinic"))

	assert.True(t, c.ShouldSkip("Indoor Arena Hire"))
	assert.False(t, c.ShouldSkip("Combined Training"))
}
