// Package classify maps free-text event names and descriptions to a
// discipline and an event type. Classification is a pure function of its
// inputs and the rule table; a miss is a valid outcome (nil discipline,
// competition), never an error, so one unclassifiable record can never abort
// a producer batch.
package classify

import (
	"strings"

	"EquiSync/internal/model"
)

type Classifier struct {
	rules *Rules
}

func New(rules *Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify resolves the event type from the name and the discipline from
// name+description. The two are independent: "Dressage Training Session" is
// (Dressage, training).
func (c *Classifier) Classify(name, description string) (*string, model.EventType) {
	return c.discipline(name, description), c.eventType(name)
}

func (c *Classifier) eventType(name string) model.EventType {
	lower := strings.ToLower(name)
	for _, rule := range c.rules.eventTypes {
		if !strings.Contains(lower, rule.keyword) {
			continue
		}
		// "training" inside a compound discipline name ("Combined
		// Training") is not an event type; fall through to the next
		// candidate.
		if rule.keyword == "training" && c.isTrainingExcluded(lower) {
			continue
		}
		return rule.eventType
	}
	return model.EventTypeCompetition
}

func (c *Classifier) isTrainingExcluded(lowerName string) bool {
	for _, re := range c.rules.trainingExclusions {
		if re.MatchString(lowerName) {
			return true
		}
	}
	return false
}

func (c *Classifier) discipline(name, description string) *string {
	// Patterns are case-insensitive by default; the text keeps its case so
	// uppercase-only abbreviation aliases can tell "BE" from "be".
	text := name + " " + description
	for _, rule := range c.rules.disciplines {
		if rule.pattern.MatchString(text) {
			d := rule.name
			return &d
		}
	}
	return nil
}

// Discipline is the discipline-only lookup.
func (c *Classifier) Discipline(name, description string) *string {
	return c.discipline(name, description)
}

// IsCompetition reports whether the name classifies as a competition.
func (c *Classifier) IsCompetition(name string) bool {
	return c.eventType(name) == model.EventTypeCompetition
}

// ShouldSkip reports whether a listing would be hidden by a
// competitions-only view.
func (c *Classifier) ShouldSkip(name string) bool {
	return !c.IsCompetition(name)
}
