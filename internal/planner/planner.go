// Package planner maps free-text goal descriptions to a fixed taxonomy of
// financial-goal archetypes, each carrying a canned six-step action plan.
//
// Classification is ordered case-insensitive substring matching over an
// embedded table: the first archetype with a matching keyword wins, and the
// final archetype has no keywords so every input classifies. The table is
// data, not code, so the mapping stays auditable.
package planner

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"finbook/internal/core"
)

//go:embed archetypes.yaml
var archetypesYAML []byte

// PlanSteps is the fixed length of every archetype's action plan.
const PlanSteps = 6

type (
	// Archetype is one row of the classification table.
	Archetype struct {
		Name      string          `yaml:"name"`
		Keywords  []string        `yaml:"keywords"`
		Timeframe string          `yaml:"timeframe"`
		Steps     []core.PlanStep `yaml:"steps"`
	}

	// Plan is the result of classifying a goal: a coarse timeframe bucket
	// and an ordered six-step action plan.
	Plan struct {
		Archetype string          `json:"archetype"`
		Timeframe string          `json:"timeframe"`
		Steps     []core.PlanStep `json:"steps"`
	}
)

var archetypes = mustLoad()

func mustLoad() []Archetype {
	var doc struct {
		Archetypes []Archetype `yaml:"archetypes"`
	}
	if err := yaml.Unmarshal(archetypesYAML, &doc); err != nil {
		panic(fmt.Sprintf("planner: parse archetypes table: %v", err))
	}
	if err := validate(doc.Archetypes); err != nil {
		panic(fmt.Sprintf("planner: invalid archetypes table: %v", err))
	}
	return doc.Archetypes
}

func validate(list []Archetype) error {
	if len(list) == 0 {
		return fmt.Errorf("empty table")
	}
	last := list[len(list)-1]
	if len(last.Keywords) != 0 {
		return fmt.Errorf("final archetype %q must be the catch-all", last.Name)
	}
	for _, a := range list {
		if len(a.Steps) != PlanSteps {
			return fmt.Errorf("archetype %q has %d steps, want %d", a.Name, len(a.Steps), PlanSteps)
		}
		if a.Timeframe == "" {
			return fmt.Errorf("archetype %q has no timeframe", a.Name)
		}
		for i, s := range a.Steps {
			if s.Step != i+1 {
				return fmt.Errorf("archetype %q step %d is numbered %d", a.Name, i+1, s.Step)
			}
		}
	}
	return nil
}

// Classify maps goal text to its archetype's plan. It is a pure function of
// the lowercased input, evaluated once at goal creation and never revisited;
// the catch-all guarantees a match for any input.
func Classify(text string) Plan {
	lower := strings.ToLower(text)
	for _, a := range archetypes {
		for _, kw := range a.Keywords {
			if strings.Contains(lower, kw) {
				return plan(a)
			}
		}
	}
	return plan(archetypes[len(archetypes)-1])
}

func plan(a Archetype) Plan {
	steps := make([]core.PlanStep, len(a.Steps))
	copy(steps, a.Steps)
	return Plan{Archetype: a.Name, Timeframe: a.Timeframe, Steps: steps}
}

// Archetypes returns a copy of the table, in matching-priority order.
func Archetypes() []Archetype {
	out := make([]Archetype, len(archetypes))
	copy(out, archetypes)
	return out
}
