package model

import (
	"fmt"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// ValidationError reports a structurally malformed input. It is always
// raised before any constraint is generated or any solver invoked.
type ValidationError struct {
	Field  string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", err.Field, err.Reason)
}

type Severity string

const (
	SeverityWarning    Severity = "warning"
	SeverityInfeasible Severity = "infeasible"
)

// Diagnostic is a non-fatal pre-solve finding: either a rule that can never
// apply, or a structural reason the model cannot have a solution. Infeasible
// diagnostics stop the run before the solver is called.
type Diagnostic struct {
	Rule     string
	Severity Severity
	Message  string
}

func validateInput(input PlanInput) ([]Diagnostic, error) {
	positives := []struct {
		field string
		value int
	}{
		{"ships", input.Ships},
		{"days", input.Days},
		{"stintDays", input.StintDays},
		{"restDays", input.RestDays},
		{"maxWorkingDays", input.MaxWorkingDays},
	}
	for _, p := range positives {
		if p.value < 1 {
			return nil, &ValidationError{Field: p.field, Reason: fmt.Sprintf("must be a positive integer, got %d", p.value)}
		}
	}

	if len(input.Crew) == 0 {
		return nil, &ValidationError{Field: "crew", Reason: "roster is empty"}
	}
	seen := make(map[string]bool, len(input.Crew))
	for i, member := range input.Crew {
		if member.ID == "" {
			return nil, &ValidationError{Field: "crew", Reason: fmt.Sprintf("member %d has no identifier", i+1)}
		}
		if member.Role == "" {
			return nil, &ValidationError{Field: "crew", Reason: fmt.Sprintf("member %q has no role", member.ID)}
		}
		if seen[member.ID] {
			return nil, &ValidationError{Field: "crew", Reason: fmt.Sprintf("duplicate identifier %q", member.ID)}
		}
		seen[member.ID] = true
	}

	if len(input.Availability) != len(input.Crew) {
		return nil, &ValidationError{
			Field:  "availability",
			Reason: fmt.Sprintf("expected %d rows (one per crew member), got %d", len(input.Crew), len(input.Availability)),
		}
	}
	for i, row := range input.Availability {
		if len(row) != input.Days {
			return nil, &ValidationError{
				Field:  "availability",
				Reason: fmt.Sprintf("row %d: expected %d columns, got %d", i+1, input.Days, len(row)),
			}
		}
		for k, cell := range row {
			if cell != 0 && cell != 1 {
				return nil, &ValidationError{
					Field:  "availability",
					Reason: fmt.Sprintf("row %d day %d: entry must be 0 or 1, got %d", i+1, k+1, cell),
				}
			}
		}
	}

	if len(input.Requirements) != input.Ships {
		return nil, &ValidationError{
			Field:  "requirements",
			Reason: fmt.Sprintf("expected %d entries (one per ship), got %d", input.Ships, len(input.Requirements)),
		}
	}
	crewRoles := lo.Uniq(lo.Map(input.Crew, func(member CrewMember, _ int) string { return member.Role }))
	for j, requirement := range input.Requirements {
		for _, role := range crewRoles {
			if _, ok := requirement[role]; !ok {
				return nil, &ValidationError{
					Field:  "requirements",
					Reason: fmt.Sprintf("ship %d: no entry for role %q", j+1, role),
				}
			}
		}
		for role, count := range requirement {
			if count < 0 {
				return nil, &ValidationError{
					Field:  "requirements",
					Reason: fmt.Sprintf("ship %d role %q: headcount must be non-negative, got %d", j+1, role, count),
				}
			}
		}
	}

	return diagnose(input), nil
}

// diagnose collects the non-fatal pre-solve findings: inactive rest windows,
// demanded roles held by nobody, and days whose coverage demand cannot be
// met by the available crew.
func diagnose(input PlanInput) []Diagnostic {
	var diagnostics []Diagnostic

	if input.StintDays+input.RestDays > input.Days {
		diagnostics = append(diagnostics, Diagnostic{
			Rule:     "rest",
			Severity: SeverityWarning,
			Message: fmt.Sprintf("stint (%d) plus rest (%d) exceeds the horizon (%d): the rest rule is never active",
				input.StintDays, input.RestDays, input.Days),
		})
	}

	holders := lo.CountValuesBy(input.Crew, func(member CrewMember) string { return member.Role })
	for _, role := range input.Roles() {
		demand := lo.Max(lo.Map(input.Requirements, func(requirement map[string]int, _ int) int { return requirement[role] }))
		if demand > 0 && holders[role] == 0 {
			diagnostics = append(diagnostics, Diagnostic{
				Rule:     "coverage",
				Severity: SeverityInfeasible,
				Message:  fmt.Sprintf("role %q is required but held by nobody", role),
			})
		}
	}

	for k := range input.Days {
		if covered, missing := coverable(input, k); !covered {
			diagnostics = append(diagnostics, Diagnostic{
				Rule:     "coverage",
				Severity: SeverityInfeasible,
				Message:  fmt.Sprintf("day %d: coverage demand cannot be met, %d slot(s) unfillable", k+1, missing),
			})
		}
	}

	return diagnostics
}

// slot is one required seat on a ship for a role, on the day under test.
type slot struct {
	ship int
	role string
}

// coverable checks one day's coverage demand with a maximum bipartite
// matching between required slots and available crew members. A person can
// fill at most one slot, which also honors the one-ship-per-day rule. This
// is a necessary condition only: stint and rest interactions are not seen.
func coverable(input PlanInput, day int) (bool, int) {
	var slots []any
	for j := range input.Ships {
		for role, count := range input.Requirements[j] {
			for range count {
				slots = append(slots, slot{ship: j, role: role})
			}
		}
	}
	if len(slots) == 0 {
		return true, 0
	}

	candidates := lo.FilterMap(lo.Range(len(input.Crew)), func(i int, _ int) (any, bool) {
		return i, input.Available(i, day)
	})

	neighbors := func(a, b any) (bool, error) {
		return input.Crew[b.(int)].Role == a.(slot).role, nil
	}
	graph, err := bipartitegraph.NewBipartiteGraph(slots, candidates, neighbors)
	if err != nil {
		return false, len(slots)
	}

	matching := graph.LargestMatching()
	return len(matching) == len(slots), len(slots) - len(matching)
}
