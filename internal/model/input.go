package model

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// CrewMember is one roster entry. Order is significant: availability rows
// are matched to the crew by position.
type CrewMember struct {
	ID   string
	Role string
}

// PlanInput is the complete parameter set of one planning run.
//
//   - Ships, Days: problem dimensions (N ships, D days).
//   - StintDays (T): length of a continuous working stint on one ship.
//   - RestDays (P): minimum rest after a completed stint.
//   - MaxWorkingDays: cap on total days worked by one person in the horizon.
//   - Requirements: per ship, minimum headcount per role.
//   - Availability: crew-row by day-column 0/1 matrix.
type PlanInput struct {
	Ships          int              `mapstructure:"ships"`
	Days           int              `mapstructure:"days"`
	StintDays      int              `mapstructure:"stintDays"`
	RestDays       int              `mapstructure:"restDays"`
	MaxWorkingDays int              `mapstructure:"maxWorkingDays"`
	Crew           []CrewMember     `mapstructure:"crew"`
	Requirements   []map[string]int `mapstructure:"requirements"`
	Availability   [][]int          `mapstructure:"availability"`
}

// Roles returns the role vocabulary of the input: every role held by a crew
// member or mentioned by a requirement, sorted for deterministic generation.
func (input PlanInput) Roles() []string {
	roles := lo.Map(input.Crew, func(member CrewMember, _ int) string { return member.Role })
	for _, requirement := range input.Requirements {
		roles = append(roles, lo.Keys(requirement)...)
	}
	roles = lo.Uniq(roles)
	sort.Strings(roles)
	return roles
}

// Requirement returns the minimum headcount of role on ship (0-based).
// A missing entry counts as zero.
func (input PlanInput) Requirement(ship int, role string) int {
	return input.Requirements[ship][role]
}

// Available reports whether crew member i is available on day k (0-based).
// Anything but an explicit 1 counts as unavailable.
func (input PlanInput) Available(i, k int) bool {
	if i >= len(input.Availability) || k >= len(input.Availability[i]) {
		return false
	}
	return input.Availability[i][k] == 1
}

// InputFromJSON loads a PlanInput from a JSON file.
func InputFromJSON(file string) (PlanInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return PlanInput{}, err
	}

	var inputJSON map[string]any
	if err := json.Unmarshal(bytes, &inputJSON); err != nil {
		return PlanInput{}, fmt.Errorf("cannot parse input file: %w", err)
	}

	var input PlanInput
	if err := mapstructure.Decode(inputJSON, &input); err != nil {
		return PlanInput{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return input, nil
}
