package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetplan/fleetplan/internal/milp"
)

// ruleInput exercises every family: two ships force the rotation term of
// the stint rule, and the 4-day horizon leaves both the stint and rest
// windows non-empty.
func ruleInput() PlanInput {
	return PlanInput{
		Ships:          2,
		Days:           4,
		StintDays:      2,
		RestDays:       1,
		MaxWorkingDays: 4,
		Crew: []CrewMember{
			{ID: "ana", Role: "cook"},
			{ID: "ben", Role: "pilot"},
		},
		Requirements: []map[string]int{
			{"cook": 1, "pilot": 1},
			{"cook": 0, "pilot": 0},
		},
		Availability: [][]int{{1, 1, 1, 1}, {1, 1, 1, 1}},
	}
}

func TestRuleFamilies(t *testing.T) {
	input := ruleInput()
	builder := newRuleBuilder(input, NewIndexer(len(input.Crew), input.Ships, input.Days))

	t.Run("family sizes", func(t *testing.T) {
		// coverage: ships*roles*days, one-ship and availability per
		// person-day, one cap per person, stint and rest per window day.
		sizes := []struct {
			family func() []milp.Row
			rows   int
		}{
			{builder.coverageRows, 16},
			{builder.singleShipRows, 8},
			{builder.availabilityRows, 16},
			{builder.workingDayCapRows, 2},
			{builder.stintLinkRows, 8},
			{builder.restRows, 4},
		}
		for _, s := range sizes {
			assert.Len(t, s.family(), s.rows)
		}
	})

	t.Run("coverage row demands the headcount from holders only", func(t *testing.T) {
		rows := builder.coverageRows()
		row := rows[0] // ship 1, cook, day 1

		assert.Equal(t, "cover_1_1_1", row.Name)
		assert.Equal(t, milp.GreaterEq, row.Sense)
		assert.Equal(t, 1.0, row.RHS)
		assert.Equal(t, []milp.Entry{{Col: builder.indexer.Assignment(0, 0, 0), Coef: 1}}, row.Entries)
	})

	t.Run("stint row couples the marker with rotation", func(t *testing.T) {
		row := builder.stintLinkRows()[0] // person 1, ship 1, day 1

		assert.Equal(t, "stint_1_1_1", row.Name)
		assert.Equal(t, milp.LessEq, row.Sense)
		assert.Equal(t, 2.0, row.RHS)
		assert.Equal(t, []milp.Entry{
			{Col: builder.indexer.Assignment(0, 1, 1), Coef: 1},
			{Col: builder.indexer.Assignment(0, 1, 2), Coef: 1},
			{Col: builder.indexer.StintStart(0, 0, 0), Coef: 2},
			{Col: builder.indexer.Assignment(0, 0, 0), Coef: -1},
		}, row.Entries)
	})

	t.Run("rest row blocks the window after a stint", func(t *testing.T) {
		row := builder.restRows()[0] // person 1, ship 1, day 1

		assert.Equal(t, "rest_1_1_1", row.Name)
		assert.Equal(t, milp.LessEq, row.Sense)
		assert.Equal(t, 1.0, row.RHS)
		assert.Equal(t, []milp.Entry{
			{Col: builder.indexer.Assignment(0, 0, 2), Coef: 1},
			{Col: builder.indexer.StintStart(0, 0, 0), Coef: 1},
		}, row.Entries)
	})

	t.Run("roles with no holders yield no coverage row", func(t *testing.T) {
		input := ruleInput()
		input.Requirements[0]["mechanic"] = 1

		orphaned := newRuleBuilder(input, NewIndexer(len(input.Crew), input.Ships, input.Days))

		// Only the cook and pilot rows remain; the mechanic demand is
		// reported as a diagnostic before rules are built.
		assert.Len(t, orphaned.coverageRows(), 16)
	})
}

func TestDayWindows(t *testing.T) {
	t.Run("windows shrink with the horizon", func(t *testing.T) {
		input := ruleInput()
		builder := newRuleBuilder(input, NewIndexer(len(input.Crew), input.Ships, input.Days))

		assert.Equal(t, []int{0, 1}, builder.stintWindow())
		assert.Equal(t, []int{0}, builder.restWindow())
	})

	t.Run("oversized stint empties both windows", func(t *testing.T) {
		input := ruleInput()
		input.StintDays = 4
		builder := newRuleBuilder(input, NewIndexer(len(input.Crew), input.Ships, input.Days))

		assert.Empty(t, builder.stintWindow())
		assert.Empty(t, builder.restWindow())
		assert.Empty(t, builder.stintLinkRows())
		assert.Empty(t, builder.restRows())
	})
}
