package model

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/fleetplan/fleetplan/internal/milp"
)

type stubSolver struct {
	result *milp.Result
	err    error
	calls  int
}

func (solver *stubSolver) Solve(_ context.Context, _ *milp.Instance) (*milp.Result, error) {
	solver.calls++
	return solver.result, solver.err
}

// singleShipInput: one ship, three days, one sailor required, two sailors
// on the roster. The stint spans the whole horizon, so the rest rule never
// activates and a warning is expected.
func singleShipInput() PlanInput {
	return PlanInput{
		Ships:          1,
		Days:           3,
		StintDays:      3,
		RestDays:       1,
		MaxWorkingDays: 3,
		Crew: []CrewMember{
			{ID: "ana", Role: "sailor"},
			{ID: "ben", Role: "sailor"},
		},
		Requirements: []map[string]int{{"sailor": 1}},
		Availability: [][]int{{1, 1, 1}, {1, 1, 1}},
	}
}

func TestPlannerBuild(t *testing.T) {
	planner := NewPlanner(nil)

	t.Run("builds both variable blocks and all rules", func(t *testing.T) {
		instance, diagnostics, err := planner.Build(singleShipInput(), MinimizeTotal)

		assert.Nil(t, err)
		assert.Len(t, instance.Columns, 12) // 2 persons * 1 ship * 3 days, X and Y
		assert.NotEmpty(t, instance.Rows)
		assert.Len(t, diagnostics, 1)
		assert.Equal(t, SeverityWarning, diagnostics[0].Severity)
	})

	t.Run("building is deterministic", func(t *testing.T) {
		first, _, err1 := planner.Build(singleShipInput(), MinimizeMaxLoad)
		second, _, err2 := planner.Build(singleShipInput(), MinimizeMaxLoad)

		assert.Nil(t, err1)
		assert.Nil(t, err2)
		assert.Equal(t, first, second)
	})

	t.Run("malformed input is rejected", func(t *testing.T) {
		input := singleShipInput()
		input.Days = 0

		_, _, err := planner.Build(input, MinimizeTotal)

		var validationErr *ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func TestPlannerPlan(t *testing.T) {
	t.Run("covers every day with the fewest assignments", func(t *testing.T) {
		planner := NewPlanner(milp.NewEnumSolver())

		schedule, err := planner.Plan(context.Background(), singleShipInput(), MinimizeTotal)

		assert.Nil(t, err)
		assert.True(t, schedule.Optimal())
		assert.Equal(t, 3.0, schedule.Value)
		assert.Len(t, schedule.Assignments, 3)
		days := lo.Map(schedule.Assignments, func(a Assignment, _ int) int { return a.Day })
		assert.ElementsMatch(t, []int{1, 2, 3}, days)
		assert.True(t, planner.Verify(schedule, singleShipInput()))
	})

	t.Run("infeasible demand never reaches the solver", func(t *testing.T) {
		stub := &stubSolver{}
		planner := NewPlanner(stub)
		input := singleShipInput()
		input.Requirements[0]["sailor"] = 3 // only two sailors

		schedule, err := planner.Plan(context.Background(), input, MinimizeTotal)

		assert.Nil(t, err)
		assert.Equal(t, milp.StatusInfeasible, schedule.Status)
		assert.Empty(t, schedule.Assignments)
		assert.Zero(t, stub.calls)
	})

	t.Run("unavailable days are never assigned", func(t *testing.T) {
		planner := NewPlanner(milp.NewEnumSolver())
		input := singleShipInput()
		input.Availability[0] = []int{1, 0, 1} // ana is away on day 2

		schedule, err := planner.Plan(context.Background(), input, MinimizeTotal)

		assert.Nil(t, err)
		assert.True(t, schedule.Optimal())
		for _, assignment := range schedule.Assignments {
			if assignment.Person == "ana" {
				assert.NotEqual(t, 2, assignment.Day)
			}
		}
		assert.True(t, planner.Verify(schedule, input))
	})

	t.Run("balance objective splits the load evenly", func(t *testing.T) {
		planner := NewPlanner(milp.NewEnumSolver())
		input := PlanInput{
			Ships:          1,
			Days:           4,
			StintDays:      1,
			RestDays:       1,
			MaxWorkingDays: 4,
			Crew: []CrewMember{
				{ID: "ana", Role: "sailor"},
				{ID: "ben", Role: "sailor"},
			},
			Requirements: []map[string]int{{"sailor": 1}},
			Availability: [][]int{{1, 1, 1, 1}, {1, 1, 1, 1}},
		}

		schedule, err := planner.Plan(context.Background(), input, MinimizeMaxLoad)

		assert.Nil(t, err)
		assert.True(t, schedule.Optimal())
		assert.Equal(t, 2.0, schedule.Value)
		loads := lo.CountValuesBy(schedule.Assignments, func(a Assignment) string { return a.Person })
		assert.Equal(t, map[string]int{"ana": 2, "ben": 2}, loads)
		assert.True(t, planner.Verify(schedule, input))
	})

	t.Run("timed out results keep the incumbent", func(t *testing.T) {
		stub := &stubSolver{result: &milp.Result{
			Status:    milp.StatusTimedOut,
			Objective: 3,
			Values:    []float64{1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		}}
		planner := NewPlanner(stub)

		schedule, err := planner.Plan(context.Background(), singleShipInput(), MinimizeTotal)

		assert.Nil(t, err)
		assert.Equal(t, milp.StatusTimedOut, schedule.Status)
		assert.False(t, schedule.Optimal())
		assert.Len(t, schedule.Assignments, 3)
	})

	t.Run("solver failures are wrapped", func(t *testing.T) {
		planner := NewPlanner(&stubSolver{err: errors.New("binary missing")})

		_, err := planner.Plan(context.Background(), singleShipInput(), MinimizeTotal)

		assert.ErrorContains(t, err, "solver failed")
	})
}

func TestPlannerVerify(t *testing.T) {
	planner := NewPlanner(milp.NewEnumSolver())
	input := singleShipInput()

	schedule, err := planner.Plan(context.Background(), input, MinimizeTotal)
	assert.Nil(t, err)
	assert.True(t, planner.Verify(schedule, input))

	t.Run("rejects unknown persons", func(t *testing.T) {
		tampered := *schedule
		tampered.Assignments = append([]Assignment(nil), schedule.Assignments...)
		tampered.Assignments[0].Person = "impostor"

		assert.False(t, planner.Verify(&tampered, input))
	})

	t.Run("rejects uncovered days", func(t *testing.T) {
		tampered := *schedule
		tampered.Assignments = schedule.Assignments[:2]

		assert.False(t, planner.Verify(&tampered, input))
	})

	t.Run("rejects overworked crew", func(t *testing.T) {
		capped := input
		capped.MaxWorkingDays = 1

		assert.False(t, planner.Verify(schedule, capped))
	})
}
