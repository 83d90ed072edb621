package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetplan/fleetplan/internal/logger"
	"github.com/fleetplan/fleetplan/internal/milp"
)

// Planner turns a PlanInput into a MILP instance and, through the injected
// solver, into a crew schedule.
type Planner interface {
	// Build validates the input and constructs the complete instance with
	// the chosen objective attached. Diagnostics are returned even when
	// they make the model infeasible by construction; a ValidationError is
	// returned for structurally malformed inputs.
	Build(input PlanInput, mode ObjectiveMode) (*milp.Instance, []Diagnostic, error)

	// Plan builds and solves. Any solver status other than optimal means
	// "no usable assignment"; timed-out results still re-present the last
	// incumbent the solver produced.
	Plan(ctx context.Context, input PlanInput, mode ObjectiveMode) (*Schedule, error)

	// Verify re-checks a schedule against coverage, one-ship-per-day,
	// availability and the total working-day cap.
	Verify(schedule *Schedule, input PlanInput) bool
}

func NewPlanner(solver milp.Solver) Planner {
	return &milpPlanner{
		solver: solver,
		log:    logger.New("planner"),
	}
}

type milpPlanner struct {
	solver milp.Solver
	log    zerolog.Logger
}

func (planner *milpPlanner) Build(input PlanInput, mode ObjectiveMode) (*milp.Instance, []Diagnostic, error) {
	diagnostics, err := validateInput(input)
	if err != nil {
		return nil, nil, err
	}

	indexer := NewIndexer(len(input.Crew), input.Ships, input.Days)

	//** Declare the variable index space: the X block, then the Y block
	columns := make([]milp.Column, 0, indexer.Columns())
	appendBlock := func(prefix string) {
		for i := range len(input.Crew) {
			for j := range input.Ships {
				for k := range input.Days {
					columns = append(columns, milp.Column{
						Name: fmt.Sprintf("%s_%d_%d_%d", prefix, i+1, j+1, k+1),
						Kind: milp.Binary,
					})
				}
			}
		}
	}
	appendBlock("x")
	appendBlock("y")

	//** Instantiate the rule families
	builder := newRuleBuilder(input, indexer)
	base := &milp.Instance{
		Name:    "fleetplan",
		Columns: columns,
		Rows:    collectRows(builder.families()),
	}

	return SelectObjective(base, indexer, input, mode), diagnostics, nil
}

func (planner *milpPlanner) Plan(ctx context.Context, input PlanInput, mode ObjectiveMode) (*Schedule, error) {
	runID := uuid.New()

	instance, diagnostics, err := planner.Build(input, mode)
	if err != nil {
		return nil, err
	}

	schedule := &Schedule{RunID: runID, Objective: mode, Diagnostics: diagnostics}
	for _, diagnostic := range diagnostics {
		planner.log.Warn().
			Str("run", runID.String()).
			Str("rule", diagnostic.Rule).
			Str("severity", string(diagnostic.Severity)).
			Msg(diagnostic.Message)
		if diagnostic.Severity == SeverityInfeasible {
			schedule.Status = milp.StatusInfeasible
		}
	}
	if schedule.Status == milp.StatusInfeasible {
		// Infeasible by construction: do not hand the instance to the solver.
		return schedule, nil
	}

	planner.log.Info().
		Str("run", runID.String()).
		Int("columns", len(instance.Columns)).
		Int("rows", len(instance.Rows)).
		Str("objective", mode.String()).
		Msg("instance built")

	result, err := planner.solver.Solve(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("solver failed: %w", err)
	}

	schedule.Status = result.Status
	schedule.Value = result.Objective
	if result.Values != nil {
		schedule.Assignments = planner.assignments(input, result.Values)
	}

	planner.log.Info().
		Str("run", runID.String()).
		Str("status", result.Status.String()).
		Float64("value", result.Objective).
		Int("assignments", len(schedule.Assignments)).
		Msg("solve finished")

	return schedule, nil
}

func (planner *milpPlanner) assignments(input PlanInput, values []float64) []Assignment {
	indexer := NewIndexer(len(input.Crew), input.Ships, input.Days)

	var assignments []Assignment
	block := indexer.Columns() / 2 // X block only; stint markers are auxiliary
	for col := 1; col <= block && col <= len(values); col++ {
		if values[col-1] < 0.5 {
			continue
		}
		i, j, k, _ := indexer.Attributes(col)
		assignments = append(assignments, Assignment{
			Person: input.Crew[i].ID,
			Role:   input.Crew[i].Role,
			Ship:   j + 1,
			Day:    k + 1,
		})
	}
	return assignments
}

func (planner *milpPlanner) Verify(schedule *Schedule, input PlanInput) bool {
	crewIndex := make(map[string]int, len(input.Crew))
	for i, member := range input.Crew {
		crewIndex[member.ID] = i
	}

	workedDays := make(map[int]int)             // person -> total days
	shipOfDay := make(map[[2]int]int)           // (person, day) -> ship
	coverage := make(map[[2]int]map[string]int) // (ship, day) -> count per role

	for _, assignment := range schedule.Assignments {
		i, ok := crewIndex[assignment.Person]
		if !ok || assignment.Ship < 1 || assignment.Ship > input.Ships || assignment.Day < 1 || assignment.Day > input.Days {
			return false
		}
		if !input.Available(i, assignment.Day-1) {
			return false
		}
		if ship, taken := shipOfDay[[2]int{i, assignment.Day}]; taken && ship != assignment.Ship {
			return false
		}
		shipOfDay[[2]int{i, assignment.Day}] = assignment.Ship
		workedDays[i]++

		key := [2]int{assignment.Ship, assignment.Day}
		if coverage[key] == nil {
			coverage[key] = make(map[string]int)
		}
		coverage[key][input.Crew[i].Role]++
	}

	for _, days := range workedDays {
		if days > input.MaxWorkingDays {
			return false
		}
	}

	for j := range input.Ships {
		for k := range input.Days {
			counts := coverage[[2]int{j + 1, k + 1}]
			for role, required := range input.Requirements[j] {
				if counts[role] < required {
					return false
				}
			}
		}
	}

	return true
}

// collectRows evaluates the rule families concurrently; each family writes
// its own slot so the aggregate row order stays deterministic.
func collectRows(families []func() []milp.Row) []milp.Row {
	batches := make([][]milp.Row, len(families))

	var wg sync.WaitGroup
	for f, family := range families {
		wg.Add(1)
		go func(f int, family func() []milp.Row) {
			defer wg.Done()
			batches[f] = family()
		}(f, family)
	}
	wg.Wait()

	var rows []milp.Row
	for _, batch := range batches {
		rows = append(rows, batch...)
	}
	return rows
}
