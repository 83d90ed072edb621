package model

import (
	"fmt"

	"github.com/fleetplan/fleetplan/internal/milp"
)

type ObjectiveMode int

const (
	// MinimizeTotal drives the solver toward the fewest person-days of
	// labor consistent with coverage.
	MinimizeTotal ObjectiveMode = iota
	// MinimizeMaxLoad introduces the workload bound Z and minimizes it,
	// balancing the load across the crew instead of shrinking it.
	MinimizeMaxLoad
)

func (mode ObjectiveMode) String() string {
	if mode == MinimizeMaxLoad {
		return "balance"
	}
	return "total"
}

func ParseObjectiveMode(s string) (ObjectiveMode, error) {
	switch s {
	case "total":
		return MinimizeTotal, nil
	case "balance":
		return MinimizeMaxLoad, nil
	default:
		return MinimizeTotal, fmt.Errorf("unknown objective mode: %q (want total or balance)", s)
	}
}

// SelectObjective attaches the chosen objective to a copy of the instance;
// the caller's instance is left untouched. MinimizeMaxLoad appends the Z
// column and one load row per person.
func SelectObjective(instance *milp.Instance, indexer Indexer, input PlanInput, mode ObjectiveMode) *milp.Instance {
	selected := &milp.Instance{
		Name:    instance.Name,
		Columns: append([]milp.Column(nil), instance.Columns...),
		Rows:    append([]milp.Row(nil), instance.Rows...),
	}

	switch mode {
	case MinimizeTotal:
		for i := range len(input.Crew) {
			for j := range input.Ships {
				for k := range input.Days {
					selected.Columns[indexer.Assignment(i, j, k)-1].Obj = 1
				}
			}
		}

	case MinimizeMaxLoad:
		selected.Columns = append(selected.Columns, milp.Column{
			Name:  "z",
			Kind:  milp.Integer,
			Lower: 0,
			Upper: float64(input.Days),
			Obj:   1,
		})
		z := indexer.WorkloadBound()

		for i := range len(input.Crew) {
			row := milp.Row{
				Name:  fmt.Sprintf("load_%d", i+1),
				Sense: milp.LessEq,
				RHS:   0,
			}
			for j := range input.Ships {
				for k := range input.Days {
					row.Entries = append(row.Entries, milp.Entry{Col: indexer.Assignment(i, j, k), Coef: 1})
				}
			}
			row.Entries = append(row.Entries, milp.Entry{Col: z, Coef: -1})
			selected.Rows = append(selected.Rows, row)
		}
	}

	return selected
}
