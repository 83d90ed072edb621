package milp

import (
	"context"
	"fmt"
	"math"
)

// enumSearchLimit caps the number of candidate assignments the exhaustive
// backend is willing to visit.
const enumSearchLimit = 1 << 24

type enumSolver struct{}

// NewEnumSolver returns a reference backend that exhaustively enumerates the
// bounded search space and keeps the best feasible point. It is only suitable
// for small instances and exists so that models can be solved (and tested)
// without any external solver installed. Continuous columns are explored on
// the integer grid of their bounds, which is exact for counting variables.
func NewEnumSolver() Solver {
	return &enumSolver{}
}

func (solver *enumSolver) Solve(ctx context.Context, instance *Instance) (*Result, error) {
	lower := make([]int, len(instance.Columns))
	upper := make([]int, len(instance.Columns))
	space := 1.0
	for c, column := range instance.Columns {
		if column.Kind == Binary {
			lower[c], upper[c] = 0, 1
		} else {
			lower[c], upper[c] = int(math.Ceil(column.Lower)), int(math.Floor(column.Upper))
			if lower[c] > upper[c] {
				return &Result{Status: StatusInfeasible}, nil
			}
		}
		space *= float64(upper[c] - lower[c] + 1)
		if space > enumSearchLimit {
			return nil, fmt.Errorf("instance too large for exhaustive enumeration: %d columns", len(instance.Columns))
		}
	}

	point := make([]int, len(instance.Columns))
	copy(point, lower)

	best := &Result{Status: StatusInfeasible}
	visited := 0
	for {
		if visited++; visited%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if feasible(instance, point) {
			objective := 0.0
			for c, column := range instance.Columns {
				objective += column.Obj * float64(point[c])
			}
			if best.Values == nil || objective < best.Objective {
				values := make([]float64, len(point))
				for c, v := range point {
					values[c] = float64(v)
				}
				best = &Result{Status: StatusOptimal, Objective: objective, Values: values}
			}
		}

		// Advance the odometer
		c := len(point) - 1
		for c >= 0 {
			if point[c] < upper[c] {
				point[c]++
				break
			}
			point[c] = lower[c]
			c--
		}
		if c < 0 {
			return best, nil
		}
	}
}

func feasible(instance *Instance, point []int) bool {
	for _, row := range instance.Rows {
		activity := 0.0
		for _, entry := range row.Entries {
			activity += entry.Coef * float64(point[entry.Col-1])
		}
		switch row.Sense {
		case LessEq:
			if activity > row.RHS+1e-9 {
				return false
			}
		case GreaterEq:
			if activity < row.RHS-1e-9 {
				return false
			}
		default:
			if math.Abs(activity-row.RHS) > 1e-9 {
				return false
			}
		}
	}
	return true
}
