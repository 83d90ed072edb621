package milp

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// GenerateInstance builds a random binary minimization instance used by the
// solver tests: every column enters the objective with coefficient 1 and each
// row caps a random subset of columns.
func GenerateInstance(columns, rows int) *Instance {
	instance := &Instance{
		Name:    "random",
		Columns: make([]Column, columns),
		Rows:    make([]Row, rows),
	}

	for c := range columns {
		instance.Columns[c] = Column{Name: fmt.Sprintf("x_%d", c+1), Kind: Binary, Obj: 1}
	}

	for r := range rows {
		row := Row{Name: fmt.Sprintf("r_%d", r+1), Sense: LessEq}
		for c := range columns {
			if rand.Float32() < 0.5 {
				row.Entries = append(row.Entries, Entry{Col: c + 1, Coef: 1})
			}
		}
		if len(row.Entries) == 0 {
			row.Entries = append(row.Entries, Entry{Col: 1 + rand.IntN(columns), Coef: 1})
		}
		row.RHS = float64(rand.IntN(len(row.Entries) + 1))
		instance.Rows[r] = row
	}

	return instance
}

// AssertSolution reports whether values satisfy every row of the instance.
func AssertSolution(instance *Instance, values []float64) bool {
	if len(values) != len(instance.Columns) {
		return false
	}
	for _, row := range instance.Rows {
		activity := 0.0
		for _, entry := range row.Entries {
			activity += entry.Coef * values[entry.Col-1]
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
