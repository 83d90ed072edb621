package milp

import (
	"context"
	"fmt"
	"time"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible // a solution was found but optimality was not proven
	StatusInfeasible
	StatusUnbounded
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Result carries the solver verdict. Values is indexed by column (column c
// maps to Values[c-1]) and is nil unless the solver found at least one
// solution; StatusTimedOut may still carry the last incumbent found.
type Result struct {
	Status    Status
	Objective float64
	Values    []float64
}

type Solver interface {
	Solve(ctx context.Context, instance *Instance) (*Result, error)
}

// NewSolver returns a backend by name: "glpsol", "cbc", "glpk" or "enum".
func NewSolver(name string, timeLimit time.Duration) (Solver, error) {
	switch name {
	case "glpsol":
		return NewGlpsolSolver(timeLimit), nil
	case "cbc":
		return NewCbcSolver(timeLimit), nil
	case "glpk":
		return NewGLPKSolver(), nil
	case "enum":
		return NewEnumSolver(), nil
	default:
		return nil, fmt.Errorf("unknown solver backend: %q", name)
	}
}
