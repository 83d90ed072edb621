//go:build !cgo

package milp

import (
	"context"
	"errors"
)

type glpkSolver struct{}

// NewGLPKSolver returns an in-process backend using the GLPK C library.
// This build was compiled without cgo, so the backend is unavailable and
// Solve always fails.
func NewGLPKSolver() Solver {
	return &glpkSolver{}
}

func (solver *glpkSolver) Solve(ctx context.Context, instance *Instance) (*Result, error) {
	return nil, errors.New("glpk backend unavailable: binary built without cgo")
}
