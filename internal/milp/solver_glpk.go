//go:build cgo

package milp

import (
	"context"
	"fmt"

	"github.com/lukpank/go-glpk/glpk"
)

type glpkSolver struct{}

// NewGLPKSolver returns an in-process backend using the GLPK C library.
// The underlying library offers no cancellation hook, so the context is
// only honored between the simplex and branch-and-cut phases.
func NewGLPKSolver() Solver {
	return &glpkSolver{}
}

func (solver *glpkSolver) Solve(ctx context.Context, instance *Instance) (*Result, error) {
	lp := glpk.New()
	defer lp.Delete()

	lp.SetProbName(instance.Name)
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	lp.AddCols(len(instance.Columns))
	for c, column := range instance.Columns {
		col := c + 1
		lp.SetColName(col, column.Name)
		switch column.Kind {
		case Binary:
			lp.SetColKind(col, glpk.VarType(glpk.BV))
		case Integer:
			lp.SetColKind(col, glpk.VarType(glpk.IV))
			lp.SetColBnds(col, glpk.BndsType(glpk.DB), column.Lower, column.Upper)
		default:
			lp.SetColBnds(col, glpk.BndsType(glpk.DB), column.Lower, column.Upper)
		}
		if column.Obj != 0 {
			lp.SetObjCoef(col, column.Obj)
		}
	}

	lp.AddRows(len(instance.Rows))
	for r, row := range instance.Rows {
		lp.SetRowName(r+1, row.Name)
		switch row.Sense {
		case LessEq:
			lp.SetRowBnds(r+1, glpk.BndsType(glpk.UP), 0, row.RHS)
		case GreaterEq:
			lp.SetRowBnds(r+1, glpk.BndsType(glpk.LO), row.RHS, 0)
		default:
			lp.SetRowBnds(r+1, glpk.BndsType(glpk.FX), row.RHS, row.RHS)
		}

		indices := make([]int32, len(row.Entries))
		coefs := make([]float64, len(row.Entries))
		for t, entry := range row.Entries {
			indices[t] = int32(entry.Col)
			coefs[t] = entry.Coef
		}
		lp.SetMatRow(r+1, indices, coefs)
	}

	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := lp.Simplex(smcp); err != nil {
		return nil, fmt.Errorf("glpk simplex failed: %w", err)
	}
	if lp.Status() == glpk.NOFEAS {
		return &Result{Status: StatusInfeasible}, nil
	}
	if lp.Status() == glpk.UNBND {
		return &Result{Status: StatusUnbounded}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iocp := glpk.NewIocp()
	iocp.SetPresolve(true)
	iocp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := lp.Intopt(iocp); err != nil {
		return nil, fmt.Errorf("glpk branch-and-cut failed: %w", err)
	}

	result := &Result{}
	switch lp.MipStatus() {
	case glpk.OPT:
		result.Status = StatusOptimal
	case glpk.FEAS:
		result.Status = StatusFeasible
	case glpk.NOFEAS:
		result.Status = StatusInfeasible
		return result, nil
	default:
		result.Status = StatusUnknown
		return result, nil
	}

	result.Objective = lp.MipObjVal()
	result.Values = make([]float64, len(instance.Columns))
	for c := range instance.Columns {
		result.Values[c] = lp.MipColVal(c + 1)
	}
	return result, nil
}
