package milp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const cbcPath = "cbc"

type cbcSolver struct {
	timeLimit time.Duration
}

// NewCbcSolver returns a backend that shells out to the COIN-OR CBC binary.
func NewCbcSolver(timeLimit time.Duration) Solver {
	return &cbcSolver{timeLimit: timeLimit}
}

func (solver *cbcSolver) Solve(ctx context.Context, instance *Instance) (*Result, error) {
	dir, err := os.MkdirTemp("", "cbc-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "model.lp")
	solutionPath := filepath.Join(dir, "solution.txt")
	if err := os.WriteFile(modelPath, []byte(instance.ToLP()), 0o644); err != nil {
		return nil, err
	}

	args := []string{modelPath}
	if solver.timeLimit > 0 {
		args = append(args, "sec", strconv.Itoa(int(solver.timeLimit.Seconds())))
	}
	args = append(args, "solve", "solution", solutionPath)

	cmd := exec.CommandContext(ctx, cbcPath, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("cbc execution failed: %v : %v", err, stderr.String())
	}

	solution, err := os.ReadFile(solutionPath)
	if err != nil {
		return nil, fmt.Errorf("cbc produced no solution file: %v", err)
	}

	return parseCbcSolution(string(solution), instance)
}

// parseCbcSolution reads a CBC solution file. The first line carries the
// verdict and objective, the remaining lines one column each:
// "index name value objective-coefficient".
func parseCbcSolution(solution string, instance *Instance) (*Result, error) {
	lines := strings.Split(solution, "\n")
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty cbc solution file")
	}

	result := &Result{Status: StatusUnknown}
	header := strings.ToLower(strings.TrimSpace(lines[0]))
	withValues := false
	switch {
	case strings.HasPrefix(header, "optimal"):
		result.Status = StatusOptimal
		withValues = true
	case strings.HasPrefix(header, "infeasible"):
		result.Status = StatusInfeasible
	case strings.HasPrefix(header, "unbounded"):
		result.Status = StatusUnbounded
	case strings.HasPrefix(header, "stopped on time"):
		result.Status = StatusTimedOut
		withValues = strings.Contains(header, "objective value")
	case strings.HasPrefix(header, "stopped"):
		result.Status = StatusTimedOut
	default:
		return nil, fmt.Errorf("cannot interpret cbc verdict: %q", lines[0])
	}

	if idx := strings.Index(header, "objective value"); idx >= 0 {
		rest := strings.Fields(header[idx+len("objective value"):])
		if len(rest) > 0 {
			if v, err := strconv.ParseFloat(rest[0], 64); err == nil {
				result.Objective = v
			}
		}
	}

	if !withValues {
		return result, nil
	}

	indexByName := make(map[string]int, len(instance.Columns))
	for c, column := range instance.Columns {
		indexByName[column.Name] = c
	}

	values := make([]float64, len(instance.Columns))
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		c, ok := indexByName[fields[1]]
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(fields[2], 64); err == nil {
			values[c] = v
		}
	}
	result.Values = values
	return result, nil
}
