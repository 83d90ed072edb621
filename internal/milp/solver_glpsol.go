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

const glpsolPath = "glpsol"

type glpsolSolver struct {
	timeLimit time.Duration
}

// NewGlpsolSolver returns a backend that shells out to the glpsol binary of
// the GLPK distribution. A zero timeLimit lets the search run to completion.
func NewGlpsolSolver(timeLimit time.Duration) Solver {
	return &glpsolSolver{timeLimit: timeLimit}
}

func (solver *glpsolSolver) Solve(ctx context.Context, instance *Instance) (*Result, error) {
	dir, err := os.MkdirTemp("", "glpsol-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "model.lp")
	solutionPath := filepath.Join(dir, "solution.txt")
	if err := os.WriteFile(modelPath, []byte(instance.ToLP()), 0o644); err != nil {
		return nil, err
	}

	args := []string{"--lp", modelPath, "--output", solutionPath}
	if solver.timeLimit > 0 {
		args = append(args, "--tmlim", strconv.Itoa(int(solver.timeLimit.Seconds())))
	}

	cmd := exec.CommandContext(ctx, glpsolPath, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("glpsol execution failed: %v : %v", err, stderr.String())
	}

	solution, err := os.ReadFile(solutionPath)
	if err != nil {
		return nil, fmt.Errorf("glpsol produced no solution file: %v", err)
	}

	return parseGlpsolSolution(string(solution), stdout.String(), len(instance.Columns))
}

// parseGlpsolSolution reads the human-readable solution report written by
// glpsol --output, together with the search log from standard output which
// carries the infeasibility and time-limit verdicts.
func parseGlpsolSolution(solution, log string, columns int) (*Result, error) {
	result := &Result{Status: StatusUnknown}

	timedOut := strings.Contains(log, "TIME LIMIT EXCEEDED")
	switch {
	case strings.Contains(log, "HAS NO PRIMAL FEASIBLE SOLUTION"),
		strings.Contains(log, "HAS NO INTEGER FEASIBLE SOLUTION"):
		result.Status = StatusInfeasible
		return result, nil
	case strings.Contains(log, "HAS UNBOUNDED SOLUTION"),
		strings.Contains(log, "HAS NO DUAL FEASIBLE SOLUTION"):
		result.Status = StatusUnbounded
		return result, nil
	}

	lines := strings.Split(solution, "\n")
	inColumns := false
	values := make([]float64, columns)
	found := false

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(line, "Status:"):
			status := line
			switch {
			case strings.Contains(status, "NON-OPTIMAL"):
				result.Status = StatusFeasible
				found = true
			case strings.Contains(status, "OPTIMAL"):
				result.Status = StatusOptimal
				found = true
			case strings.Contains(status, "EMPTY"), strings.Contains(status, "INFEASIBLE"):
				result.Status = StatusInfeasible
			case strings.Contains(status, "UNBOUNDED"):
				result.Status = StatusUnbounded
			}
			continue
		case strings.HasPrefix(line, "Objective:"):
			if eq := strings.Index(line, "="); eq >= 0 {
				rest := strings.TrimSpace(line[eq+1:])
				if paren := strings.Index(rest, "("); paren >= 0 {
					rest = strings.TrimSpace(rest[:paren])
				}
				if v, err := strconv.ParseFloat(rest, 64); err == nil {
					result.Objective = v
				}
			}
			continue
		case strings.Contains(line, "Column name"):
			inColumns = true
			continue
		case strings.HasPrefix(line, "---"):
			continue
		}

		if !inColumns || line == "" {
			continue
		}

		fields := strings.Fields(line)
		index, err := strconv.Atoi(fields[0])
		if err != nil {
			inColumns = false // Karush-Kuhn-Tucker block or report footer
			continue
		}
		// Long column names push the activity onto the following line.
		if len(fields) < 3 {
			if i+1 >= len(lines) {
				continue
			}
			i++
			fields = append(fields, strings.Fields(lines[i])...)
		}
		activity := fields[2]
		if activity == "*" && len(fields) > 3 { // basis marker in LP reports
			activity = fields[3]
		}
		if index >= 1 && index <= columns {
			if v, err := strconv.ParseFloat(activity, 64); err == nil {
				values[index-1] = v
			}
		}
	}

	if found {
		result.Values = values
	}
	if timedOut && result.Status != StatusOptimal {
		result.Status = StatusTimedOut
	}
	if result.Status == StatusUnknown {
		return nil, fmt.Errorf("cannot interpret glpsol solution report")
	}
	return result, nil
}
