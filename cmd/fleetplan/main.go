package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/fleetplan/fleetplan/internal/config"
	"github.com/fleetplan/fleetplan/internal/logger"
	"github.com/fleetplan/fleetplan/internal/milp"
	"github.com/fleetplan/fleetplan/internal/model"
	"github.com/fleetplan/fleetplan/pkg/stats"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fleetplan",
		Short:         "Crew-to-ship planning over a multi-day horizon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSolveCmd(), newValidateCmd())
	return root
}

func newSolveCmd() *cobra.Command {
	var (
		configPath string
		inputPath  string
		backend    string
		objective  string
		timeLimit  int
		csvPath    string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Build the assignment model and solve it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("solver") {
				cfg.Solver.Backend = backend
			}
			if cmd.Flags().Changed("objective") {
				cfg.Objective = objective
			}
			if cmd.Flags().Changed("time-limit") {
				cfg.Solver.TimeLimitSeconds = timeLimit
			}
			logger.Init(cfg.Logging)

			input, err := model.InputFromJSON(inputPath)
			if err != nil {
				return err
			}
			mode, err := model.ParseObjectiveMode(cfg.Objective)
			if err != nil {
				return err
			}
			solver, err := milp.NewSolver(cfg.Solver.Backend, time.Duration(cfg.Solver.TimeLimitSeconds)*time.Second)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			planner := model.NewPlanner(solver)
			schedule, err := planner.Plan(ctx, input, mode)
			if err != nil {
				return err
			}

			report(schedule, input)

			if csvPath != "" && len(schedule.Assignments) > 0 {
				f, err := os.Create(csvPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := schedule.WriteCSV(f, input); err != nil {
					return err
				}
				fmt.Printf("grid written to %s\n", csvPath)
			}

			if !schedule.Optimal() {
				return fmt.Errorf("no optimal solution found (%s)", schedule.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "configuration file (json or yaml)")
	cmd.Flags().StringVar(&inputPath, "input", "", "planning input file (json)")
	cmd.Flags().StringVar(&backend, "solver", "glpsol", "solver backend: glpsol, cbc, glpk or enum")
	cmd.Flags().StringVar(&objective, "objective", "total", "objective mode: total or balance")
	cmd.Flags().IntVar(&timeLimit, "time-limit", 60, "solver time limit in seconds, 0 for none")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the per-ship day grid to this file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a planning input without solving",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := model.InputFromJSON(inputPath)
			if err != nil {
				return err
			}

			_, diagnostics, err := model.NewPlanner(nil).Build(input, model.MinimizeTotal)
			if err != nil {
				return err
			}

			if len(diagnostics) == 0 {
				fmt.Println("input is valid")
				return nil
			}
			for _, diagnostic := range diagnostics {
				fmt.Printf("[%s] %s: %s\n", diagnostic.Severity, diagnostic.Rule, diagnostic.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "planning input file (json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func report(schedule *model.Schedule, input model.PlanInput) {
	for _, diagnostic := range schedule.Diagnostics {
		fmt.Printf("[%s] %s: %s\n", diagnostic.Severity, diagnostic.Rule, diagnostic.Message)
	}

	if len(schedule.Assignments) == 0 {
		fmt.Printf("status: %s, no assignments\n", schedule.Status)
		return
	}

	fmt.Printf("status: %s, objective value: %g\n", schedule.Status, schedule.Value)
	for _, assignment := range schedule.Assignments {
		fmt.Printf("person %s (role: %s) assigned to ship %d on day %d\n",
			assignment.Person, assignment.Role, assignment.Ship, assignment.Day)
	}

	roster := lo.Map(input.Crew, func(member model.CrewMember, _ int) string { return member.ID })
	workload := stats.Workload(lo.Map(schedule.Assignments, func(assignment model.Assignment, _ int) stats.AssignmentInfo {
		return stats.AssignmentInfo{Person: assignment.Person, Day: assignment.Day}
	}), roster)
	fmt.Printf("workload: mean %.2f, stddev %.2f, spread %d\n", workload.Mean, workload.StdDev, workload.Spread)
}
