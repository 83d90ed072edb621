package model

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/fleetplan/fleetplan/internal/milp"
)

// Assignment is one solved person-day: person works ship on day. Ship and
// day are 1-based, matching the external parameter convention.
type Assignment struct {
	Person string
	Role   string
	Ship   int
	Day    int
}

// Schedule is the outcome of one planning run.
type Schedule struct {
	RunID       uuid.UUID
	Objective   ObjectiveMode
	Status      milp.Status
	Value       float64
	Assignments []Assignment
	Diagnostics []Diagnostic
}

// Optimal reports whether the run produced a proven optimum. Every other
// status means "no usable assignment", although timed-out runs may still
// carry the solver's last incumbent in Assignments.
func (schedule *Schedule) Optimal() bool {
	return schedule.Status == milp.StatusOptimal
}

// GridRow is one person's 0/1 day vector aboard one ship.
type GridRow struct {
	Ship   int
	Person string
	Role   string
	Days   []int
}

// Grid renders the schedule as per-ship day grids, one row per (ship,
// person) pair, the layout used by the export surface.
func (schedule *Schedule) Grid(input PlanInput) []GridRow {
	rows := make([]GridRow, 0, input.Ships*len(input.Crew))
	index := make(map[[2]any]int)

	for j := 1; j <= input.Ships; j++ {
		for _, member := range input.Crew {
			index[[2]any{j, member.ID}] = len(rows)
			rows = append(rows, GridRow{
				Ship:   j,
				Person: member.ID,
				Role:   member.Role,
				Days:   make([]int, input.Days),
			})
		}
	}

	for _, assignment := range schedule.Assignments {
		if at, ok := index[[2]any{assignment.Ship, assignment.Person}]; ok {
			rows[at].Days[assignment.Day-1] = 1
		}
	}

	return rows
}

// WriteCSV writes the grid with a header row: ship, person, role, day 1..D.
func (schedule *Schedule) WriteCSV(w io.Writer, input PlanInput) error {
	writer := csv.NewWriter(w)

	header := []string{"ship", "person", "role"}
	for k := 1; k <= input.Days; k++ {
		header = append(header, fmt.Sprintf("day %d", k))
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range schedule.Grid(input) {
		record := []string{fmt.Sprintf("ship %d", row.Ship), row.Person, row.Role}
		for _, worked := range row.Days {
			record = append(record, fmt.Sprintf("%d", worked))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
