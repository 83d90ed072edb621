package model

import (
	"fmt"

	"github.com/fleetplan/fleetplan/internal/milp"
)

// ruleBuilder instantiates the constraint families against the variable
// index space. Every family is a pure function of the immutable input, so
// families are generated concurrently and collected in a fixed order.
type ruleBuilder struct {
	input   PlanInput
	indexer Indexer
	roles   []string
}

func newRuleBuilder(input PlanInput, indexer Indexer) *ruleBuilder {
	return &ruleBuilder{
		input:   input,
		indexer: indexer,
		roles:   input.Roles(),
	}
}

func (builder *ruleBuilder) families() []func() []milp.Row {
	return []func() []milp.Row{
		builder.coverageRows,
		builder.singleShipRows,
		builder.availabilityRows,
		builder.workingDayCapRows,
		builder.stintLinkRows,
		builder.restRows,
	}
}

// coverageRows: for every (ship, role, day) the persons holding the role
// aboard that ship must reach the required headcount. A demanded role with
// no holders cannot be expressed as a row; it is caught beforehand as an
// infeasible diagnostic.
func (builder *ruleBuilder) coverageRows() []milp.Row {
	var rows []milp.Row
	for j := range builder.input.Ships {
		for r, role := range builder.roles {
			holders := builder.holders(role)
			if len(holders) == 0 {
				continue
			}
			for k := range builder.input.Days {
				row := milp.Row{
					Name:  fmt.Sprintf("cover_%d_%d_%d", j+1, r+1, k+1),
					Sense: milp.GreaterEq,
					RHS:   float64(builder.input.Requirement(j, role)),
				}
				for _, i := range holders {
					row.Entries = append(row.Entries, milp.Entry{Col: builder.indexer.Assignment(i, j, k), Coef: 1})
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// singleShipRows: a person works at most one ship per day.
func (builder *ruleBuilder) singleShipRows() []milp.Row {
	var rows []milp.Row
	for i := range len(builder.input.Crew) {
		for k := range builder.input.Days {
			row := milp.Row{
				Name:  fmt.Sprintf("oneship_%d_%d", i+1, k+1),
				Sense: milp.LessEq,
				RHS:   1,
			}
			for j := range builder.input.Ships {
				row.Entries = append(row.Entries, milp.Entry{Col: builder.indexer.Assignment(i, j, k), Coef: 1})
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// availabilityRows: X(i,j,k) <= A(i,k). Missing matrix entries count as
// unavailable.
func (builder *ruleBuilder) availabilityRows() []milp.Row {
	var rows []milp.Row
	for i := range len(builder.input.Crew) {
		for j := range builder.input.Ships {
			for k := range builder.input.Days {
				available := 0.0
				if builder.input.Available(i, k) {
					available = 1.0
				}
				rows = append(rows, milp.Row{
					Name:    fmt.Sprintf("avail_%d_%d_%d", i+1, j+1, k+1),
					Sense:   milp.LessEq,
					RHS:     available,
					Entries: []milp.Entry{{Col: builder.indexer.Assignment(i, j, k), Coef: 1}},
				})
			}
		}
	}
	return rows
}

// workingDayCapRows caps the total days one person works in the horizon.
// This is deliberately the literal cap on the total, not on consecutive
// runs; see DESIGN.md.
func (builder *ruleBuilder) workingDayCapRows() []milp.Row {
	var rows []milp.Row
	for i := range len(builder.input.Crew) {
		row := milp.Row{
			Name:  fmt.Sprintf("maxdays_%d", i+1),
			Sense: milp.LessEq,
			RHS:   float64(builder.input.MaxWorkingDays),
		}
		for j := range builder.input.Ships {
			for k := range builder.input.Days {
				row.Entries = append(row.Entries, milp.Entry{Col: builder.indexer.Assignment(i, j, k), Coef: 1})
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// stintLinkRows tie the stint marker Y(i,j,k) to the assignments: with
// Y(i,j,k)=1, working any other ship during the T days after k is limited
// to X(i,j,k), forcing the marker down whenever the person rotates away.
//
//	sum X(i,j',t), j' != j, t in (k, k+T]  <=  T*(1 - Y(i,j,k)) + X(i,j,k)
func (builder *ruleBuilder) stintLinkRows() []milp.Row {
	T := builder.input.StintDays
	var rows []milp.Row
	for i := range len(builder.input.Crew) {
		for j := range builder.input.Ships {
			for _, k := range builder.stintWindow() {
				row := milp.Row{
					Name:  fmt.Sprintf("stint_%d_%d_%d", i+1, j+1, k+1),
					Sense: milp.LessEq,
					RHS:   float64(T),
				}
				for jp := range builder.input.Ships {
					if jp == j {
						continue
					}
					for t := k + 1; t <= k+T; t++ {
						row.Entries = append(row.Entries, milp.Entry{Col: builder.indexer.Assignment(i, jp, t), Coef: 1})
					}
				}
				row.Entries = append(row.Entries,
					milp.Entry{Col: builder.indexer.StintStart(i, j, k), Coef: float64(T)},
					milp.Entry{Col: builder.indexer.Assignment(i, j, k), Coef: -1},
				)
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// restRows drive the P rest days following a completed stint to zero:
//
//	sum X(i,j,t), t in [k+T, k+T+P-1]  <=  P*(1 - Y(i,j,k))
func (builder *ruleBuilder) restRows() []milp.Row {
	T, P := builder.input.StintDays, builder.input.RestDays
	var rows []milp.Row
	for i := range len(builder.input.Crew) {
		for j := range builder.input.Ships {
			for _, k := range builder.restWindow() {
				row := milp.Row{
					Name:  fmt.Sprintf("rest_%d_%d_%d", i+1, j+1, k+1),
					Sense: milp.LessEq,
					RHS:   float64(P),
				}
				for t := k + T; t <= k+T+P-1; t++ {
					row.Entries = append(row.Entries, milp.Entry{Col: builder.indexer.Assignment(i, j, t), Coef: 1})
				}
				row.Entries = append(row.Entries, milp.Entry{Col: builder.indexer.StintStart(i, j, k), Coef: float64(P)})
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// stintWindow is the valid index set of the stint-linkage family: days k
// (0-based) whose full T-day lookahead fits inside the horizon. The family
// is simply not generated outside it.
func (builder *ruleBuilder) stintWindow() []int {
	return dayWindow(builder.input.Days - builder.input.StintDays)
}

// restWindow is the valid index set of the rest family: days k whose stint
// and trailing rest window both fit inside the horizon.
func (builder *ruleBuilder) restWindow() []int {
	return dayWindow(builder.input.Days - builder.input.StintDays - builder.input.RestDays)
}

func dayWindow(limit int) []int {
	if limit <= 0 {
		return nil
	}
	window := make([]int, limit)
	for k := range limit {
		window[k] = k
	}
	return window
}

func (builder *ruleBuilder) holders(role string) []int {
	var holders []int
	for i, member := range builder.input.Crew {
		if member.Role == role {
			holders = append(holders, i)
		}
	}
	return holders
}
