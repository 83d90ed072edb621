package milp

import (
	"fmt"
	"strings"
)

type ColumnKind int

const (
	Binary ColumnKind = iota
	Integer
	Continuous
)

type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

// Column is a decision variable of the instance. Bounds are only meaningful
// for Integer and Continuous columns; Binary columns are fixed to {0, 1}.
type Column struct {
	Name  string
	Kind  ColumnKind
	Lower float64
	Upper float64
	Obj   float64
}

// Entry is a single coefficient of a row. Col is the 1-based column index.
type Entry struct {
	Col  int
	Coef float64
}

type Row struct {
	Name    string
	Entries []Entry
	Sense   Sense
	RHS     float64
}

// Instance is a complete minimization MILP: columns, rows and the objective
// coefficients carried by the columns.
type Instance struct {
	Name    string
	Columns []Column
	Rows    []Row
}

// ToLP transforms the instance into CPLEX LP text format, understood by
// glpsol, CBC and most other MILP solvers.
func (instance *Instance) ToLP() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "\\ Problem: %s\n", instance.Name)
	builder.WriteString("Minimize\n obj:")
	wrote := false
	for c, column := range instance.Columns {
		if column.Obj == 0 {
			continue
		}
		writeTerm(&builder, column.Obj, instance.Columns[c].Name, wrote)
		wrote = true
	}
	if !wrote { // LP format requires at least one objective term
		fmt.Fprintf(&builder, " 0 %s", instance.Columns[0].Name)
	}
	builder.WriteString("\nSubject To\n")

	for _, row := range instance.Rows {
		fmt.Fprintf(&builder, " %s:", row.Name)
		for t, entry := range row.Entries {
			writeTerm(&builder, entry.Coef, instance.Columns[entry.Col-1].Name, t > 0)
		}
		fmt.Fprintf(&builder, " %s %s\n", row.Sense.lp(), trimFloat(row.RHS))
	}

	bounded := false
	for _, column := range instance.Columns {
		if column.Kind == Binary {
			continue
		}
		if !bounded {
			builder.WriteString("Bounds\n")
			bounded = true
		}
		fmt.Fprintf(&builder, " %s <= %s <= %s\n", trimFloat(column.Lower), column.Name, trimFloat(column.Upper))
	}

	section := func(kind ColumnKind, header string) {
		wroteHeader := false
		for _, column := range instance.Columns {
			if column.Kind != kind {
				continue
			}
			if !wroteHeader {
				builder.WriteString(header + "\n")
				wroteHeader = true
			}
			fmt.Fprintf(&builder, " %s\n", column.Name)
		}
	}
	section(Binary, "Binary")
	section(Integer, "General")

	builder.WriteString("End\n")
	return builder.String()
}

func (s Sense) lp() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "="
	}
}

func writeTerm(builder *strings.Builder, coef float64, name string, follows bool) {
	sign := "+"
	if coef < 0 {
		sign = "-"
		coef = -coef
	}
	if follows || sign == "-" {
		fmt.Fprintf(builder, " %s", sign)
	}
	if coef == 1 {
		fmt.Fprintf(builder, " %s", name)
	} else {
		fmt.Fprintf(builder, " %s %s", trimFloat(coef), name)
	}
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
