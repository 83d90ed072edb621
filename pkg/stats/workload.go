// Package stats summarizes how evenly a solved schedule spreads work
// across the crew.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// AssignmentInfo is the slice of a schedule this package needs: one
// person-day of work.
type AssignmentInfo struct {
	Person string
	Day    int
}

// PersonLoad is the total days worked by one person over the horizon.
type PersonLoad struct {
	Person string
	Days   int
}

// WorkloadReport describes the workload distribution of one schedule.
// Persons with zero assigned days still count toward the distribution.
type WorkloadReport struct {
	PerPerson []PersonLoad
	Mean      float64
	Variance  float64
	StdDev    float64
	Min       int
	Max       int
	Spread    int // Max - Min
}

// Workload computes the distribution over every person in the roster.
func Workload(assignments []AssignmentInfo, roster []string) *WorkloadReport {
	report := &WorkloadReport{}
	if len(roster) == 0 {
		return report
	}

	days := make(map[string]int, len(roster))
	for _, assignment := range assignments {
		days[assignment.Person]++
	}

	loads := make([]float64, len(roster))
	report.PerPerson = make([]PersonLoad, len(roster))
	for p, person := range roster {
		report.PerPerson[p] = PersonLoad{Person: person, Days: days[person]}
		loads[p] = float64(days[person])
	}
	sort.Slice(report.PerPerson, func(a, b int) bool {
		return report.PerPerson[a].Person < report.PerPerson[b].Person
	})

	report.Mean = stat.Mean(loads, nil)
	report.Variance = stat.Variance(loads, nil)
	report.StdDev = stat.StdDev(loads, nil)

	report.Min, report.Max = days[roster[0]], days[roster[0]]
	for _, person := range roster {
		if days[person] < report.Min {
			report.Min = days[person]
		}
		if days[person] > report.Max {
			report.Max = days[person]
		}
	}
	report.Spread = report.Max - report.Min

	return report
}
