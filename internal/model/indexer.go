package model

// Indexer gives a unique 1-based MILP column index to every decision
// variable of the plan and vice versa. Assignment variables X(i,j,k) occupy
// the first block, stint markers Y(i,j,k) the second; the workload bound Z,
// when the balancing objective is selected, takes the single column after
// both blocks. Person, ship and day arguments are 0-based.
type Indexer interface {
	Assignment(person, ship, day int) int
	StintStart(person, ship, day int) int
	WorkloadBound() int
	// Attributes reverses Assignment/StintStart for columns inside the two
	// blocks; stint reports which block the column belongs to.
	Attributes(column int) (person, ship, day int, stint bool)
	// Columns is the size of the X and Y blocks combined, without Z.
	Columns() int
}

func NewIndexer(persons, ships, days int) Indexer {
	return &blockIndexer{persons: persons, ships: ships, days: days}
}

type blockIndexer struct {
	persons int
	ships   int
	days    int
}

func (ix *blockIndexer) Assignment(person, ship, day int) int {
	return person*ix.ships*ix.days + ship*ix.days + day + 1
}

func (ix *blockIndexer) StintStart(person, ship, day int) int {
	return ix.blockSize() + ix.Assignment(person, ship, day)
}

func (ix *blockIndexer) WorkloadBound() int {
	return 2*ix.blockSize() + 1
}

func (ix *blockIndexer) Attributes(column int) (person, ship, day int, stint bool) {
	index := column - 1
	if index >= ix.blockSize() {
		stint = true
		index -= ix.blockSize()
	}

	day = index % ix.days
	index = index / ix.days

	ship = index % ix.ships
	index = index / ix.ships

	person = index

	return person, ship, day, stint
}

func (ix *blockIndexer) Columns() int {
	return 2 * ix.blockSize()
}

func (ix *blockIndexer) blockSize() int {
	return ix.persons * ix.ships * ix.days
}
