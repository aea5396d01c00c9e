package tabular

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// QTable holds the action values of each visited State. Rows are
// created, as zero vectors, the first time a State is accessed and are
// never removed.
type QTable struct {
	rows    map[State][]float64
	actions int
}

// NewQTable returns a new, empty QTable over the given number of
// actions
func NewQTable(actions int) *QTable {
	if actions < 1 {
		panic(fmt.Sprintf("newQTable: actions must be >= 1, have %v",
			actions))
	}
	return &QTable{rows: make(map[State][]float64), actions: actions}
}

// Row returns the action values of s. The returned slice aliases the
// table.
func (q *QTable) Row(s State) []float64 {
	row, ok := q.rows[s]
	if !ok {
		row = make([]float64, q.actions)
		q.rows[s] = row
	}
	return row
}

// Value returns the value of action a in s
func (q *QTable) Value(s State, a int) float64 {
	return q.Row(s)[a]
}

// Max returns the largest action value in s
func (q *QTable) Max(s State) float64 {
	return floats.Max(q.Row(s))
}

// Greedy returns the action with the largest value in s. Ties are
// broken in favour of the lowest action index.
func (q *QTable) Greedy(s State) int {
	return floats.MaxIdx(q.Row(s))
}

// Update moves the value of action a in s towards target by step size
// alpha and returns the TD error of the update
func (q *QTable) Update(s State, a int, target, alpha float64) float64 {
	row := q.Row(s)
	delta := target - row[a]
	row[a] += alpha * delta
	return delta
}

// Len returns the number of States in the table
func (q *QTable) Len() int {
	return len(q.rows)
}

// Actions returns the number of actions in each row
func (q *QTable) Actions() int {
	return q.actions
}

// Contains returns whether s has been accessed
func (q *QTable) Contains(s State) bool {
	_, ok := q.rows[s]
	return ok
}
