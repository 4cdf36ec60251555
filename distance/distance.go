package distance

import (
	"errors"
	"fmt"
)

// ErrInvalidWeights is returned when an edit cost is not positive.
var ErrInvalidWeights = errors.New("distance: edit costs must be positive")

// Weights holds the per-operation costs of the edit distance.
type Weights struct {
	Insert     int
	Delete     int
	Substitute int
}

// DefaultWeights are the costs used for ranking suggestions.
var DefaultWeights = Weights{
	Insert:     1,
	Delete:     5,
	Substitute: 2,
}

// unitWeights yields the classic Levenshtein distance.
var unitWeights = Weights{Insert: 1, Delete: 1, Substitute: 1}

// Validate reports whether all costs are positive.
func (w Weights) Validate() error {
	if w.Insert <= 0 || w.Delete <= 0 || w.Substitute <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidWeights, w)
	}
	return nil
}

func (w Weights) String() string {
	return fmt.Sprintf("Weights(insert=%d, delete=%d, substitute=%d)", w.Insert, w.Delete, w.Substitute)
}

// Distance returns the cost of transforming base into candidate.
// It is rune-aware and uses a single rolling row.
func (w Weights) Distance(base, candidate string) int {
	rb, rc := []rune(base), []rune(candidate)

	if len(rb) == 0 {
		return len(rc) * w.Insert
	}
	if len(rc) == 0 {
		return len(rb) * w.Delete
	}

	// row[j] = Distance(rb[:i], rc[:j])
	row := make([]int, len(rc)+1)
	for j := range row {
		row[j] = j * w.Insert
	}

	for i := 1; i <= len(rb); i++ {
		diag := row[0]
		row[0] = i * w.Delete
		for j := 1; j <= len(rc); j++ {
			above := row[j]

			cost := diag
			if rb[i-1] != rc[j-1] {
				cost += w.Substitute
			}
			if d := above + w.Delete; d < cost {
				cost = d
			}
			if d := row[j-1] + w.Insert; d < cost {
				cost = d
			}

			row[j] = cost
			diag = above
		}
	}
	return row[len(rc)]
}

// Weighted returns the distance from base to candidate under DefaultWeights.
func Weighted(base, candidate string) int {
	return DefaultWeights.Distance(base, candidate)
}

// Levenshtein returns the unit-cost edit distance between a and b.
func Levenshtein(a, b string) int {
	return unitWeights.Distance(a, b)
}
