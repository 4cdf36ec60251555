// Package distance provides weighted edit distances between strings.
//
// Distances are computed on runes, so multi-byte UTF-8 characters count as a
// single edit. Each edit operation carries its own cost:
//
//   - Insert: a character of the candidate that the base lacks
//   - Delete: a character of the base that the candidate lacks
//   - Substitute: a character replaced by another
//
// The default weights (insert 1, delete 5, substitute 2) make extensions of a
// partially typed base cheaper than candidates that require dropping what the
// user already typed.
//
// # Usage
//
//	d := distance.Weighted("pas", "past")      // 1
//	d = distance.DefaultWeights.Distance("ab", "a") // 5
//	l := distance.Levenshtein("kitten", "sitting")  // 3
package distance
