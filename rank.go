package formdb

import (
	"fmt"
	"runtime"

	"github.com/hupe1980/formdb/queue"
	"golang.org/x/sync/errgroup"
)

// rank returns at most count candidates ordered by ascending distance from
// base. Ties keep candidate order.
func (s *Store) rank(base string, candidates []string, count int) []string {
	dists := s.score(base, candidates)

	top := queue.NewTopK(count)
	for i, c := range candidates {
		top.Offer(queue.Item{Value: c, Distance: dists[i], Seq: i})
	}
	return top.Values()
}

// score computes the distance of every candidate. Large candidate sets are
// split into one chunk per worker.
func (s *Store) score(base string, candidates []string) []int {
	dists := make([]int, len(candidates))
	dist := s.opts.weights.Distance

	threshold := s.opts.parallelThreshold
	workers := runtime.GOMAXPROCS(0)
	if threshold <= 0 || len(candidates) < threshold || workers < 2 {
		for i, c := range candidates {
			dists[i] = dist(base, c)
		}
		return dists
	}

	chunk := (len(candidates) + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(candidates); start += chunk {
		end := min(start+chunk, len(candidates))
		g.Go(func() error {
			for i := start; i < end; i++ {
				dists[i] = dist(base, candidates[i])
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return dists
}

func checkCount(count int) {
	if count <= 0 {
		panic(fmt.Errorf("formdb: %w: %d", ErrInvalidCount, count))
	}
}
