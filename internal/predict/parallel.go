package predict

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"spotpredict/internal/rtable"
	"spotpredict/internal/xtal"
)

// chunk is one numbered slice of work; seq orders the merged output so
// that the result table preserves input order.
type chunk struct {
	seq int
	hs  []xtal.Miller
}

// sliceChunks cuts a caller-supplied index list into fixed-size chunks.
func sliceChunks(hs []xtal.Miller) func(chan<- chunk) int {
	return func(out chan<- chunk) int {
		seq := 0
		for len(hs) > 0 {
			n := chunkSize
			if n > len(hs) {
				n = len(hs)
			}
			out <- chunk{seq: seq, hs: hs[:n]}
			hs = hs[n:]
			seq++
		}
		return seq
	}
}

// generatorChunks drains an index generator into chunks without
// materializing the whole candidate set.
func generatorChunks(gen *xtal.IndexGenerator) func(chan<- chunk) int {
	return func(out chan<- chunk) int {
		seq := 0
		buf := make([]xtal.Miller, 0, chunkSize)
		for {
			h, ok := gen.Next()
			if ok {
				buf = append(buf, h)
			}
			if len(buf) == chunkSize || (!ok && len(buf) > 0) {
				out <- chunk{seq: seq, hs: buf}
				seq++
				buf = make([]xtal.Miller, 0, chunkSize)
			}
			if !ok {
				return seq
			}
		}
	}
}

// runParallel fans chunks out to workers, each of which fills a private
// table per chunk, then merges the tables in sequence order. No locks
// are needed on the hot path; only the result map is shared. Returns
// the merged table and the number of indices processed.
func runParallel(pl *pipeline, workers int, produce func(chan<- chunk) int) (*rtable.Table, int, error) {
	work := make(chan chunk, workers)

	var mu sync.Mutex
	results := map[int]*rtable.Table{}
	indices := 0

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for c := range work {
				t := pl.processChunk(c.hs)
				mu.Lock()
				results[c.seq] = t
				indices += len(c.hs)
				mu.Unlock()
			}
			return nil
		})
	}

	nchunks := produce(work)
	close(work)
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	merged := rtable.New()
	newPredictionData(merged) // fix the column layout even for empty output
	for seq := 0; seq < nchunks; seq++ {
		if err := merged.Merge(results[seq]); err != nil {
			return nil, 0, err
		}
	}
	return merged, indices, nil
}
