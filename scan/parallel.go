package scan

import (
	"sync"

	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/cube"
	"github.com/quadrantdb/quadrant/errors"
	"github.com/quadrantdb/quadrant/storage"
)

// ParallelExecutor fans record batches out over several workers. A conversion
// plan is only safe for one conversion call at a time, so every worker holds
// its own Executor - plans are cheap to construct relative to the scan since
// dictionaries and lookup tables are shared read-only underneath.
type ParallelExecutor struct {
	workers []*Executor
}

func NewParallelExecutor(numWorkers int, segment *cube.Segment, cuboid *cube.Cuboid,
	selectedDims []common.ColRef, selectedMeasures []*common.MeasureDesc,
	tupleInfo *common.TupleInfo) (*ParallelExecutor, error) {
	if numWorkers < 1 {
		return nil, errors.Errorf("numWorkers must be >= 1")
	}
	workers := make([]*Executor, numWorkers)
	for i := range workers {
		executor, err := NewExecutor(segment, cuboid, selectedDims, selectedMeasures, tupleInfo)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		workers[i] = executor
	}
	return &ParallelExecutor{workers: workers}, nil
}

// Execute routes each record to a worker by hash of its key and converts the
// batches concurrently. Results are returned grouped by worker, so output
// order is deterministic for a given input and worker count.
func (p *ParallelExecutor) Execute(pairs []storage.KVPair) ([]*common.Tuple, error) {
	numWorkers := len(p.workers)
	batches := make([][]storage.KVPair, numWorkers)
	for _, pair := range pairs {
		w := common.CalculateShard(pair.Key, numWorkers)
		batches[w] = append(batches[w], pair)
	}

	results := make([][]*common.Tuple, numWorkers)
	errs := make([]error, numWorkers)
	var wg sync.WaitGroup
	for i := range p.workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.workers[i].ExecutePairs(batches[i])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}
	var tuples []*common.Tuple
	for _, res := range results {
		tuples = append(tuples, res...)
	}
	return tuples, nil
}
