package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/riseabove/systems"
)

// parallelThreshold is the minimum agent count to sense in parallel.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// senseChunk is a range of agents for one worker.
type senseChunk struct {
	start, end int
}

// parallelState holds the sensing worker pool.
//
// Sensing is the only phase that runs on workers: each agent writes only
// its own memory while the index, snapshots and food index are read-only,
// so the outcome does not depend on scheduling.
type parallelState struct {
	numWorkers int
	results    []systems.SenseStats // per agent, summed after the pass

	workChan chan senseChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState(workers int) *parallelState {
	if workers > runtime.GOMAXPROCS(0) {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelState{numWorkers: max(1, workers)}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Simulation) {
	if p.running {
		return
	}

	p.workChan = make(chan senseChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker processes chunks until stopped.
func (p *parallelState) worker(s *Simulation) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.senseRange(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// senseAll runs sensing for every agent and returns the summed stats.
func (s *Simulation) senseAll() systems.SenseStats {
	n := len(s.agents)
	p := s.parallel
	if cap(p.results) < n {
		p.results = make([]systems.SenseStats, n)
	}
	p.results = p.results[:n]

	if p.numWorkers < 2 || n < parallelThreshold {
		s.senseRange(0, n)
	} else {
		s.senseParallel(n)
	}

	var total systems.SenseStats
	for _, r := range p.results {
		total.Records += r.Records
		total.FoodRecords += r.FoodRecords
		total.LookupFailures += r.LookupFailures
	}
	return total
}

// senseParallel splits the agents into one chunk per worker and waits.
func (s *Simulation) senseParallel(n int) {
	p := s.parallel
	if !p.running {
		p.startWorkers(s)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for start := 0; start < n; start += chunkSize {
		p.workChan <- senseChunk{start: start, end: min(start+chunkSize, n)}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// senseRange senses agents [i0, i1).
func (s *Simulation) senseRange(i0, i1 int) {
	for i := i0; i < i1; i++ {
		s.parallel.results[i] = systems.Sense(
			s.agents[i], s.index, s.snapshots, s.foodIndex, s.now, s.cfg.Sensing,
		)
	}
}
