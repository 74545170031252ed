package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"maps"
	"slices"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	brot "github.com/marben/dist_brot"
	"github.com/marben/dist_brot/fractal"
)

var errJobCancelled = errors.New("job cancelled")

// job is one plot, split into strips keyed by y offset.
type job struct {
	id     uint64
	spec   fractal.TileSpec
	strips map[uint32]fractal.TileSpec
	tiles  map[uint32]*fractal.Tile

	totalRows    uint32
	finishedRows uint32

	unstarted map[uint32]struct{}
	inProcess map[uint32]struct{}

	done      chan struct{}
	cancelled bool
}

// stripScheduler hands strips of queued jobs to whichever worker asks
// next. When nothing is left unstarted, strips still in process are
// handed out again so a slow or dead worker cannot stall a job.
type stripScheduler struct {
	cache     *fractal.TileCache
	rowHeight uint32
	printer   *message.Printer

	workers int
	nextJob uint64
	jobs    []*job
	wake    chan struct{}
	m       sync.Mutex
}

func newStripScheduler(cache *fractal.TileCache, rowHeight uint32) *stripScheduler {
	return &stripScheduler{
		cache:     cache,
		rowHeight: rowHeight,
		printer:   message.NewPrinter(language.English),
		wake:      make(chan struct{}),
	}
}

// broadcast wakes every idle worker. Caller holds s.m.
func (s *stripScheduler) broadcast() {
	close(s.wake)
	s.wake = make(chan struct{})
}

// submit queues spec. Strips already in the cache are filled in at once.
func (s *stripScheduler) submit(spec fractal.TileSpec) (*job, error) {
	strips, err := spec.Split(s.rowHeight)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	j := &job{
		spec:      spec,
		strips:    make(map[uint32]fractal.TileSpec, len(strips)),
		tiles:     make(map[uint32]*fractal.Tile, len(strips)),
		totalRows: spec.Height(),
		unstarted: make(map[uint32]struct{}, len(strips)),
		inProcess: make(map[uint32]struct{}),
		done:      make(chan struct{}),
	}
	for _, strip := range strips {
		off, _ := strip.YOffset()
		j.strips[off] = strip
		if cached, ok := s.cache.Get(strip); ok {
			if t, err := cached.WithSpec(strip); err == nil {
				j.tiles[off] = t
				j.finishedRows += strip.Height()
				continue
			}
		}
		j.unstarted[off] = struct{}{}
	}

	s.m.Lock()
	defer s.m.Unlock()
	s.nextJob++
	j.id = s.nextJob
	if len(j.unstarted) == 0 {
		close(j.done)
		log.Printf("job %d: %s served from cache", j.id, spec)
		return j, nil
	}
	s.jobs = append(s.jobs, j)
	s.broadcast()
	log.Print(s.printer.Sprintf("job %d: %s, %d strips, %d from cache", j.id, spec, len(strips), len(strips)-len(j.unstarted)))
	return j, nil
}

// popStrip picks the next strip to work on. If there is none, it returns
// the channel that will be closed when that may have changed.
func (s *stripScheduler) popStrip() (*job, fractal.TileSpec, <-chan struct{}) {
	s.m.Lock()
	defer s.m.Unlock()

	// Get an unstarted strip, oldest job first
	for _, j := range s.jobs {
		for off := range j.unstarted {
			delete(j.unstarted, off)
			j.inProcess[off] = struct{}{}
			return j, j.strips[off], nil
		}
	}

	// If there is no unstarted strip, we work again on a started one
	for _, j := range s.jobs {
		for off := range j.inProcess {
			return j, j.strips[off], nil
		}
	}

	return nil, fractal.TileSpec{}, s.wake
}

// next blocks until there is a strip to work on.
func (s *stripScheduler) next(ctx context.Context) (*job, fractal.TileSpec, error) {
	for {
		j, strip, wake := s.popStrip()
		if j != nil {
			return j, strip, nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			return nil, fractal.TileSpec{}, context.Cause(ctx)
		}
	}
}

func (s *stripScheduler) stripFinished(j *job, t *fractal.Tile) {
	off, _ := t.Spec().YOffset()

	s.m.Lock()
	defer s.m.Unlock()

	// A strip put back by stripFailed may still be finished by a worker
	// that had it handed out again.
	_, running := j.inProcess[off]
	_, queued := j.unstarted[off]
	if !running && !queued {
		// Someone else got there first, or the job is gone.
		return
	}
	delete(j.inProcess, off)
	delete(j.unstarted, off)
	j.tiles[off] = t
	j.finishedRows += t.Spec().Height()
	s.cache.Insert(t)

	log.Print(s.printer.Sprintf("job %d: %d of %d rows (%.1f%%)",
		j.id, j.finishedRows, j.totalRows, 100*float64(j.finishedRows)/float64(j.totalRows)))

	if len(j.unstarted) == 0 && len(j.inProcess) == 0 {
		s.removeJob(j)
		close(j.done)
	}
}

// stripFailed puts a strip back so another worker can pick it up.
func (s *stripScheduler) stripFailed(j *job, strip fractal.TileSpec) {
	off, _ := strip.YOffset()

	s.m.Lock()
	defer s.m.Unlock()

	if _, found := j.inProcess[off]; !found || j.cancelled {
		return
	}
	delete(j.inProcess, off)
	j.unstarted[off] = struct{}{}
	s.broadcast()
}

// removeJob drops j from the queue. Caller holds s.m.
func (s *stripScheduler) removeJob(j *job) {
	s.jobs = slices.DeleteFunc(s.jobs, func(q *job) bool { return q == j })
}

func (s *stripScheduler) cancel(j *job) {
	s.m.Lock()
	defer s.m.Unlock()
	if !j.cancelled {
		j.cancelled = true
		s.removeJob(j)
		log.Printf("job %d: cancelled", j.id)
	}
}

// wait blocks until j is complete and returns its strips in y offset
// order. If ctx ends first the job is withdrawn.
func (s *stripScheduler) wait(ctx context.Context, j *job) ([]*fractal.Tile, error) {
	select {
	case <-j.done:
	case <-ctx.Done():
		s.cancel(j)
		return nil, fmt.Errorf("job %d: %w: %w", j.id, errJobCancelled, context.Cause(ctx))
	}

	s.m.Lock()
	defer s.m.Unlock()
	tiles := make([]*fractal.Tile, 0, len(j.tiles))
	for _, off := range slices.Sorted(maps.Keys(j.tiles)) {
		tiles = append(tiles, j.tiles[off])
	}
	return tiles, nil
}

func (s *stripScheduler) incActiveWorkers() {
	s.m.Lock()
	s.workers++
	w := s.workers
	s.m.Unlock()

	log.Printf("workers: %d", w)
}

func (s *stripScheduler) decActiveWorkers() {
	s.m.Lock()
	s.workers--
	w := s.workers
	s.m.Unlock()

	log.Printf("workers: %d", w)
}

type schedulerStatus struct {
	Workers int         `json:"workers"`
	Jobs    []jobStatus `json:"jobs"`
}

type jobStatus struct {
	ID           uint64 `json:"id"`
	Spec         string `json:"spec"`
	TotalRows    uint32 `json:"total_rows"`
	FinishedRows uint32 `json:"finished_rows"`
}

func (s *stripScheduler) status() schedulerStatus {
	s.m.Lock()
	defer s.m.Unlock()
	st := schedulerStatus{Workers: s.workers, Jobs: make([]jobStatus, 0, len(s.jobs))}
	for _, j := range s.jobs {
		st.Jobs = append(st.Jobs, jobStatus{ID: j.id, Spec: j.spec.String(), TotalRows: j.totalRows, FinishedRows: j.finishedRows})
	}
	return st
}

// serve plots strips on p until ctx ends or p fails.
// Can be called from multiple goroutines in parallel.
func (s *stripScheduler) serve(ctx context.Context, p brot.Plotter, name string) error {
	s.incActiveWorkers()
	defer s.decActiveWorkers()

	for {
		j, strip, err := s.next(ctx)
		if err != nil {
			return err
		}
		res, err := p.PlotStrip(ctx, brot.NewStripRequest(j.id, strip))
		if err != nil {
			s.stripFailed(j, strip)
			return fmt.Errorf("plot strip on %s: %w", name, err)
		}
		t, err := res.Tile(strip)
		if err == nil && !t.IsComplete() {
			err = fmt.Errorf("strip plotted to %d of %d iterations", t.MaxIterPlotted(), strip.MaxIterRequested())
		}
		if err != nil {
			s.stripFailed(j, strip)
			return fmt.Errorf("strip %s from %s: %w", strip, name, err)
		}
		s.stripFinished(j, t)
	}
}
