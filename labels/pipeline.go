package labels

import (
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Pipeline runs label modules over event frames with one worker per
// in-flight event. Each frame owns its tree, so workers share nothing and
// order of the output frames is unspecified.
type Pipeline struct {
	Modules []Module
	// Workers defaults to the number of logical cores.
	Workers int
	// Log defaults to zap.NewNop().
	Log *zap.Logger
}

// Run processes frames from in and forwards the successfully labeled ones.
// The returned channel is closed after the last frame. Frames whose
// processing panics (malformed simulation records tripping a core
// precondition) are logged and dropped; the panic aborts only that event.
func (p *Pipeline) Run(in <-chan *Frame) <-chan *Frame {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := p.logger()

	out := make(chan *Frame, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range in {
				if p.process(f, log) {
					out <- f
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (p *Pipeline) process(f *Frame, log *zap.Logger) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("event aborted",
				zap.Stringer("event", f.EventID),
				zap.Any("reason", r),
			)
			ok = false
		}
	}()

	for _, m := range p.Modules {
		if err := m.Process(f); err != nil {
			log.Error("module failed",
				zap.String("module", m.Name()),
				zap.Stringer("event", f.EventID),
				zap.Error(err),
			)
			return false
		}
	}
	return true
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}
