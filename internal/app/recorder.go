package app

import (
	"context"
	"log"
	"sync"
	"time"

	"tickerbar/internal/config"
	"tickerbar/internal/dock"
	"tickerbar/internal/history"
)

const (
	recorderQueue = 32
	recordTimeout = 2 * time.Second
)

// recorder writes placements to history and, when remember_settings is
// on, back to the config file. It runs on its own goroutine so docking
// never waits on disk.
type recorder struct {
	cfg   *config.Config
	store *history.Store

	mu     sync.Mutex
	closed bool
	ch     chan dock.Placement
	done   chan struct{}
	last   dock.Settings
}

func newRecorder(cfg *config.Config, store *history.Store) *recorder {
	r := &recorder{
		cfg:   cfg,
		store: store,
		ch:    make(chan dock.Placement, recorderQueue),
		done:  make(chan struct{}),
		last:  cfg.Settings(),
	}
	go r.loop()
	return r
}

// Push queues p. Placements are dropped when the queue is full or closed.
func (r *recorder) Push(p dock.Placement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		log.Printf("Placement %s dropped after shutdown", p.Settings)
		return
	}
	select {
	case r.ch <- p:
	default:
		log.Printf("Placement queue full, dropping %s", p.Settings)
	}
}

// Close drains queued placements and stops the loop
func (r *recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *recorder) loop() {
	defer close(r.done)
	for p := range r.ch {
		r.handle(p)
	}
}

func (r *recorder) handle(p dock.Placement) {
	if r.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if _, err := r.store.Record(ctx, p); err != nil {
			log.Printf("Failed to record placement: %v", err)
		}
		cancel()
	}

	if r.cfg.RememberSettings && p.Settings != r.last {
		if err := config.SaveSettings(r.cfg.Path(), p.Settings); err != nil {
			log.Printf("Failed to save settings: %v", err)
			return
		}
		log.Printf("Remembered settings %s", p.Settings)
	}
	r.last = p.Settings
}
