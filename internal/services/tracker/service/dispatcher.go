package service

import (
	"context"
	"sync"
	"time"

	"guia/internal/core/speech"
	"guia/internal/platform/logger"
	"guia/internal/services/tracker/domain"
)

// defaultInterval is how often the dispatcher drains the queue on the
// regular, non-bypass path
const defaultInterval = 10 * time.Second

// Dispatcher drains a speech queue on a fixed interval and forwards items to
// the speaker one at a time. The immediate bypass path calls ProcessQueue
// directly, outside any tick
type Dispatcher struct {
	queue    *speech.Queue
	speaker  domain.SpeakerPort
	interval time.Duration
	log      logger.Logger

	mu       sync.Mutex
	speaking sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	ctx      context.Context
}

// NewDispatcher wires a queue to a speaker. Start must be called before the
// interval timer runs; the bypass path works without it
func NewDispatcher(q *speech.Queue, speaker domain.SpeakerPort, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Dispatcher{
		queue:    q,
		speaker:  speaker,
		interval: interval,
		log:      *logger.Named("dispatcher"),
	}
}

// Start launches the interval timer. ctx bounds the whole dispatcher
// lifetime: when it ends the timer stops for good. Calling Start while the
// timer is already running is a no-op
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctx = ctx
	d.startLocked()
}

func (d *Dispatcher) startLocked() {
	if d.cancel != nil || d.ctx == nil {
		return
	}
	ctx, cancel := context.WithCancel(d.ctx)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done

	go func() {
		defer close(done)
		t := time.NewTicker(d.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				// clear the handle so TimerRunning reports false after the
				// parent context ends, not only after StopTimer
				d.mu.Lock()
				if d.done == done {
					d.cancel, d.done = nil, nil
				}
				d.mu.Unlock()
				return
			case <-t.C:
				d.ProcessQueue(ctx)
			}
		}
	}()
}

// StopTimer cancels the interval timer. Pending items stay queued and the
// bypass path keeps working; nothing drains on a schedule until Start or
// Restart
func (d *Dispatcher) StopTimer() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Restart stops any running timer and starts a fresh one. Calling it while
// stopped just starts the timer
func (d *Dispatcher) Restart() {
	d.StopTimer()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.startLocked()
}

// TimerRunning reports whether the interval timer is live
func (d *Dispatcher) TimerRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

// ProcessQueue drains every ready item, speaking them one at a time. Speaker
// failures are logged and processing continues; the queue state machine never
// crashes on a bad backend
func (d *Dispatcher) ProcessQueue(ctx context.Context) {
	d.speaking.Lock()
	defer d.speaking.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		it := d.queue.Dequeue()
		if it == nil {
			return
		}
		if err := d.speaker.Speak(ctx, it.Text); err != nil {
			d.log.Warn().Err(err).Str("text", it.Text).Msg("speaker failed, continuing")
		}
	}
}
