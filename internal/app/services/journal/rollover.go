package journal

import (
	"context"
	"sync"
	"time"

	"github.com/aurawell/aura/pkg/logger"
)

// Roller opens a fresh day record shortly after each local midnight so stats
// and task submissions always have a row to land on. It plugs into the system
// manager as a lifecycle service.
type Roller struct {
	svc      *Service
	interval time.Duration
	now      func() time.Time
	log      *logger.Logger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	started bool
}

// NewRoller creates a rollover worker polling at the given interval. A zero
// interval defaults to one minute; the check is idempotent so frequent polls
// are harmless.
func NewRoller(svc *Service, interval time.Duration, log *logger.Logger) *Roller {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = logger.NewDefault("rollover")
	}
	return &Roller{svc: svc, interval: interval, now: time.Now, log: log}
}

func (r *Roller) Name() string { return "day-rollover" }

func (r *Roller) Start(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	r.started = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.loop(r.stop, r.done)
	return nil
}

func (r *Roller) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return nil
	}
	r.started = false
	close(r.stop)
	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (r *Roller) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.ensureToday()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.ensureToday()
		}
	}
}

func (r *Roller) ensureToday() {
	date := r.now().Format("2006-01-02")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.svc.EnsureDay(ctx, date); err != nil {
		r.log.WithError(err).WithField("date", date).Warn("day rollover failed")
	}
}
