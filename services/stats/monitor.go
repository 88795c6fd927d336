package stats

import (
	"context"
	"sync"
	"time"

	feedbackRepo "repairhub/database/repository/feedback"
	"repairhub/models"

	"go.uber.org/zap"
)

// Patch replaces one collection's share of the input.
type Patch func(in *Input)

// Watcher listens to one collection and calls push with a Patch on every
// change. It blocks until ctx is done or the listener breaks.
type Watcher func(ctx context.Context, push func(Patch)) error

type update struct {
	source string
	patch  Patch
}

// Monitor keeps a live aggregate over a set of watchers. A single goroutine
// owns the input and applies patches one at a time, so every published
// aggregate is computed from whole collection pushes.
type Monitor struct {
	watchers map[string]Watcher
	logger   *zap.Logger
	now      func() time.Time

	minBackoff time.Duration
	maxBackoff time.Duration

	updates chan update

	mu      sync.Mutex
	latest  *models.Stats
	subs    map[chan models.Stats]struct{}
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewMonitor(watchers map[string]Watcher, logger *zap.Logger) *Monitor {
	return &Monitor{
		watchers:   watchers,
		logger:     logger,
		now:        time.Now,
		minBackoff: time.Second,
		maxBackoff: time.Minute,
		updates:    make(chan update),
		subs:       make(map[chan models.Stats]struct{}),
	}
}

// Start launches the watchers and the owner goroutine. Calling Start on a
// running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.stopped = false
	m.mu.Unlock()

	m.wg.Add(1)
	go m.own(ctx)
	for name, w := range m.watchers {
		m.wg.Add(1)
		go m.run(ctx, name, w)
	}
}

// Stop cancels every watcher, waits for them to return and closes all
// subscriber channels.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()

	m.mu.Lock()
	for ch := range m.subs {
		close(ch)
		delete(m.subs, ch)
	}
	m.stopped = true
	m.mu.Unlock()
}

// Latest returns the most recent aggregate, if one has been published.
func (m *Monitor) Latest() (models.Stats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest == nil {
		return models.Stats{}, false
	}
	return *m.latest, true
}

// Subscribe returns a channel receiving every published aggregate, starting
// with the latest one if any. Slow subscribers only see the newest value.
// The channel is closed by Stop. The returned func unsubscribes.
func (m *Monitor) Subscribe() (<-chan models.Stats, func()) {
	ch := make(chan models.Stats, 1)
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	m.subs[ch] = struct{}{}
	if m.latest != nil {
		ch <- *m.latest
	}
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, ch)
			m.mu.Unlock()
		})
	}
}

func (m *Monitor) own(ctx context.Context) {
	defer m.wg.Done()

	var in Input
	seen := make(map[string]bool, len(m.watchers))
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-m.updates:
			u.patch(&in)
			seen[u.source] = true
			// Publish only once every collection has been loaded.
			if len(seen) < len(m.watchers) {
				continue
			}
			m.publish(Aggregate(in, m.now()))
		}
	}
}

func (m *Monitor) publish(st models.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = &st
	for ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

// run keeps one watcher alive, restarting it with capped exponential backoff
// whenever it returns before ctx is done.
func (m *Monitor) run(ctx context.Context, name string, w Watcher) {
	defer m.wg.Done()

	push := func(p Patch) {
		select {
		case m.updates <- update{source: name, patch: p}:
		case <-ctx.Done():
		}
	}

	delay := m.minBackoff
	for {
		started := time.Now()
		err := w(ctx, push)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > m.maxBackoff {
			delay = m.minBackoff
		}
		m.logger.Warn("stats listener stopped, restarting",
			zap.String("collection", name),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > m.maxBackoff {
			delay = m.maxBackoff
		}
	}
}

// RepositoryWatchers builds one watcher per dashboard collection.
func RepositoryWatchers(repos Repositories) map[string]Watcher {
	w := map[string]Watcher{
		"appointments": func(ctx context.Context, push func(Patch)) error {
			return repos.Appointments.Watch(ctx, func(v []models.Appointment) {
				push(func(in *Input) { in.Appointments = v })
			})
		},
		"users": func(ctx context.Context, push func(Patch)) error {
			return repos.Users.Watch(ctx, func(v []models.User) {
				push(func(in *Input) { in.Users = v })
			})
		},
		"technicians": func(ctx context.Context, push func(Patch)) error {
			return repos.Technicians.Watch(ctx, func(v []models.Technician) {
				push(func(in *Input) { in.Technicians = v })
			})
		},
		"shops": func(ctx context.Context, push func(Patch)) error {
			return repos.Shops.Watch(ctx, func(v []models.Shop) {
				push(func(in *Input) { in.Shops = v })
			})
		},
		"ratings": func(ctx context.Context, push func(Patch)) error {
			return repos.Feedback.WatchRatings(ctx, func(v []models.Rating) {
				push(func(in *Input) { in.Ratings = v })
			})
		},
	}
	for _, name := range feedbackRepo.FeedbackCollections {
		source := name
		w[source] = func(ctx context.Context, push func(Patch)) error {
			return repos.Feedback.WatchFeedback(ctx, source, func(v []models.Feedback) {
				push(func(in *Input) { in.Feedback = replaceSource(in.Feedback, source, v) })
			})
		}
	}
	return w
}

// replaceSource swaps the entries of one feedback collection.
func replaceSource(all []models.Feedback, source string, fresh []models.Feedback) []models.Feedback {
	out := make([]models.Feedback, 0, len(all)+len(fresh))
	for _, f := range all {
		if f.Source != source {
			out = append(out, f)
		}
	}
	return append(out, fresh...)
}

