package persist

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

// SnapshotFunc returns the current persistable snapshot of a conversation,
// or false when the conversation is unknown or still empty.
type SnapshotFunc func(conversationID string) (domain.PersistencePayload, bool)

// Options tune the debouncer.
type Options struct {
	// QuietWindow is how long a conversation must stay unmodified before its
	// snapshot is written.
	QuietWindow time.Duration
	// SaveRetries is how many additional save attempts follow a failed write.
	SaveRetries int
	// RetryBackoff is the pause between attempts.
	RetryBackoff time.Duration
	// WriteTimeout bounds one save attempt.
	WriteTimeout time.Duration
}

func (o *Options) fill() {
	if o.QuietWindow <= 0 {
		o.QuietWindow = 10 * time.Second
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 500 * time.Millisecond
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 15 * time.Second
	}
}

// Debouncer coalesces conversation mutations into one durable write per
// quiet window. Each conversation gets its own timer; a mutation restarts
// the timer rather than stacking a second one, so N mutations inside one
// window produce exactly one write of the latest state.
type Debouncer struct {
	store    Store
	snapshot SnapshotFunc
	userID   string
	opts     Options
	log      zerolog.Logger

	mu     sync.Mutex
	timers map[string]pendingTimer
	gen    uint64
	closed bool
	wg     sync.WaitGroup
}

// pendingTimer is one armed quiet-window timer. gen distinguishes it from any
// replacement armed for the same conversation, so a stale expiry can be told
// apart from the live one.
type pendingTimer struct {
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer writing snapshots for one user.
func NewDebouncer(store Store, snapshot SnapshotFunc, userID string, opts Options, log zerolog.Logger) *Debouncer {
	opts.fill()
	return &Debouncer{
		store:    store,
		snapshot: snapshot,
		userID:   userID,
		opts:     opts,
		log:      log.With().Str("component", "persist").Logger(),
		timers:   make(map[string]pendingTimer),
	}
}

// Notify (re)starts the quiet-window timer for a conversation. Safe to call
// from the session store's observer hook.
func (d *Debouncer) Notify(conversationID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if p, ok := d.timers[conversationID]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timers[conversationID] = pendingTimer{
		timer: time.AfterFunc(d.opts.QuietWindow, func() {
			d.fire(conversationID, gen)
		}),
		gen: gen,
	}
}

// fire runs in the timer goroutine. gen identifies which timer expired: an
// expiry that raced with a Notify replacing its timer must not write, and
// must not remove the replacement from the map.
func (d *Debouncer) fire(conversationID string, gen uint64) {
	d.mu.Lock()
	if p, ok := d.timers[conversationID]; d.closed || !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.timers, conversationID)
	d.wg.Add(1)
	d.mu.Unlock()
	defer d.wg.Done()

	d.write(conversationID)
}

// Flush writes a conversation's snapshot immediately, cancelling any pending
// timer for it.
func (d *Debouncer) Flush(conversationID string) {
	d.mu.Lock()
	if p, ok := d.timers[conversationID]; ok {
		p.timer.Stop()
		delete(d.timers, conversationID)
	}
	d.mu.Unlock()

	d.write(conversationID)
}

// FlushAll writes every conversation with a pending timer. Used at shutdown.
func (d *Debouncer) FlushAll() {
	d.mu.Lock()
	pending := make([]string, 0, len(d.timers))
	for id, p := range d.timers {
		p.timer.Stop()
		pending = append(pending, id)
	}
	d.timers = make(map[string]pendingTimer)
	d.mu.Unlock()

	for _, id := range pending {
		d.write(id)
	}
}

// Close stops all timers and waits for in-flight writes. Notify becomes a
// no-op afterwards.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	for _, p := range d.timers {
		p.timer.Stop()
	}
	d.timers = make(map[string]pendingTimer)
	d.mu.Unlock()

	d.wg.Wait()
}

// write saves one snapshot with bounded retry. Persistent failure is logged
// and swallowed: the conversation stays correct in memory and the next
// mutation schedules another attempt.
func (d *Debouncer) write(conversationID string) {
	payload, ok := d.snapshot(conversationID)
	if !ok {
		return
	}

	var err error
	for attempt := 0; attempt <= d.opts.SaveRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(d.opts.RetryBackoff)
		}
		ctx, cancel := context.WithTimeout(context.Background(), d.opts.WriteTimeout)
		err = d.store.Save(ctx, d.userID, payload)
		cancel()
		if err == nil {
			d.log.Debug().Str("conversation", conversationID).
				Int("turns", len(payload.Turns)).Msg("snapshot saved")
			return
		}
	}

	d.log.Error().Err(err).Str("conversation", conversationID).
		Msg("dropping snapshot after retries")
}
