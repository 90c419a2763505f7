package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pokerlog/internal/metrics"
	"pokerlog/internal/session"
)

// Dispatcher loads a conversation, runs one transition and saves it back.
// Conversations that end up idle in the main menu are removed from the store.
// Messages of the same conversation are processed one at a time in arrival
// order; different conversations run in parallel.
type Dispatcher struct {
	machine  *Machine
	sessions session.Store

	mu    sync.Mutex
	locks map[string]*convLock
}

type convLock struct {
	mu   sync.Mutex
	refs int
}

func NewDispatcher(machine *Machine, sessions session.Store) *Dispatcher {
	return &Dispatcher{
		machine:  machine,
		sessions: sessions,
		locks:    make(map[string]*convLock),
	}
}

// Dispatch handles one inbound message of conversation id. The error is only
// set when the session store itself fails; the response is still usable.
func (d *Dispatcher) Dispatch(ctx context.Context, id, text string) (Response, error) {
	unlock := d.lock(id)
	defer unlock()

	metrics.Inflight.Inc()
	defer metrics.Inflight.Dec()

	conv, err := d.sessions.Load(ctx, id)
	if errors.Is(err, session.ErrNoConversation) {
		conv = &session.Conversation{ID: id, State: MainMenu.String()}
	} else if err != nil {
		return Response{}, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}

	resp := d.machine.Handle(ctx, conv, text)

	// An idle conversation equals a fresh one, so it is not kept.
	if ParseState(conv.State) == MainMenu && conv.Draft.IsEmpty() {
		if err := d.sessions.Delete(ctx, id); err != nil {
			return resp, fmt.Errorf("failed to drop conversation %s: %w", id, err)
		}
		return resp, nil
	}
	if err := d.sessions.Save(ctx, conv); err != nil {
		return resp, fmt.Errorf("failed to save conversation %s: %w", id, err)
	}
	return resp, nil
}

// lock acquires the per-conversation mutex and returns its release func.
// Entries are dropped once nobody holds or waits for them.
func (d *Dispatcher) lock(id string) func() {
	d.mu.Lock()
	l, ok := d.locks[id]
	if !ok {
		l = &convLock{}
		d.locks[id] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, id)
		}
		d.mu.Unlock()
	}
}

// pending reports how many conversations currently hold or wait for a lock.
func (d *Dispatcher) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.locks)
}
