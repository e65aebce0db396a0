package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

type Phase int

const (
	Idle Phase = iota
	Pending
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

const (
	DefaultSuccessHold = 2 * time.Second
	DefaultErrorHold   = 3 * time.Second
)

var ErrInFlight = errors.New("action already pending")

// State is one transition of a key. Gen grows with every transition of the
// store, so a listener receiving states from several goroutines can drop any
// state older than the last one it saw for the key.
type State[R any] struct {
	Key    string `json:"key"`
	Phase  Phase  `json:"phase"`
	Result R      `json:"result,omitempty"`
	Err    error  `json:"-"`
	Gen    uint64 `json:"gen"`
}

type Options struct {
	SuccessHold time.Duration
	ErrorHold   time.Duration
	Clock       clock.Clock
	Logger      *zap.Logger
}

type entry[R any] struct {
	state State[R]
	timer *clock.Timer
	gen   uint64
}

// Store tracks one provisional action per key. Finished actions stay visible
// for a hold period and then fall back to idle.
type Store[R any] struct {
	mut       sync.Mutex
	entries   map[string]*entry[R]
	listeners map[int]func(State[R])
	nextSub   int
	gen       uint64
	opts      Options
}

func New[R any](opts Options) *Store[R] {
	if opts.SuccessHold <= 0 {
		opts.SuccessHold = DefaultSuccessHold
	}
	if opts.ErrorHold <= 0 {
		opts.ErrorHold = DefaultErrorHold
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store[R]{
		entries:   make(map[string]*entry[R]),
		listeners: make(map[int]func(State[R])),
		opts:      opts,
	}
}

// Subscribe registers fn to receive every transition. The returned func
// removes it.
func (s *Store[R]) Subscribe(fn func(State[R])) func() {
	s.mut.Lock()
	defer s.mut.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mut.Lock()
		delete(s.listeners, id)
		s.mut.Unlock()
	}
}

func (s *Store[R]) State(key string) State[R] {
	s.mut.Lock()
	defer s.mut.Unlock()
	if e, ok := s.entries[key]; ok {
		return e.state
	}
	return State[R]{Key: key, Phase: Idle}
}

// Snapshot returns a copy of every non-idle key.
func (s *Store[R]) Snapshot() map[string]State[R] {
	s.mut.Lock()
	defer s.mut.Unlock()
	res := make(map[string]State[R], len(s.entries))
	for k, e := range s.entries {
		res[k] = e.state
	}
	return res
}

func (s *Store[R]) Begin(key string) {
	s.set(key, State[R]{Key: key, Phase: Pending}, 0)
}

func (s *Store[R]) Complete(key string, result R) {
	s.set(key, State[R]{Key: key, Phase: Success, Result: result}, s.opts.SuccessHold)
}

func (s *Store[R]) Fail(key string, err error) {
	s.set(key, State[R]{Key: key, Phase: Error, Err: err}, s.opts.ErrorHold)
}

func (s *Store[R]) Clear(key string) {
	s.mut.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mut.Unlock()
		return
	}
	e.stop()
	delete(s.entries, key)
	s.gen++
	st := State[R]{Key: key, Phase: Idle, Gen: s.gen}
	s.mut.Unlock()
	s.notify(st)
}

// Run drives key through one action: pending, then fn exactly once, then
// success or error. It refuses to start while key is pending. If key is
// cleared or restarted while fn runs, the outcome of fn is returned to the
// caller but not recorded.
func (s *Store[R]) Run(ctx context.Context, key string, fn func(ctx context.Context) (R, error)) (R, error) {
	var zero R
	s.mut.Lock()
	if e, ok := s.entries[key]; ok && e.state.Phase == Pending {
		s.mut.Unlock()
		return zero, ErrInFlight
	}
	st := s.setLocked(key, State[R]{Key: key, Phase: Pending}, 0)
	s.mut.Unlock()
	s.notify(st)
	res, err := fn(ctx)
	if err != nil {
		s.opts.Logger.Debug("action failed", zap.String("key", key), zap.Error(err))
		s.finish(st.Gen, State[R]{Key: key, Phase: Error, Err: err}, s.opts.ErrorHold)
		return zero, err
	}
	s.finish(st.Gen, State[R]{Key: key, Phase: Success, Result: res}, s.opts.SuccessHold)
	return res, nil
}

// finish records st only if the key is still at generation gen.
func (s *Store[R]) finish(gen uint64, st State[R], hold time.Duration) {
	s.mut.Lock()
	e, ok := s.entries[st.Key]
	if !ok || e.gen != gen {
		s.mut.Unlock()
		s.opts.Logger.Debug("dropping superseded outcome", zap.String("key", st.Key), zap.Stringer("phase", st.Phase))
		return
	}
	st = s.setLocked(st.Key, st, hold)
	s.mut.Unlock()
	s.notify(st)
}

func (s *Store[R]) set(key string, st State[R], hold time.Duration) {
	s.mut.Lock()
	st = s.setLocked(key, st, hold)
	s.mut.Unlock()
	s.notify(st)
}

func (s *Store[R]) setLocked(key string, st State[R], hold time.Duration) State[R] {
	e, ok := s.entries[key]
	if !ok {
		e = &entry[R]{}
		s.entries[key] = e
	}
	e.stop()
	s.gen++
	e.gen = s.gen
	st.Gen = e.gen
	e.state = st
	if hold > 0 {
		gen := e.gen
		e.timer = s.opts.Clock.AfterFunc(hold, func() { s.expire(key, gen) })
	}
	return st
}

func (s *Store[R]) expire(key string, gen uint64) {
	s.mut.Lock()
	e, ok := s.entries[key]
	if !ok || e.gen != gen {
		s.mut.Unlock()
		return
	}
	delete(s.entries, key)
	s.gen++
	st := State[R]{Key: key, Phase: Idle, Gen: s.gen}
	s.mut.Unlock()
	s.notify(st)
}

// notify runs outside the lock, so listeners may see transitions of one key
// out of order when several goroutines drive it; compare Gen to order them.
func (s *Store[R]) notify(st State[R]) {
	s.mut.Lock()
	fns := make([]func(State[R]), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mut.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

func (e *entry[R]) stop() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
