package simplefsm

import "sync"

// Locked serializes access to a Machine shared between goroutines.
// Callbacks run with the lock held and must not call back into the wrapper.
type Locked[C, E any] struct {
	mu sync.Mutex
	m  *Machine[C, E]
}

// NewLocked wraps m
func NewLocked[C, E any](m *Machine[C, E]) *Locked[C, E] {
	return &Locked[C, E]{m: m}
}

func (l *Locked[C, E]) Init(cfg Config[C, E]) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Init(cfg)
}

func (l *Locked[C, E]) Deinit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m.Deinit()
}

func (l *Locked[C, E]) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Start()
}

func (l *Locked[C, E]) OnEvent(event E) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.OnEvent(event)
}

func (l *Locked[C, E]) ForceStop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.ForceStop()
}

func (l *Locked[C, E]) CurrentState() (StateID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.CurrentState()
}

func (l *Locked[C, E]) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Started()
}
